// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config provides configuration management for a deployment
// embedding entitykit.
//
// The configuration system supports multiple sources with the following
// precedence:
//  1. Environment variables (prefixed with ENTITYKIT_)
//  2. Configuration file (YAML or JSON)
//  3. Default values
//
// # Configuration Structure
//
// The configuration is organized into sections:
//   - Entities: one EntityConfig per registered entity type's Stack
//   - Scheduler: queue.Scheduler retry backoff
//   - Logging: logging configuration
//   - Metrics: metrics and monitoring
//
// # Usage
//
// Loading configuration:
//
//	cfg, err := config.LoadFromFile("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variable override:
//
//	export ENTITYKIT_LOGGING_LEVEL="debug"
//	export ENTITYKIT_METRICS_ENABLED="true"
//	export ENTITYKIT_METRICS_PORT="9091"
//
// # Validation
//
// All configuration is validated before use. Validation rules include:
//   - Entity type must not be empty and must not repeat
//   - Entity must register at least one store (memory, postgres, or redis)
//   - A registered postgres or redis store must have its own fields set
//   - Resilient requires the redis (remote) store to be registered
//   - Scheduler backoff fields must be positive and internally consistent
//
// See the Config.Validate() method for complete validation rules.
package config
