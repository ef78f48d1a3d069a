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

package config

import (
	"fmt"
)

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Entities))
	for _, e := range c.Entities {
		if err := e.validate(); err != nil {
			return err
		}
		if seen[e.Type] {
			return fmt.Errorf("entity type %q registered more than once", e.Type)
		}
		seen[e.Type] = true
	}

	if err := c.validateScheduler(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateMetrics(); err != nil {
		return err
	}

	return nil
}

func (e *EntityConfig) validate() error {
	if e.Type == "" {
		return fmt.Errorf("entity type must not be empty")
	}

	if !e.Memory && !e.UsePostgres && !e.UseRedis {
		return fmt.Errorf("entity %q must register at least one store", e.Type)
	}

	if e.UseRedis {
		if e.Redis.Address == "" {
			return fmt.Errorf("entity %q: redis address must not be empty", e.Type)
		}
	}

	if e.UsePostgres {
		if e.Postgres.Host == "" {
			return fmt.Errorf("entity %q: postgres host must not be empty", e.Type)
		}
		if e.Postgres.Port < 1 || e.Postgres.Port > 65535 {
			return fmt.Errorf("entity %q: postgres port must be between 1 and 65535", e.Type)
		}
		if e.Postgres.Database == "" {
			return fmt.Errorf("entity %q: postgres database must not be empty", e.Type)
		}
	}

	if e.Resilient && !e.UseRedis {
		return fmt.Errorf("entity %q: resilient requires the redis (remote) store", e.Type)
	}

	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.BaseBackoff <= 0 {
		return fmt.Errorf("scheduler base backoff must be positive")
	}
	if c.Scheduler.BackoffMultiplier < 1.0 {
		return fmt.Errorf("scheduler backoff multiplier must be at least 1.0")
	}
	if c.Scheduler.MaxBackoff < c.Scheduler.BaseBackoff {
		return fmt.Errorf("scheduler max backoff must be at least base backoff")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("logging level must be one of: debug, info, warn, error, fatal")
		}
	}

	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging format must be 'json' or 'text'")
	}

	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return fmt.Errorf("metrics port must be between 1 and 65535")
		}
		if c.Metrics.Path == "" {
			return fmt.Errorf("metrics path must not be empty")
		}
	}
	return nil
}
