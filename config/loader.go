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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a file (YAML or JSON).
// The file format is determined by the file extension (.yaml, .yml, or .json).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := cfg.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads configuration overrides from environment variables.
// Environment variables take precedence over file-based configuration,
// except ENTITYKIT_REDIS_ADDRESS, which only fills in a Redis address the
// file leaves empty.
// Format: ENTITYKIT_<SECTION>_<FIELD> (e.g., ENTITYKIT_LOGGING_LEVEL).
func (c *Config) LoadEnv() error {
	if v := os.Getenv("ENTITYKIT_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ENTITYKIT_LOGGING_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ENTITYKIT_METRICS_ENABLED"); v != "" {
		c.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("ENTITYKIT_METRICS_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Metrics.Port = port
		}
	}

	if v := os.Getenv("ENTITYKIT_REDIS_ADDRESS"); v != "" {
		for i := range c.Entities {
			if c.Entities[i].UseRedis && c.Entities[i].Redis.Address == "" {
				c.Entities[i].Redis.Address = v
			}
		}
	}
	if v := os.Getenv("ENTITYKIT_POSTGRES_PASSWORD"); v != "" {
		for i := range c.Entities {
			if c.Entities[i].UsePostgres {
				c.Entities[i].Postgres.Password = v
			}
		}
	}

	return nil
}
