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
	"time"
)

// Config represents the complete configuration for a deployment embedding
// entitykit: which entity types it registers, how each type's Stack is
// composed, how its queue.Scheduler retries, and how it logs and exposes
// metrics.
type Config struct {
	Entities  []EntityConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

// EntityConfig describes one registered entity type's Stack composition.
// A Stack holds at most one store.Store per store.Level, so this mirrors
// that: Memory selects store.LevelMemory, Postgres selects store.LevelDisk,
// and Redis selects store.LevelRemote.
type EntityConfig struct {
	// Type names the entity type, e.g. "contact".
	Type string

	// Memory enables an in-process store.MemoryStore for this type.
	Memory bool

	// UsePostgres registers a store.LevelDisk store backed by PostgreSQL.
	UsePostgres bool
	Postgres    PostgresConfig

	// UseRedis registers a store.LevelRemote store backed by Redis.
	UseRedis bool
	Redis    RedisConfig

	// Resilient wraps the remote (Redis) store with bulkhead/circuit-breaker/
	// timeout protection when true.
	Resilient bool
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSLMode   string
	TableName string
}

// SchedulerConfig contains queue.Scheduler retry behavior.
type SchedulerConfig struct {
	// BaseBackoff is the initial retry delay.
	BaseBackoff time.Duration

	// BackoffMultiplier scales BaseBackoff on each successive retry.
	BackoffMultiplier float64

	// MaxBackoff caps the computed retry delay.
	MaxBackoff time.Duration
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level      string // "debug", "info", "warn", "error", "fatal"
	Format     string // "json", "text"
	OutputPath string
}

// MetricsConfig contains metrics and monitoring configuration.
type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// DefaultConfig returns a configuration with default values: no registered
// entity types, exponential backoff matching queue.Scheduler's own
// built-in default, and JSON logging to stdout.
func DefaultConfig() *Config {
	return &Config{
		Entities: nil,
		Scheduler: SchedulerConfig{
			BaseBackoff:       100 * time.Millisecond,
			BackoffMultiplier: 2.0,
			MaxBackoff:        5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// NewConfig creates a new default configuration.
// This is an alias for DefaultConfig().
func NewConfig() *Config {
	return DefaultConfig()
}
