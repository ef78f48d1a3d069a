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
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
entities:
  - type: contact
    memory: true
    useredis: true
    redis:
      address: localhost:6379
logging:
  level: debug
  format: json
metrics:
  enabled: true
  port: 9091
  path: /metrics
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Entities) != 1 || cfg.Entities[0].Type != "contact" {
		t.Fatalf("unexpected entities: %+v", cfg.Entities)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Metrics.Port != 9091 {
		t.Errorf("Metrics.Port = %d, want 9091", cfg.Metrics.Port)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	json := `{"logging":{"level":"warn","format":"text"},"metrics":{"enabled":false}}`
	if err := os.WriteFile(path, []byte(json), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadFromFile_InvalidConfigFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
entities:
  - type: contact
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected validation error for entity with no store")
	}
}

func TestLoadEnv_OverridesLoggingLevel(t *testing.T) {
	t.Setenv("ENTITYKIT_LOGGING_LEVEL", "error")

	cfg := DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
}

func TestLoadEnv_OverridesMetricsPort(t *testing.T) {
	t.Setenv("ENTITYKIT_METRICS_PORT", "9999")

	cfg := DefaultConfig()
	if err := cfg.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if cfg.Metrics.Port != 9999 {
		t.Errorf("Metrics.Port = %d, want 9999", cfg.Metrics.Port)
	}
}
