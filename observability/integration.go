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

package observability

import (
	"context"
	"net/http"

	"github.com/sage-x-project/entitykit/observability/health"
	"github.com/sage-x-project/entitykit/observability/logging"
	"github.com/sage-x-project/entitykit/observability/metrics"
)

// Manager wires together every observability component a process
// embedding entitykit needs: a Logger, a metrics Collector and its
// typed per-component reporters, and the liveness/readiness/startup
// checkers a deployment's orchestrator polls.
type Manager struct {
	logger              logging.Logger
	collector           metrics.Collector
	managerMetrics      *metrics.ManagerMetrics
	schedulerMetrics    *metrics.SchedulerMetrics
	relationshipMetrics *metrics.RelationshipMetrics
	livenessChecker     *health.LivenessChecker
	startupChecker      *health.StartupChecker
	readinessChecker    *health.ReadinessChecker
}

// ManagerConfig configures the observability manager.
type ManagerConfig struct {
	// SchedulerName labels SchedulerMetrics for this process's queue.Scheduler.
	SchedulerName string

	// Config is the observability configuration.
	Config *Config
}

// NewManager creates a new observability manager.
//
// Example:
//
//	manager, err := observability.NewManager(&observability.ManagerConfig{
//	    SchedulerName: "contacts",
//	    Config:        &observability.Config{...},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Shutdown(context.Background())
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewStructuredLogger(logging.Level(cfg.Config.Logging.Level))
	logger.SetSamplingRate(cfg.Config.Logging.SamplingRate)

	collector := metrics.NewPrometheusCollector()
	managerMetrics := metrics.NewManagerMetrics(collector)
	schedulerMetrics := metrics.NewSchedulerMetrics(collector, cfg.SchedulerName)
	relationshipMetrics := metrics.NewRelationshipMetrics(collector)

	livenessChecker := health.NewLivenessChecker()
	startupChecker := health.NewStartupChecker()
	readinessChecker := health.NewReadinessChecker(startupChecker)

	livenessChecker.MarkRunning()

	return &Manager{
		logger:              logger,
		collector:           collector,
		managerMetrics:      managerMetrics,
		schedulerMetrics:    schedulerMetrics,
		relationshipMetrics: relationshipMetrics,
		livenessChecker:     livenessChecker,
		startupChecker:      startupChecker,
		readinessChecker:    readinessChecker,
	}, nil
}

// Logger returns the logger.
func (m *Manager) Logger() logging.Logger {
	return m.logger
}

// Collector returns the metrics collector.
func (m *Manager) Collector() metrics.Collector {
	return m.collector
}

// ManagerMetrics returns the Core Manager metrics reporter, suitable for
// corekit.WithMetrics.
func (m *Manager) ManagerMetrics() *metrics.ManagerMetrics {
	return m.managerMetrics
}

// SchedulerMetrics returns the queue Scheduler metrics reporter, suitable
// for queue.WithMetrics.
func (m *Manager) SchedulerMetrics() *metrics.SchedulerMetrics {
	return m.schedulerMetrics
}

// RelationshipMetrics returns the Relationship Controller metrics
// reporter, suitable for relate.WithControllerMetrics.
func (m *Manager) RelationshipMetrics() *metrics.RelationshipMetrics {
	return m.relationshipMetrics
}

// LivenessChecker returns the liveness checker.
func (m *Manager) LivenessChecker() *health.LivenessChecker {
	return m.livenessChecker
}

// StartupChecker returns the startup checker.
func (m *Manager) StartupChecker() *health.StartupChecker {
	return m.startupChecker
}

// ReadinessChecker returns the readiness checker.
func (m *Manager) ReadinessChecker() *health.ReadinessChecker {
	return m.readinessChecker
}

// MarkReady marks the process as ready to serve reads/writes.
func (m *Manager) MarkReady() {
	m.startupChecker.MarkReady()
}

// AddReadinessCheck adds a health check to the readiness checker — for
// example, a Checker that pings a registered remote store.
func (m *Manager) AddReadinessCheck(checker health.Checker) {
	m.readinessChecker.AddCheck(checker)
}

// HTTPHandler returns an http.Handler for exposing observability
// endpoints to a process's own ops sidecar — entitykit itself has no
// inbound entity API to serve.
//
// It mounts the following endpoints:
//   - /metrics - Prometheus metrics
//   - /health/live - Liveness probe
//   - /health/ready - Readiness probe
//   - /health/startup - Startup probe
func (m *Manager) HTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", m.collector.Handler())

	mux.Handle("/health/live", health.Handler(m.livenessChecker))
	mux.Handle("/health/ready", health.Handler(m.readinessChecker))
	mux.Handle("/health/startup", health.Handler(m.startupChecker))

	return mux
}

// Shutdown gracefully shuts down the observability manager.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info(ctx, "shutting down observability manager")
	m.livenessChecker.MarkStopped()
	return nil
}
