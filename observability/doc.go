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

// Package observability provides monitoring, logging, and tracing
// capabilities for processes embedding entitykit.
//
// # Overview
//
// This package enables observability for a corekit.Manager, queue.Scheduler,
// and relate.Controller through:
//   - Metrics collection (Prometheus)
//   - Structured logging
//   - Distributed tracing (OpenTelemetry)
//   - Health checks
//
// # Metrics
//
// Collect and expose metrics for monitoring:
//
//	collector := metrics.NewPrometheusCollector()
//	managerMetrics := metrics.NewManagerMetrics(collector)
//
//	// Record read
//	managerMetrics.RecordRead("contact", "local", 0.002, true)
//
//	// Expose metrics
//	http.Handle("/metrics", collector.Handler())
//
// # Logging
//
// Structured logging with context propagation:
//
//	logger := logging.NewStructuredLogger(logging.LevelInfo)
//
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.Info(ctx, "entity persisted",
//	    logging.String("entity_type", "contact"),
//	    logging.Int("duration_ms", 42),
//	)
//
// # Tracing
//
// Distributed tracing with OpenTelemetry:
//
//	shutdown, err := tracing.InitTracing(tracing.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "resolve_relationships")
//	defer span.End()
//
// # Health Checks
//
// Liveness, readiness, and startup probes:
//
//	liveness := health.NewLivenessChecker()
//	readiness := health.NewReadinessChecker(startup)
//	readiness.AddCheck(remoteStoreChecker)
//
//	http.Handle("/health/live", health.Handler(liveness))
//	http.Handle("/health/ready", health.Handler(readiness))
//
// # Integration
//
// Manager wires all of the above together for a single process:
//
//	manager, err := observability.NewManager(&observability.ManagerConfig{
//	    SchedulerName: "contacts",
//	    Config:        &observability.Config{...},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Shutdown(context.Background())
//
//	mgr := corekit.NewManager[*Contact](entType, st, fields, hasExtras,
//	    corekit.WithMetrics[*Contact](manager.ManagerMetrics()))
//
//	http.ListenAndServe(":9090", manager.HTTPHandler())
package observability
