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

package metrics

const (
	// MetricSchedulerState gauges the scheduler's current state, one
	// gauge per (scheduler, state) pair set to 1 for the active state.
	MetricSchedulerState = "entitykit_scheduler_state"
	// MetricSchedulerTransitions counts state transitions by from/to pair.
	MetricSchedulerTransitions = "entitykit_scheduler_transitions_total"
	// MetricSchedulerRetries counts retry timers scheduled.
	MetricSchedulerRetries = "entitykit_scheduler_retries_total"
	// MetricProcessNextInvocations counts processNext invocations,
	// labeled by the ProcessResult observed.
	MetricProcessNextInvocations = "entitykit_scheduler_process_next_total"

	// MetricRelationshipBatchesInFlight gauges batched get-by-ids calls
	// currently in flight for a Relationship Controller traversal.
	MetricRelationshipBatchesInFlight = "entitykit_relationship_batches_in_flight"
	// MetricRelationshipFetches counts per-(path, entity type) batch
	// fetches issued during traversal.
	MetricRelationshipFetches = "entitykit_relationship_fetches_total"
)

// SchedulerMetrics records API Client Queue Scheduler state transitions
// and dispatch activity.
type SchedulerMetrics struct {
	collector Collector
	name      string
}

// NewSchedulerMetrics returns a SchedulerMetrics reporting through
// collector, labeling every metric with the scheduler's name.
func NewSchedulerMetrics(collector Collector, name string) *SchedulerMetrics {
	return &SchedulerMetrics{collector: collector, name: name}
}

// RecordTransition records a state transition and updates the state
// gauges so exactly one (scheduler, state) pair reads 1 at a time.
func (m *SchedulerMetrics) RecordTransition(from, to string) {
	m.collector.IncrementCounter(MetricSchedulerTransitions, NewLabels("scheduler", m.name, "from", from, "to", to))
	m.collector.SetGauge(MetricSchedulerState, 0, NewLabels("scheduler", m.name, "state", from))
	m.collector.SetGauge(MetricSchedulerState, 1, NewLabels("scheduler", m.name, "state", to))
}

// RecordRetryScheduled records a retry timer being scheduled after a
// requestDidFail.
func (m *SchedulerMetrics) RecordRetryScheduled(attempt int) {
	m.collector.IncrementCounter(MetricSchedulerRetries, NewLabels("scheduler", m.name))
	_ = attempt
}

// RecordProcessNext records one processNext invocation and its result.
func (m *SchedulerMetrics) RecordProcessNext(result string) {
	m.collector.IncrementCounter(MetricProcessNextInvocations, NewLabels("scheduler", m.name, "result", result))
}

// RelationshipMetrics records Relationship Controller traversal activity.
type RelationshipMetrics struct {
	collector Collector
}

// NewRelationshipMetrics returns a RelationshipMetrics reporting through
// collector.
func NewRelationshipMetrics(collector Collector) *RelationshipMetrics {
	return &RelationshipMetrics{collector: collector}
}

// BatchStarted sets the in-flight batch gauge for a (path, target entity
// type) fetch to 1 and increments the fetch count; callers should defer
// BatchFinished to reset the gauge.
func (m *RelationshipMetrics) BatchStarted(path, targetType string) {
	labels := NewLabels("path", path, "target_type", targetType)
	m.collector.IncrementCounter(MetricRelationshipFetches, labels)
	m.collector.SetGauge(MetricRelationshipBatchesInFlight, 1, labels)
}

// BatchFinished sets the in-flight batch gauge for a (path, target entity
// type) fetch back to 0.
func (m *RelationshipMetrics) BatchFinished(path, targetType string) {
	m.collector.SetGauge(MetricRelationshipBatchesInFlight, 0, NewLabels("path", path, "target_type", targetType))
}
