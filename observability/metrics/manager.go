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
	// MetricReadsTotal counts Core Manager reads by data source and result.
	MetricReadsTotal = "entitykit_manager_reads_total"
	// MetricReadDuration observes how long a read took to resolve.
	MetricReadDuration = "entitykit_manager_read_duration_seconds"
	// MetricMutationsTotal counts set/remove/removeAll operations.
	MetricMutationsTotal = "entitykit_manager_mutations_total"
	// MetricPersistenceMerges counts remote-read persistence merges into
	// the local store, by whether extra local data was retained.
	MetricPersistenceMerges = "entitykit_manager_persistence_merges_total"
	// MetricPersistenceErrors counts persistence-write failures that were
	// logged but did not fail the caller's read.
	MetricPersistenceErrors = "entitykit_manager_persistence_errors_total"
	// MetricActiveSubscriptions gauges how many continuous subscriptions
	// a manager currently holds open.
	MetricActiveSubscriptions = "entitykit_manager_active_subscriptions"
)

// ManagerMetrics records Core Manager read/mutation/persistence activity.
type ManagerMetrics struct {
	collector Collector
}

// NewManagerMetrics returns a ManagerMetrics reporting through collector.
func NewManagerMetrics(collector Collector) *ManagerMetrics {
	return &ManagerMetrics{collector: collector}
}

// RecordRead records a completed read, labeled by entity type, the
// DataSource kind that served it, and whether it returned successfully.
func (m *ManagerMetrics) RecordRead(entityType, dataSource string, duration float64, ok bool) {
	labels := NewLabels("entity_type", entityType, "data_source", dataSource, "result", resultLabel(ok))
	m.collector.IncrementCounter(MetricReadsTotal, labels)
	m.collector.ObserveHistogram(MetricReadDuration, duration, labels)
}

// RecordMutation records a set/remove/removeAll call.
func (m *ManagerMetrics) RecordMutation(entityType, op string, ok bool) {
	labels := NewLabels("entity_type", entityType, "op", op, "result", resultLabel(ok))
	m.collector.IncrementCounter(MetricMutationsTotal, labels)
}

// RecordPersistenceMerge records a remote-read persistence merge into the
// local store, labeled by whether extra local data was retained or
// discarded per the ReadContext's PersistenceStrategy.
func (m *ManagerMetrics) RecordPersistenceMerge(entityType string, retainedExtraLocalData bool) {
	labels := NewLabels("entity_type", entityType, "retained_extra_local_data", boolLabel(retainedExtraLocalData))
	m.collector.IncrementCounter(MetricPersistenceMerges, labels)
}

// RecordPersistenceError records a persistence write that failed and was
// logged without failing the caller's read (spec §7's propagation policy).
func (m *ManagerMetrics) RecordPersistenceError(entityType string) {
	m.collector.IncrementCounter(MetricPersistenceErrors, NewLabels("entity_type", entityType))
}

// SetActiveSubscriptions sets the current open-subscription count for an
// entity type's manager.
func (m *ManagerMetrics) SetActiveSubscriptions(entityType string, count float64) {
	m.collector.SetGauge(MetricActiveSubscriptions, count, NewLabels("entity_type", entityType))
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
