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

// Package corekit implements the Core Manager (spec.md §4.1): the public
// per-entity-type read/write API that resolves a readctx.DataSource across
// a stack.Stack, applies extras filtering and persistence merge, and fans
// out one-shot and continuous result streams.
package corekit

import (
	"context"
	"sync"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
	"github.com/sage-x-project/entitykit/stack"
)

// ExtrasPredicate reports whether every extra in extras is requested
// (not Unrequested) on e. Each entity type supplies its own, since extras
// are a typed bitset per type (spec.md's "avoid stringly-typed extras").
type ExtrasPredicate func(e entity.Entity, extras entity.ExtraSet) bool

// Logger is the narrow logging capability a Manager needs: reporting
// persistence failures that must not fail the caller's read (spec.md §7).
// observability/logging.ErrorLogger satisfies this.
type Logger interface {
	Error(msg string, fields ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// Manager is the Core Manager for one entity type.
type Manager[E entity.Entity] struct {
	entType   entity.EntityType
	stack     *stack.Stack[E]
	fields    query.FieldExtractor
	hasExtras ExtrasPredicate
	logger    Logger
	metrics   Metrics

	mu        sync.Mutex
	nextSubID uint64
	subs      map[uint64]*subscription
}

// Option configures optional Manager behavior beyond its required
// constructor arguments.
type Option[E entity.Entity] func(*Manager[E])

// WithLogger overrides the Manager's Logger, used to report errors that
// must not fail the caller (e.g. a failed persistence merge).
func WithLogger[E entity.Entity](l Logger) Option[E] {
	return func(m *Manager[E]) { m.logger = l }
}

// WithMetrics overrides the Manager's Metrics, used to report reads,
// mutations, and persistence merges.
func WithMetrics[E entity.Entity](mt Metrics) Option[E] {
	return func(m *Manager[E]) { m.metrics = mt }
}

// subscription is one active search held open for the continuous stream.
type subscription struct {
	query   query.Query
	last    query.QueryResult
	hasLast bool
	ch      chan query.QueryResult
}

// NewManager builds a Manager for entType, reading and writing through st.
// fields flattens an entity for Filter/SortKey evaluation (query.FieldExtractor);
// hasExtras reports whether a set of typed extras are all requested on a
// given entity.
func NewManager[E entity.Entity](entType entity.EntityType, st *stack.Stack[E], fields query.FieldExtractor, hasExtras ExtrasPredicate, opts ...Option[E]) *Manager[E] {
	m := &Manager[E]{
		entType:   entType,
		stack:     st,
		fields:    fields,
		hasExtras: hasExtras,
		logger:    noopLogger{},
		metrics:   noopMetrics{},
		subs:      make(map[uint64]*subscription),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EntityType returns the entity type this Manager serves.
func (m *Manager[E]) EntityType() entity.EntityType { return m.entType }

func (m *Manager[E]) recordSource(rc *readctx.ReadContext, remote bool) {
	if rc == nil {
		return
	}
	rc.RecordSource(string(m.entType), readctx.Source{Remote: remote})
}
