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

package corekit

import (
	"context"
	"time"

	entitykiterrors "github.com/sage-x-project/entitykit/pkg/errors"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
	"github.com/sage-x-project/entitykit/store"
)

// Get fetches the entities named by ids, honoring rc's DataSource and
// extras selection. It returns a one-shot stream (closed after its first
// and only authoritative value, per DataSource) and a continuous stream
// (never closed on its own; see Search).
func (m *Manager[E]) Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet, rc *readctx.ReadContext) (<-chan query.QueryResult, <-chan query.QueryResult, error) {
	return m.Search(ctx, query.ByIDs(ids...).WithExtras(extras), rc)
}

// Search evaluates q, honoring rc's DataSource and extras selection, and
// returns the (once, continuous) stream pair described by spec.md §4.1:
// once completes after the first authoritative result (or, for
// localThen, after its possible second emission); continuous keeps
// delivering as the query is re-evaluated against later mutations.
func (m *Manager[E]) Search(ctx context.Context, q query.Query, rc *readctx.ReadContext) (<-chan query.QueryResult, <-chan query.QueryResult, error) {
	start := time.Now()
	q, err := q.Compile()
	if err != nil {
		m.metrics.RecordRead(string(m.entType), string(rc.DataSource.Kind), time.Since(start).Seconds(), false)
		return nil, nil, entitykiterrors.ErrInvalidQuery.WithMessage("compile query").Wrap(err)
	}

	events, err := m.resolve(ctx, q, rc)
	m.metrics.RecordRead(string(m.entType), string(rc.DataSource.Kind), time.Since(start).Seconds(), err == nil)
	if err != nil {
		return nil, nil, err
	}

	once := make(chan query.QueryResult, len(events))
	for _, e := range events {
		once <- e
	}
	close(once)

	continuous := m.subscribe(ctx, q)
	if last := lastOf(events); last != nil {
		continuous.ch <- *last
		m.mu.Lock()
		continuous.last = *last
		continuous.hasLast = true
		m.mu.Unlock()
	}

	return once, continuous.ch, nil
}

func lastOf(events []query.QueryResult) *query.QueryResult {
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

// resolve runs the DataSource matrix, returning the ordered sequence of
// QueryResult values a subscriber should see: one value for every
// DataSource except localThen, which may produce a second value when the
// remote result differs from the local one, and produces no local value
// when the local read fails.
func (m *Manager[E]) resolve(ctx context.Context, q query.Query, rc *readctx.ReadContext) ([]query.QueryResult, error) {
	switch rc.DataSource.Kind {
	case readctx.SourceLocal:
		return m.resolveLocal(ctx, q)
	case readctx.SourceRemote:
		return m.resolveRemote(ctx, q, rc)
	case readctx.SourceLocalOr:
		return m.resolveLocalOr(ctx, q, rc)
	case readctx.SourceLocalThen:
		return m.resolveLocalThen(ctx, q, rc)
	default:
		return nil, entitykiterrors.ErrInvalidQuery.WithMessage("unknown data source kind")
	}
}

func (m *Manager[E]) resolveLocal(ctx context.Context, q query.Query) ([]query.QueryResult, error) {
	res, err := m.fetchFrom(ctx, m.localStore(), q)
	if err != nil {
		return nil, err
	}
	filtered := m.filterExtras(res.Result, q.Extras)
	return []query.QueryResult{{Result: filtered}}, nil
}

func (m *Manager[E]) resolveRemote(ctx context.Context, q query.Query, rc *readctx.ReadContext) ([]query.QueryResult, error) {
	remote, ok := m.stack.Remote()
	if !ok {
		return nil, entitykiterrors.ErrStore.WithMessage("no remote store registered for " + string(m.entType))
	}

	res, err := m.fetchFrom(ctx, remote, q)
	if err != nil {
		if rc.DataSource.OrLocal {
			local, localErr := m.resolveLocal(ctx, q)
			if localErr != nil {
				return nil, localErr
			}
			return local, nil
		}
		return nil, err
	}

	m.recordSource(rc, true)
	m.persist(ctx, res, rc.PersistenceStrategy)

	filtered := m.filterExtras(res.Result, q.Extras)
	if rc.DataSource.TrustRemoteFiltering {
		return []query.QueryResult{{Result: res.Result, IsDataRemote: true}}, nil
	}

	if rc.DataSource.OrLocal && droppedByFiltering(res.Result, filtered) {
		local, localErr := m.resolveLocal(ctx, q)
		if localErr != nil {
			return nil, localErr
		}
		return local, nil
	}

	return []query.QueryResult{{Result: filtered, IsDataRemote: true}}, nil
}

func (m *Manager[E]) resolveLocalOr(ctx context.Context, q query.Query, rc *readctx.ReadContext) ([]query.QueryResult, error) {
	localRaw, err := m.fetchFrom(ctx, m.localStore(), q)
	if err != nil {
		return nil, err
	}
	filteredLocal := m.filterExtras(localRaw.Result, q.Extras)

	if m.isLocalComplete(q, filteredLocal) {
		return []query.QueryResult{{Result: filteredLocal}}, nil
	}

	remote, ok := m.stack.Remote()
	if !ok {
		return []query.QueryResult{{Result: filteredLocal}}, nil
	}

	remoteRes, err := m.fetchFrom(ctx, remote, q)
	if err != nil {
		return nil, err
	}
	m.recordSource(rc, true)
	m.persist(ctx, remoteRes, rc.PersistenceStrategy)

	filteredRemote := m.filterExtras(remoteRes.Result, q.Extras)
	return []query.QueryResult{{Result: filteredRemote, IsDataRemote: true}}, nil
}

func (m *Manager[E]) resolveLocalThen(ctx context.Context, q query.Query, rc *readctx.ReadContext) ([]query.QueryResult, error) {
	var first query.QueryResult
	var events []query.QueryResult

	localRaw, err := m.fetchFrom(ctx, m.localStore(), q)
	if err != nil {
		// Local errors suppress the first emission but do not fail the
		// stream.
		first = query.Empty()
	} else {
		first = query.QueryResult{Result: m.filterExtras(localRaw.Result, q.Extras)}
		events = append(events, first)
	}

	remote, ok := m.stack.Remote()
	if !ok {
		return events, nil
	}

	remoteRes, err := m.fetchFrom(ctx, remote, q)
	if err != nil {
		// A remote error fails the whole read: Search returns the error
		// and the local first value is not delivered.
		return nil, err
	}
	m.recordSource(rc, true)
	m.persist(ctx, remoteRes, rc.PersistenceStrategy)

	second := query.QueryResult{Result: m.filterExtras(remoteRes.Result, q.Extras), IsDataRemote: true}
	if len(events) == 0 || !second.Equal(first) {
		events = append(events, second)
	}
	return events, nil
}

func (m *Manager[E]) localStore() store.Store[E] {
	local, ok := m.stack.Local()
	if !ok {
		return nil
	}
	return local
}

// fetchFrom issues q against st as Get (by ids) or Search (by filter).
func (m *Manager[E]) fetchFrom(ctx context.Context, st store.Store[E], q query.Query) (query.QueryResult, error) {
	if st == nil {
		return query.Empty(), nil
	}
	if q.IsByIDs() {
		return st.Get(ctx, q.IDs, q.Extras)
	}
	return st.Search(ctx, q)
}

func (m *Manager[E]) persist(ctx context.Context, res query.QueryResult, strategy readctx.PersistenceStrategy) {
	if !strategy.Persist {
		return
	}
	for _, any := range res.Result.Flatten() {
		e, ok := any.Entity.(E)
		if !ok {
			continue
		}
		// Persistence errors are logged and do not fail the caller's
		// read, per spec.md §7's propagation policy.
		if err := m.stack.PersistRemote(ctx, e, strategy); err != nil {
			m.logger.Error("persist remote result", "entityType", m.entType, "error", err)
			m.metrics.RecordPersistenceError(string(m.entType))
			continue
		}
		m.metrics.RecordPersistenceMerge(string(m.entType), strategy.Policy == readctx.RetainExtraLocalData)
	}
}
