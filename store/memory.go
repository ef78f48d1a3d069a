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

package store

import (
	"context"
	"sync"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// MemoryStore is a thread-safe, in-memory Store[E] keyed by
// entity.Identifier.Key(). It is both the reference LevelMemory store and
// the engine every higher-level Store's extras pass can fall back on.
type MemoryStore[E entity.Entity] struct {
	fields query.FieldExtractor

	mu   sync.RWMutex
	data map[string]E
}

// NewMemoryStore builds an empty MemoryStore. fields flattens an entity for
// Filter/SortKey evaluation; see query.FieldExtractor.
func NewMemoryStore[E entity.Entity](fields query.FieldExtractor) *MemoryStore[E] {
	return &MemoryStore[E]{
		fields: fields,
		data:   make(map[string]E),
	}
}

func (m *MemoryStore[E]) Level() Level { return LevelMemory }

func (m *MemoryStore[E]) Get(_ context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(ids) == 1 {
		e, ok := m.data[ids[0].Key()]
		if !ok {
			return query.Empty(), nil
		}
		return query.QueryResult{Result: query.SingleResult(entity.Wrap(e))}, nil
	}

	result := Evaluate(query.ByIDs(ids...), m.snapshot(), m.fields)
	return query.QueryResult{Result: result}, nil
}

func (m *MemoryStore[E]) Search(_ context.Context, q query.Query) (query.QueryResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return query.QueryResult{Result: Evaluate(q, m.snapshot(), m.fields)}, nil
}

func (m *MemoryStore[E]) Set(_ context.Context, e E) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[e.ID().Key()] = e
	return nil
}

func (m *MemoryStore[E]) Remove(_ context.Context, id entity.Identifier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, id.Key())
	return nil
}

func (m *MemoryStore[E]) RemoveAll(_ context.Context, q query.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := Evaluate(q, m.snapshot(), m.fields).Flatten()
	for _, it := range matched {
		if it.Entity != nil {
			delete(m.data, it.Entity.ID().Key())
		}
	}
	return nil
}

// snapshot copies the current entities into an AnyEntity slice for the
// filter/order engine. Callers must hold m.mu.
func (m *MemoryStore[E]) snapshot() []entity.AnyEntity {
	out := make([]entity.AnyEntity, 0, len(m.data))
	for _, e := range m.data {
		out = append(out, entity.Wrap(e))
	}
	return out
}
