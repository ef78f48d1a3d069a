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

// Package store defines the Store contract a Stack (stack.Stack) composes:
// a single level of persistence for one entity type, plus the reference
// MemoryStore implementation and in-memory filter/order engine that other
// Store implementations reuse.
package store

import (
	"context"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// Level tags where in the read pipeline a Store sits. A Stack holds at most
// one Store per Level.
type Level string

const (
	LevelMemory Level = "memory"
	LevelDisk   Level = "disk"
	LevelRemote Level = "remote"
)

// Store is a single level of persistence for entities of type E. Get and
// Search return query.QueryResult so a caller can tell whether the result
// came back from this store's own remote origin (IsDataRemote); a Store at
// LevelMemory or LevelDisk always reports IsDataRemote = false.
type Store[E entity.Entity] interface {
	// Level reports which layer of a Stack this Store occupies.
	Level() Level

	// Get fetches the entities named by ids. Entities not found are simply
	// absent from the result; Get does not return errors.ErrNotFound for
	// partial misses, only for a total failure to query the level.
	Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error)

	// Search evaluates q against this store's entities.
	Search(ctx context.Context, q query.Query) (query.QueryResult, error)

	// Set writes e, creating or overwriting it by identifier.
	Set(ctx context.Context, e E) error

	// Remove deletes the entity named by id. Removing an absent entity is
	// not an error.
	Remove(ctx context.Context, id entity.Identifier) error

	// RemoveAll deletes every entity matching q's filter (q.IDs if set,
	// otherwise q.Filter; sort, pagination, and grouping are ignored).
	RemoveAll(ctx context.Context, q query.Query) error
}
