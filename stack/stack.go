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

// Package stack composes an entity type's stores into an ordered Stack: at
// most one store.Store per store.Level, with helpers a corekit.Manager uses
// to resolve the "local" tier and to persist a remote result back down
// according to a readctx.PersistenceStrategy. The DataSource routing logic
// itself lives in corekit, which is the only caller that knows when to
// consult which tier.
package stack

import (
	"context"
	"fmt"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/readctx"
	"github.com/sage-x-project/entitykit/store"
)

// Stack holds at most one store.Store[E] per store.Level.
type Stack[E entity.Entity] struct {
	byLevel map[store.Level]store.Store[E]
}

// New builds a Stack from stores, rejecting more than one store at the same
// Level.
func New[E entity.Entity](stores ...store.Store[E]) (*Stack[E], error) {
	s := &Stack[E]{byLevel: make(map[store.Level]store.Store[E], len(stores))}
	for _, st := range stores {
		if _, exists := s.byLevel[st.Level()]; exists {
			return nil, fmt.Errorf("stack: duplicate store for level %q", st.Level())
		}
		s.byLevel[st.Level()] = st
	}
	return s, nil
}

// Memory returns the LevelMemory store, if registered.
func (s *Stack[E]) Memory() (store.Store[E], bool) {
	st, ok := s.byLevel[store.LevelMemory]
	return st, ok
}

// Disk returns the LevelDisk store, if registered.
func (s *Stack[E]) Disk() (store.Store[E], bool) {
	st, ok := s.byLevel[store.LevelDisk]
	return st, ok
}

// Remote returns the LevelRemote store, if registered.
func (s *Stack[E]) Remote() (store.Store[E], bool) {
	st, ok := s.byLevel[store.LevelRemote]
	return st, ok
}

// Local returns the store the DataSource matrix's "local" tier resolves
// to: memory when present, otherwise disk.
func (s *Stack[E]) Local() (store.Store[E], bool) {
	if st, ok := s.Memory(); ok {
		return st, true
	}
	return s.Disk()
}

// HasRemote reports whether a LevelRemote store is registered.
func (s *Stack[E]) HasRemote() bool {
	_, ok := s.Remote()
	return ok
}

// PersistRemote writes a remote-origin entity back into the local tier
// according to strategy, implementing spec's persistence-merge rule:
// with RetainExtraLocalData, an existing local entity's requested extras
// survive an unrequested remote value (via Entity.MergeFrom); with
// DiscardExtraLocalData, the remote entity always wins outright.
// DoNotPersist (strategy.Persist == false) writes nothing and is not an
// error to call this with.
func (s *Stack[E]) PersistRemote(ctx context.Context, remote E, strategy readctx.PersistenceStrategy) error {
	if !strategy.Persist {
		return nil
	}

	local, ok := s.Local()
	if !ok {
		return nil
	}

	if strategy.Policy == readctx.DiscardExtraLocalData {
		return local.Set(ctx, remote)
	}

	existing, err := local.Get(ctx, []entity.Identifier{remote.ID()}, entity.NoExtras)
	if err != nil {
		return err
	}
	if existing.Result.IsEmpty() {
		return local.Set(ctx, remote)
	}

	merged, ok := existing.Result.Single.Entity.(E)
	if !ok {
		return local.Set(ctx, remote)
	}
	merged = merged.Clone().(E)
	merged.MergeFrom(remote)
	return local.Set(ctx, merged)
}
