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
	"errors"
	"testing"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
	"github.com/sage-x-project/entitykit/stack"
	"github.com/sage-x-project/entitykit/store"
)

// remoteMemoryStore adapts a MemoryStore to LevelRemote and lets tests
// inject a one-shot Get error, simulating a remote fetch failure.
type remoteMemoryStore struct {
	*store.MemoryStore[*testentity.Contact]
	getErr error
}

func newRemoteStore() *remoteMemoryStore {
	return &remoteMemoryStore{MemoryStore: newContactMemoryStore()}
}

func (r *remoteMemoryStore) Level() store.Level { return store.LevelRemote }

func (r *remoteMemoryStore) Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error) {
	if r.getErr != nil {
		return query.QueryResult{}, r.getErr
	}
	return r.MemoryStore.Get(ctx, ids, extras)
}

func newTestManager(t *testing.T, mem *store.MemoryStore[*testentity.Contact], remote store.Store[*testentity.Contact]) *Manager[*testentity.Contact] {
	t.Helper()
	stores := []store.Store[*testentity.Contact]{mem}
	if remote != nil {
		stores = append(stores, remote)
	}
	st, err := stack.New[*testentity.Contact](stores...)
	if err != nil {
		t.Fatalf("stack.New() error = %v", err)
	}
	return NewManager[*testentity.Contact](testentity.EntityTypeContact, st, contactFields, contactHasExtras)
}

func drain(t *testing.T, ch <-chan query.QueryResult) []query.QueryResult {
	t.Helper()
	var out []query.QueryResult
	for v := range ch {
		out = append(out, v)
	}
	return out
}

func TestManager_Get_Local(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	ada := testentity.NewContact("ada")
	mem.Set(ctx, ada)

	m := newTestManager(t, mem, nil)
	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())

	once, continuous, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 || got[0].Result.IsEmpty() {
		t.Fatalf("once stream = %v, want one non-empty result", got)
	}
	select {
	case v, ok := <-continuous:
		if !ok {
			t.Fatal("continuous channel closed before any value")
		}
		if v.Result.IsEmpty() {
			t.Error("continuous seed value should not be empty")
		}
	default:
		t.Fatal("continuous channel should be pre-seeded with the resolved value")
	}
}

func TestManager_Get_Remote_Basic(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()

	ada := testentity.NewContact("ada")
	remote.Set(ctx, ada)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.Remote(false, false), readctx.Persist(readctx.RetainExtraLocalData))

	once, _, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 || !got[0].IsDataRemote {
		t.Fatalf("got = %v, want single IsDataRemote result", got)
	}

	// Persistence strategy requested Persist, so memory should now hold it.
	local, _ := mem.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras)
	if local.Result.IsEmpty() {
		t.Error("remote result should have been persisted into memory")
	}
}

func TestManager_Get_Remote_ErrorFallsBackWithOrLocal(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()
	remote.getErr = errors.New("remote unavailable")

	ada := testentity.NewContact("ada")
	mem.Set(ctx, ada)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.Remote(true, false), readctx.DoNotPersist())

	once, _, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v, want fallback to local", err)
	}
	got := drain(t, once)
	if len(got) != 1 || got[0].IsDataRemote {
		t.Fatalf("got = %v, want one local (non-remote) fallback result", got)
	}
}

func TestManager_Get_Remote_ErrorPropagatesWithoutOrLocal(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()
	remote.getErr = errors.New("remote unavailable")

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.Remote(false, false), readctx.DoNotPersist())

	_, _, err := m.Get(ctx, []entity.Identifier{entity.NewLocal()}, entity.NoExtras, rc)
	if err == nil {
		t.Fatal("Get() error = nil, want remote error to propagate")
	}
}

func TestManager_Get_LocalOr_CompleteStopsAtLocal(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()

	ada := testentity.NewContact("ada")
	mem.Set(ctx, ada)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.LocalOr(), readctx.Persist(readctx.RetainExtraLocalData))

	once, _, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 || got[0].IsDataRemote {
		t.Fatalf("got = %v, want a local-only result (complete, no remote consulted)", got)
	}
}

func TestManager_Get_LocalOr_IncompleteFallsThroughToRemote(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()

	ada := testentity.NewContact("ada")
	ada.Avatar = entity.Requested("avatar-bytes")
	remote.Set(ctx, ada)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.LocalOr(), readctx.Persist(readctx.RetainExtraLocalData))

	extras := testentity.ExtraSet(testentity.ExtraAvatar)
	once, _, err := m.Get(ctx, []entity.Identifier{ada.ID()}, extras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 || !got[0].IsDataRemote {
		t.Fatalf("got = %v, want remote to answer since local had nothing", got)
	}

	local, _ := mem.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras)
	if local.Result.IsEmpty() {
		t.Error("localOr should persist the remote result into memory")
	}
}

func TestManager_Get_LocalThen_EmitsTwiceWhenDifferent(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()

	id := entity.NewLocal()
	local := testentity.NewContact("ada-local")
	local.SetID(id)
	mem.Set(ctx, local)

	remoteVal := testentity.NewContact("ada-remote")
	remoteVal.SetID(id)
	remote.Set(ctx, remoteVal)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.LocalThen(), readctx.Persist(readctx.RetainExtraLocalData))

	once, _, err := m.Get(ctx, []entity.Identifier{id}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (local then differing remote)", len(got))
	}
	if got[0].IsDataRemote {
		t.Error("first event should be the local result")
	}
	if !got[1].IsDataRemote {
		t.Error("second event should be the remote result")
	}
}

func TestManager_Get_LocalThen_SingleEmissionWhenSame(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	remote := newRemoteStore()

	id := entity.NewLocal()
	ada := testentity.NewContact("ada")
	ada.SetID(id)
	mem.Set(ctx, ada)
	remote.Set(ctx, ada)

	m := newTestManager(t, mem, remote)
	rc := readctx.New(readctx.LocalThen(), readctx.DoNotPersist())

	once, _, err := m.Get(ctx, []entity.Identifier{id}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1 (remote matches local exactly)", len(got))
	}
}

func TestManager_Search_FilterQuery(t *testing.T) {
	ctx := context.Background()
	mem := newContactMemoryStore()
	mem.Set(ctx, testentity.NewContact("ada"))
	mem.Set(ctx, testentity.NewContact("babbage"))

	m := newTestManager(t, mem, nil)
	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())

	q := query.New().WithFilter(query.Equal("name", "ada"))
	once, _, err := m.Search(ctx, q, rc)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	got := drain(t, once)
	if len(got) != 1 || len(got[0].Result.Flatten()) != 1 {
		t.Fatalf("got = %v, want exactly one matching contact", got)
	}
}
