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

package relate

import (
	"context"
	"sync"
	"testing"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
)

// fakeGetter simulates a corekit.Manager[E]'s Get method for one entity
// type, backed by a plain map, and counts how many times it was invoked.
type fakeGetter struct {
	mu    sync.Mutex
	calls int
	data  map[string]entity.Entity
}

func newFakeGetter(entities ...entity.Entity) *fakeGetter {
	data := make(map[string]entity.Entity, len(entities))
	for _, e := range entities {
		data[e.ID().Key()] = e
	}
	return &fakeGetter{data: data}
}

func (f *fakeGetter) Get(_ context.Context, ids []entity.Identifier, _ entity.ExtraSet, rc *readctx.ReadContext) (<-chan query.QueryResult, <-chan query.QueryResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	rc.RecordSource("contact", readctx.Source{Remote: true})

	var seq []entity.AnyEntity
	for _, id := range ids {
		if e, ok := f.data[id.Key()]; ok {
			seq = append(seq, entity.Wrap(e))
		}
	}

	once := make(chan query.QueryResult, 1)
	once <- query.QueryResult{Result: query.SequenceResult(seq), IsDataRemote: true}
	close(once)

	continuous := make(chan query.QueryResult)
	close(continuous)

	return once, continuous, nil
}

func (f *fakeGetter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestController_Traverse_CycleTerminates(t *testing.T) {
	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	aID, bID := a.ID(), b.ID()
	a.ManagerID = &bID
	b.ManagerID = &aID

	getter := newFakeGetter(a, b)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	plan := NewPlan().IncludingAllRelationships(RecursiveFull())

	g, err := c.Traverse(context.Background(), []entity.AnyEntity{entity.Wrap(a)}, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}

	if getter.callCount() != 2 {
		t.Errorf("calls = %d, want 2 (A's refs={B}, B's refs={A})", getter.callCount())
	}
	if _, ok := g.Get(testentity.EntityTypeContact, aID); !ok {
		t.Error("graph missing A")
	}
	if _, ok := g.Get(testentity.EntityTypeContact, bID); !ok {
		t.Error("graph missing B")
	}
}

func TestController_Traverse_RecursiveNoneStaysAtRoot(t *testing.T) {
	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	bID := b.ID()
	a.ManagerID = &bID

	getter := newFakeGetter(a, b)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	plan := NewPlan() // defaults to RecursiveNone

	g, err := c.Traverse(context.Background(), []entity.AnyEntity{entity.Wrap(a)}, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	if getter.callCount() != 0 {
		t.Errorf("calls = %d, want 0 when no relationships are included", getter.callCount())
	}
	if len(g.All()) != 1 {
		t.Errorf("graph size = %d, want 1 (root only)", len(g.All()))
	}
}

func TestController_Traverse_BatchesAcrossSources(t *testing.T) {
	shared := testentity.NewContact("shared-manager")
	sharedID := shared.ID()

	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	a.ManagerID = &sharedID
	b.ManagerID = &sharedID

	getter := newFakeGetter(shared)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	plan := NewPlan().IncludingAllRelationships(RecursiveFull())

	roots := []entity.AnyEntity{entity.Wrap(a), entity.Wrap(b)}
	g, err := c.Traverse(context.Background(), roots, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	if getter.callCount() != 1 {
		t.Errorf("calls = %d, want 1 (shared manager id coalesced into one batch)", getter.callCount())
	}
	if _, ok := g.Get(testentity.EntityTypeContact, sharedID); !ok {
		t.Error("graph missing the shared manager")
	}
}

func TestController_Traverse_ExcludingSkipsPath(t *testing.T) {
	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	bID := b.ID()
	a.ManagerID = &bID

	getter := newFakeGetter(a, b)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	path := Path{{EntityType: testentity.EntityTypeContact, Field: testentity.RelationshipManager}}
	plan := NewPlan().IncludingAllRelationships(RecursiveFull()).Excluding(path)

	g, err := c.Traverse(context.Background(), []entity.AnyEntity{entity.Wrap(a)}, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	if getter.callCount() != 0 {
		t.Errorf("calls = %d, want 0 when the path is excluded", getter.callCount())
	}
	if len(g.All()) != 1 {
		t.Errorf("graph size = %d, want 1 (root only)", len(g.All()))
	}
}

func TestController_Traverse_FetcherNone(t *testing.T) {
	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	bID := b.ID()
	a.ManagerID = &bID

	getter := newFakeGetter(a, b)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	path := Path{{EntityType: testentity.EntityTypeContact, Field: testentity.RelationshipManager}}
	plan := NewPlan().IncludingAllRelationships(RecursiveFull()).With(path, func(ctx context.Context, g *Graph, path Path, ids []entity.Identifier, rc *readctx.ReadContext) (FetchResult, error) {
		return None(), nil
	})

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	g, err := c.Traverse(context.Background(), []entity.AnyEntity{entity.Wrap(a)}, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	if getter.callCount() != 0 {
		t.Errorf("calls = %d, want 0 when the fetcher returns None", getter.callCount())
	}
	if len(g.All()) != 1 {
		t.Errorf("graph size = %d, want 1 (root only, manager skipped)", len(g.All()))
	}
}

func TestController_Traverse_TagsIsDataRemote(t *testing.T) {
	a := testentity.NewContact("a")
	b := testentity.NewContact("b")
	bID := b.ID()
	a.ManagerID = &bID

	getter := newFakeGetter(a, b)
	c := NewController()
	c.Register(testentity.EntityTypeContact, getter)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	plan := NewPlan().IncludingAllRelationships(RecursiveFull())

	g, err := c.Traverse(context.Background(), []entity.AnyEntity{entity.Wrap(a)}, rc, plan)
	if err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	if !g.IsDataRemote() {
		t.Error("IsDataRemote() = false, want true since the fetch recorded a remote source")
	}
}
