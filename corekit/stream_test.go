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
	"testing"
	"time"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/readctx"
)

func TestManager_Continuous_EmitsOnMutation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := newContactMemoryStore()
	m := newTestManager(t, mem, nil)

	ada := testentity.NewContact("ada")
	mem.Set(context.Background(), ada)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	_, continuous, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Drain the seed value.
	select {
	case <-continuous:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for seed value")
	}

	renamed := testentity.NewContact("ada-renamed")
	renamed.SetID(ada.ID())
	if err := m.Set(context.Background(), renamed); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	select {
	case v, ok := <-continuous:
		if !ok {
			t.Fatal("continuous channel closed unexpectedly")
		}
		got := v.Result.Single.Entity.(*testentity.Contact)
		if got.Name != "ada-renamed" {
			t.Errorf("Name = %v, want ada-renamed", got.Name)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mutation-triggered emission")
	}
}

func TestManager_Continuous_NoEmitWhenUnchanged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := newContactMemoryStore()
	m := newTestManager(t, mem, nil)

	ada := testentity.NewContact("ada")
	mem.Set(context.Background(), ada)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	_, continuous, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	select {
	case <-continuous:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for seed value")
	}

	other := testentity.NewContact("someone-else")
	if err := m.Set(context.Background(), other); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	select {
	case v := <-continuous:
		t.Fatalf("unexpected emission for unrelated mutation: %v", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestManager_Continuous_ClosesOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mem := newContactMemoryStore()
	m := newTestManager(t, mem, nil)
	ada := testentity.NewContact("ada")
	mem.Set(context.Background(), ada)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	_, continuous, err := m.Get(ctx, []entity.Identifier{ada.ID()}, entity.NoExtras, rc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	select {
	case <-continuous:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for seed value")
	}

	cancel()

	select {
	case _, ok := <-continuous:
		if ok {
			t.Fatal("continuous channel should be closed after context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close after cancel")
	}
}
