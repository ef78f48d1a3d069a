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
	"testing"
	"time"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/readctx"
)

func TestController_Stream_OnceCompletesWithFirstGraph(t *testing.T) {
	ada := testentity.NewContact("ada")
	c := NewController()

	rootsOnce := make(chan query.QueryResult, 1)
	rootsOnce <- query.QueryResult{Result: query.SequenceResult([]entity.AnyEntity{entity.Wrap(ada)})}
	close(rootsOnce)
	rootsContinuous := make(chan query.QueryResult)
	close(rootsContinuous)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	once, _, err := c.Stream(context.Background(), rootsOnce, rootsContinuous, rc, NewPlan())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	select {
	case g, ok := <-once:
		if !ok {
			t.Fatal("once channel closed with no value")
		}
		if len(g.All()) != 1 {
			t.Errorf("graph size = %d, want 1", len(g.All()))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for once value")
	}

	if _, ok := <-once; ok {
		t.Error("once channel should be closed after its single value")
	}
}

func TestController_Stream_ContinuousReEmitsOnChange(t *testing.T) {
	ada := testentity.NewContact("ada")
	babbage := testentity.NewContact("babbage")
	c := NewController()

	rootsOnce := make(chan query.QueryResult, 1)
	rootsOnce <- query.QueryResult{Result: query.SequenceResult([]entity.AnyEntity{entity.Wrap(ada)})}
	close(rootsOnce)

	rootsContinuous := make(chan query.QueryResult, 1)

	rc := readctx.New(readctx.Local(), readctx.DoNotPersist())
	_, continuous, err := c.Stream(context.Background(), rootsOnce, rootsContinuous, rc, NewPlan())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	// Drain the seed value.
	select {
	case <-continuous:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for seed value")
	}

	rootsContinuous <- query.QueryResult{Result: query.SequenceResult([]entity.AnyEntity{entity.Wrap(ada), entity.Wrap(babbage)})}

	select {
	case g := <-continuous:
		if len(g.All()) != 2 {
			t.Errorf("graph size = %d, want 2 after roots change", len(g.All()))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for re-emission")
	}

	close(rootsContinuous)
}
