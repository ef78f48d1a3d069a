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

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/readctx"
)

var managerPath = Path{{EntityType: testentity.EntityTypeContact, Field: testentity.RelationshipManager}}

func TestRecursive_Permits(t *testing.T) {
	if RecursiveNone().permits(0) {
		t.Error("RecursiveNone should never permit a hop")
	}
	if !RecursiveFull().permits(5) {
		t.Error("RecursiveFull should permit any depth")
	}
	if RecursiveDepth(2).permits(2) {
		t.Error("RecursiveDepth(2) should not permit depth 2 (only depths < 2)")
	}
	if !RecursiveDepth(2).permits(1) {
		t.Error("RecursiveDepth(2) should permit depth 1")
	}
}

func TestPlan_ExcludingOverridesDefault(t *testing.T) {
	p := NewPlan().IncludingAllRelationships(RecursiveFull()).Excluding(managerPath)
	if !p.isExcluded(managerPath) {
		t.Error("Excluding() should mark the path excluded")
	}
}

func TestPlan_IncludingClearsExclusion(t *testing.T) {
	p := NewPlan().Excluding(managerPath).Including(managerPath)
	if p.isExcluded(managerPath) {
		t.Error("Including() should clear a prior Excluding() for the same path")
	}
}

func TestPlan_WithRegistersFetcher(t *testing.T) {
	p := NewPlan().With(managerPath, func(ctx context.Context, g *Graph, path Path, ids []entity.Identifier, rc *readctx.ReadContext) (FetchResult, error) {
		return None(), nil
	})
	fn, ok := p.fetcherFor(managerPath)
	if !ok || fn == nil {
		t.Fatal("fetcherFor() should return the registered fetcher")
	}
}
