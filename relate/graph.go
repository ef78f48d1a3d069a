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
	"sync"

	"github.com/sage-x-project/entitykit/pkg/entity"
)

// Graph is a typed, heterogeneous, acyclic-by-construction assembly of a
// traversal's roots and every entity reached from them, keyed by
// (entityType, identifier). It is single-owner during construction
// (Controller.Traverse builds it behind a mutex) and value-typed for
// callers once handed out via All/Roots/Get.
type Graph struct {
	mu           sync.Mutex
	nodes        map[string]entity.AnyEntity
	roots        []entity.Identifier
	isDataRemote bool
}

func newGraph() *Graph {
	return &Graph{nodes: make(map[string]entity.AnyEntity)}
}

func nodeKey(t entity.EntityType, id entity.Identifier) string {
	return string(t) + "/" + id.Key()
}

// insert adds e to the graph, merging onto an existing node for the same
// identifier (last write wins on field collision, but Entity.MergeFrom's
// own invariant keeps a requested extra from being overwritten by an
// unrequested one). It reports whether this call inserted a previously
// unseen node.
func (g *Graph) insert(e entity.AnyEntity) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := nodeKey(e.Type, e.Entity.ID())
	existing, ok := g.nodes[key]
	if !ok {
		g.nodes[key] = e
		return true
	}

	merged := existing.Entity.Clone()
	merged.MergeFrom(e.Entity)
	g.nodes[key] = entity.AnyEntity{Type: e.Type, Entity: merged}
	return false
}

// Insert adds e with the same merge rule as the controller's own fetches,
// for a Fetcher that returns Custom. It reports whether e was a previously
// unseen node. Entities added this way are not traversed any further.
func (g *Graph) Insert(e entity.AnyEntity) bool { return g.insert(e) }

func (g *Graph) markRemote() {
	g.mu.Lock()
	g.isDataRemote = true
	g.mu.Unlock()
}

func (g *Graph) has(t entity.EntityType, id entity.Identifier) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.nodes[nodeKey(t, id)]
	return ok
}

func (g *Graph) setRoots(roots []entity.AnyEntity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roots = make([]entity.Identifier, len(roots))
	for i, r := range roots {
		g.roots[i] = r.Entity.ID()
	}
}

// Roots returns the root entities this graph was built from.
func (g *Graph) Roots() []entity.AnyEntity {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entity.AnyEntity, 0, len(g.roots))
	for _, id := range g.roots {
		for _, n := range g.nodes {
			if n.Entity.ID().Equal(id) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// All returns every entity in the graph, roots and fetched relationships
// alike, in no particular order.
func (g *Graph) All() []entity.AnyEntity {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]entity.AnyEntity, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Get looks up one entity by type and identifier.
func (g *Graph) Get(t entity.EntityType, id entity.Identifier) (entity.AnyEntity, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeKey(t, id)]
	return n, ok
}

// IsDataRemote reports whether at least one fetch in the traversal that
// produced this graph was served from a remote response source.
func (g *Graph) IsDataRemote() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isDataRemote
}

// Equal reports whether two graphs hold the same set of (type, identifier)
// nodes, the comparison the continuous relationship stream uses to decide
// whether a re-traversal produced a differing graph.
func (g *Graph) Equal(other *Graph) bool {
	g.mu.Lock()
	a := make(map[string]struct{}, len(g.nodes))
	for k := range g.nodes {
		a[k] = struct{}{}
	}
	g.mu.Unlock()

	other.mu.Lock()
	defer other.mu.Unlock()
	if len(a) != len(other.nodes) {
		return false
	}
	for k := range other.nodes {
		if _, ok := a[k]; !ok {
			return false
		}
	}
	return true
}
