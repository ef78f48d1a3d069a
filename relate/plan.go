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

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/readctx"
)

// Recursive controls how many relationship levels a Plan follows past the
// roots.
type Recursive struct {
	kind  recursiveKind
	depth int
}

type recursiveKind int

const (
	recursiveNone recursiveKind = iota
	recursiveFull
	recursiveDepth
)

// RecursiveNone follows no relationship fields past the roots.
func RecursiveNone() Recursive { return Recursive{kind: recursiveNone} }

// RecursiveFull follows relationship fields to exhaustion (bounded only by
// cycle avoidance).
func RecursiveFull() Recursive { return Recursive{kind: recursiveFull} }

// RecursiveDepth follows relationship fields up to n levels past the roots.
func RecursiveDepth(n int) Recursive { return Recursive{kind: recursiveDepth, depth: n} }

// permits reports whether a traversal may proceed from level (0-based,
// roots are level 0) to level+1.
func (r Recursive) permits(level int) bool {
	switch r.kind {
	case recursiveFull:
		return true
	case recursiveDepth:
		return level < r.depth
	default:
		return false
	}
}

// FetchKind tags which variant a Fetcher returned, per spec.md §4.2.
type FetchKind int

const (
	// FetchNone skips this relationship group entirely.
	FetchNone FetchKind = iota
	// FetchFiltered replaces the id set and continues with the default
	// fetch (registry lookup by target entity type).
	FetchFiltered
	// FetchCustom means the fetcher has already inserted its results into
	// the Graph directly; the controller only awaits completion.
	FetchCustom
)

// FetchResult is the tagged result a Fetcher callback returns.
type FetchResult struct {
	Kind      FetchKind
	IDs       []entity.Identifier // meaningful for FetchFiltered
	Recursive Recursive           // set by Filtered; the controller does not read it
	Context   *readctx.ReadContext
}

// None skips the relationship group.
func None() FetchResult { return FetchResult{Kind: FetchNone} }

// Filtered replaces the id set for a relationship group and continues with
// the default get-by-ids fetch, optionally overriding the sub-context to
// use. recursive is stored in the result but not applied: recursion below
// the group follows the Plan.
func Filtered(ids []entity.Identifier, recursive Recursive, ctx *readctx.ReadContext) FetchResult {
	return FetchResult{Kind: FetchFiltered, IDs: ids, Recursive: recursive, Context: ctx}
}

// Custom reports that the Fetcher has already inserted this group's
// entities into the Graph it was handed (via Graph.Insert); the controller
// issues no fetch of its own for this group.
func Custom() FetchResult { return FetchResult{Kind: FetchCustom} }

// Fetcher is a user callback invoked instead of the default
// coreManager.get(byIds:) for one relationship group at one path.
type Fetcher func(ctx context.Context, g *Graph, path Path, ids []entity.Identifier, rc *readctx.ReadContext) (FetchResult, error)

// Plan composes a traversal: which relationship fields to follow, how deep,
// and which paths get a custom Fetcher.
type Plan struct {
	defaultRecursive Recursive
	included         map[string]bool
	excluded         map[string]bool
	fetchers         map[string]Fetcher
}

// NewPlan returns a Plan that follows no relationships by default; call
// IncludingAllRelationships or Including to opt fields in.
func NewPlan() Plan {
	return Plan{
		defaultRecursive: RecursiveNone(),
		included:         make(map[string]bool),
		excluded:         make(map[string]bool),
		fetchers:         make(map[string]Fetcher),
	}
}

// IncludingAllRelationships sets the default recursion applied to every
// relationship field not explicitly excluded.
func (p Plan) IncludingAllRelationships(recursive Recursive) Plan {
	p.defaultRecursive = recursive
	return p
}

// Including marks path as followed regardless of the default recursion.
func (p Plan) Including(path Path) Plan {
	p = p.clone()
	p.included[path.key()] = true
	delete(p.excluded, path.key())
	return p
}

// Excluding marks path as never followed, overriding IncludingAllRelationships.
func (p Plan) Excluding(path Path) Plan {
	p = p.clone()
	p.excluded[path.key()] = true
	delete(p.included, path.key())
	return p
}

// With registers fn as the Fetcher for path, replacing the controller's
// default coreManager.get(byIds:) call for that relationship group.
func (p Plan) With(path Path, fn Fetcher) Plan {
	p = p.clone()
	p.fetchers[path.key()] = fn
	return p
}

func (p Plan) clone() Plan {
	clone := Plan{defaultRecursive: p.defaultRecursive,
		included: make(map[string]bool, len(p.included)),
		excluded: make(map[string]bool, len(p.excluded)),
		fetchers: make(map[string]Fetcher, len(p.fetchers)),
	}
	for k, v := range p.included {
		clone.included[k] = v
	}
	for k, v := range p.excluded {
		clone.excluded[k] = v
	}
	for k, v := range p.fetchers {
		clone.fetchers[k] = v
	}
	return clone
}

func (p Plan) isExcluded(path Path) bool {
	return p.excluded[path.key()]
}

func (p Plan) fetcherFor(path Path) (Fetcher, bool) {
	fn, ok := p.fetchers[path.key()]
	return fn, ok
}

// recursiveFor resolves the Recursive a given path should use: explicit
// Including always follows one more level past its own path, otherwise the
// plan's default applies.
func (p Plan) recursiveFor(path Path) Recursive {
	if p.included[path.key()] {
		return RecursiveFull()
	}
	return p.defaultRecursive
}
