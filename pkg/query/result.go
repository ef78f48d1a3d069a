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

package query

import "github.com/sage-x-project/entitykit/pkg/entity"

// Shape tags which of Result's three payload variants a QueryResult carries.
type Shape string

const (
	ShapeSingle   Shape = "single"
	ShapeSequence Shape = "sequence"
	ShapeGrouped  Shape = "grouped"
)

// Result is the materialized payload of a QueryResult: exactly one of
// Single, Sequence, or Grouped is meaningful, selected by Shape.
type Result struct {
	Shape    Shape
	Single   entity.AnyEntity
	Sequence []entity.AnyEntity
	Grouped  map[string][]entity.AnyEntity
}

// SingleResult wraps a single entity (or its absence).
func SingleResult(e entity.AnyEntity) Result {
	return Result{Shape: ShapeSingle, Single: e}
}

// SequenceResult wraps an ordered entity sequence.
func SequenceResult(seq []entity.AnyEntity) Result {
	return Result{Shape: ShapeSequence, Sequence: seq}
}

// GroupedResult wraps entities grouped by a query's GroupBy key.
func GroupedResult(groups map[string][]entity.AnyEntity) Result {
	return Result{Shape: ShapeGrouped, Grouped: groups}
}

// IsEmpty reports whether the result carries no entities at all.
func (r Result) IsEmpty() bool {
	switch r.Shape {
	case ShapeSingle:
		return r.Single.Entity == nil
	case ShapeSequence:
		return len(r.Sequence) == 0
	case ShapeGrouped:
		for _, g := range r.Grouped {
			if len(g) > 0 {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Flatten returns every entity the result carries, in Sequence/Single order
// for those shapes and in map-iteration order for Grouped. Flatten is used
// by the continuous-stream comparator (QueryResult.Equal) and by contract
// validation, neither of which cares about the shape distinction.
func (r Result) Flatten() []entity.AnyEntity {
	switch r.Shape {
	case ShapeSingle:
		if r.Single.Entity == nil {
			return nil
		}
		return []entity.AnyEntity{r.Single}
	case ShapeSequence:
		return r.Sequence
	case ShapeGrouped:
		var out []entity.AnyEntity
		for _, g := range r.Grouped {
			out = append(out, g...)
		}
		return out
	default:
		return nil
	}
}

// Metadata carries side information about how a QueryResult was produced,
// beyond the entities themselves.
type Metadata struct {
	// TotalCount is the total number of matches before pagination was
	// applied, when the originating Store reports it; zero if unknown.
	TotalCount int
}

// QueryResult is what a Store, Core Manager, or Relationship Controller
// returns for a single read: a Result payload, an IsDataRemote bit
// propagated from the originating response, and optional Metadata.
type QueryResult struct {
	Result       Result
	IsDataRemote bool
	Metadata     Metadata
}

// Empty returns a QueryResult with an empty Sequence shape and
// IsDataRemote false, the value a local-only miss resolves to.
func Empty() QueryResult {
	return QueryResult{Result: SequenceResult(nil)}
}

// Equal reports whether two QueryResults carry the same set of entities in
// the same order, ignoring Metadata and IsDataRemote. It backs the
// continuous-stream rule that a new value is only emitted when the
// evaluated result differs from the last one (spec §4.1).
func (r QueryResult) Equal(other QueryResult) bool {
	a, b := r.Result.Flatten(), other.Result.Flatten()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
		if !a[i].Entity.ID().Equal(b[i].Entity.ID()) {
			return false
		}
	}
	return true
}
