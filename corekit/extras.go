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
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// filterExtras drops any entity for which a selected extra is Unrequested.
// It is a pure function of the result and the extras set (spec.md §4.1).
func (m *Manager[E]) filterExtras(result query.Result, extras entity.ExtraSet) query.Result {
	if extras.IsEmpty() {
		return result
	}

	switch result.Shape {
	case query.ShapeSingle:
		if result.Single.Entity == nil || !m.hasExtras(result.Single.Entity, extras) {
			return query.SingleResult(entity.AnyEntity{})
		}
		return result
	case query.ShapeSequence:
		out := make([]entity.AnyEntity, 0, len(result.Sequence))
		for _, e := range result.Sequence {
			if e.Entity != nil && m.hasExtras(e.Entity, extras) {
				out = append(out, e)
			}
		}
		return query.SequenceResult(out)
	case query.ShapeGrouped:
		out := make(map[string][]entity.AnyEntity, len(result.Grouped))
		for key, group := range result.Grouped {
			var kept []entity.AnyEntity
			for _, e := range group {
				if e.Entity != nil && m.hasExtras(e.Entity, extras) {
					kept = append(kept, e)
				}
			}
			out[key] = kept
		}
		return query.GroupedResult(out)
	default:
		return result
	}
}

// droppedByFiltering reports whether filtered holds fewer entities than
// original, the "fails extras-filtering" condition of the DataSource
// matrix's remote(orLocal) rule.
func droppedByFiltering(original, filtered query.Result) bool {
	return len(filtered.Flatten()) < len(original.Flatten())
}

// isLocalComplete reports whether a local result satisfies q in full, per
// spec.md §4.1's Completeness definition: for a by-ids query, every
// requested id is present and every requested extra is Requested(_) on
// every returned entity. A free-form filter query is never considered
// complete here — localOr always consults remote for those, per spec.
func (m *Manager[E]) isLocalComplete(q query.Query, result query.Result) bool {
	if !q.IsByIDs() {
		return false
	}

	entities := result.Flatten()
	if len(entities) != len(q.IDs) {
		return false
	}

	if q.Extras.IsEmpty() {
		return true
	}
	for _, e := range entities {
		if e.Entity == nil || !m.hasExtras(e.Entity, q.Extras) {
			return false
		}
	}
	return true
}
