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

package store

import (
	"sort"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// Evaluate runs q's Filter, Sort, GroupBy, and Pagination clauses against
// items, in that order, using fields to flatten each item for predicate and
// sort-field comparisons. Evaluate is the in-memory filter/order engine
// MemoryStore uses; store/postgres and store/rediskv also load every row
// of a type and run Evaluate over them, rather than filtering or sorting
// in the backend.
func Evaluate(q query.Query, items []entity.AnyEntity, fields query.FieldExtractor) query.Result {
	matched := filterItems(q, items, fields)
	sortItems(q.Sort, matched, fields)

	if q.GroupBy != "" {
		return query.GroupedResult(groupItems(q, matched, fields))
	}

	start, end := q.Pagination.Bounds(len(matched))
	return query.SequenceResult(matched[start:end])
}

func filterItems(q query.Query, items []entity.AnyEntity, fields query.FieldExtractor) []entity.AnyEntity {
	if q.IsByIDs() {
		byID := make(map[string]entity.AnyEntity, len(items))
		for _, it := range items {
			if it.Entity != nil {
				byID[it.Entity.ID().Key()] = it
			}
		}
		out := make([]entity.AnyEntity, 0, len(q.IDs))
		for _, id := range q.IDs {
			if it, ok := byID[id.Key()]; ok {
				out = append(out, it)
			}
		}
		return out
	}

	if q.Filter.IsZero() {
		out := make([]entity.AnyEntity, len(items))
		copy(out, items)
		return out
	}

	out := make([]entity.AnyEntity, 0, len(items))
	for _, it := range items {
		if it.Entity == nil {
			continue
		}
		if q.Filter.Evaluate(fields(it.Entity)) {
			out = append(out, it)
		}
	}
	return out
}

func sortItems(keys []query.SortKey, items []entity.AnyEntity, fields query.FieldExtractor) {
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			less, equal := lessByKey(key, items[i], items[j], fields)
			if !equal {
				return less
			}
		}
		return false
	})
}

// lessByKey reports whether a sorts before b under key, and whether a and b
// compare equal under it (in which case the caller moves on to the next
// sort key).
func lessByKey(key query.SortKey, a, b entity.AnyEntity, fields query.FieldExtractor) (less, equal bool) {
	var cmp int
	var ok bool

	if key.Field.ByIdentifier {
		ka, kb := "", ""
		if a.Entity != nil {
			ka = a.Entity.ID().Key()
		}
		if b.Entity != nil {
			kb = b.Entity.ID().Key()
		}
		switch {
		case ka < kb:
			cmp, ok = -1, true
		case ka > kb:
			cmp, ok = 1, true
		default:
			cmp, ok = 0, true
		}
	} else {
		var fa, fb map[string]any
		if a.Entity != nil {
			fa = fields(a.Entity)
		}
		if b.Entity != nil {
			fb = fields(b.Entity)
		}
		cmp, ok = query.Compare(fa[key.Field.Field], fb[key.Field.Field])
	}

	if !ok || cmp == 0 {
		return false, true
	}
	if key.Direction == query.Descending {
		cmp = -cmp
	}
	return cmp < 0, false
}

func groupItems(q query.Query, items []entity.AnyEntity, fields query.FieldExtractor) map[string][]entity.AnyEntity {
	groups := make(map[string][]entity.AnyEntity)
	var order []string

	for _, it := range items {
		if it.Entity == nil {
			continue
		}
		key, _ := fields(it.Entity)[q.GroupBy].(string)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	for _, key := range order {
		start, end := q.Pagination.Bounds(len(groups[key]))
		groups[key] = groups[key][start:end]
	}

	return groups
}
