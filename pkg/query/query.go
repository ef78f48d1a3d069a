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

// Query is an immutable request for one or more entities of a single type.
// The zero Query matches every entity of the type it is issued against,
// with no ordering, no pagination, no grouping, and no extras required.
type Query struct {
	IDs        []entity.Identifier
	Filter     Filter
	Sort       []SortKey
	Pagination Pagination
	GroupBy    string
	Extras     entity.ExtraSet
}

// New returns an empty Query matching every entity.
func New() Query { return Query{} }

// WithFilter returns a copy of q with its Filter replaced.
func (q Query) WithFilter(f Filter) Query {
	q.Filter = f
	return q
}

// WithSort returns a copy of q with its sort keys replaced.
func (q Query) WithSort(keys ...SortKey) Query {
	q.Sort = keys
	return q
}

// WithPagination returns a copy of q with its Pagination replaced.
func (q Query) WithPagination(p Pagination) Query {
	q.Pagination = p
	return q
}

// WithGroupBy returns a copy of q grouping results by the named field.
func (q Query) WithGroupBy(field string) Query {
	q.GroupBy = field
	return q
}

// WithExtras returns a copy of q requiring the given extras to be present.
func (q Query) WithExtras(extras entity.ExtraSet) Query {
	q.Extras = extras
	return q
}

// ByIDs returns a Query matching exactly the given identifiers, useful for
// the relationship controller's batched get-by-ids fetches.
func ByIDs(ids ...entity.Identifier) Query {
	return Query{IDs: ids}
}

// IsByIDs reports whether q was constructed to target a fixed identifier
// set rather than a filter.
func (q Query) IsByIDs() bool { return len(q.IDs) > 0 }

// Compile pre-compiles q.Filter's regular expressions; see Filter.Compile.
func (q Query) Compile() (Query, error) {
	if q.Filter.IsZero() {
		return q, nil
	}
	f, err := q.Filter.Compile()
	if err != nil {
		return q, err
	}
	q.Filter = f
	return q, nil
}
