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

import "testing"

func TestPagination_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		p         Pagination
		n         int
		wantStart int
		wantEnd   int
	}{
		{"zero pagination", Pagination{}, 10, 0, 10},
		{"offset only", Pagination{Offset: 3}, 10, 3, 10},
		{"offset and limit", Pagination{Offset: 3, Limit: 2}, 10, 3, 5},
		{"offset past end", Pagination{Offset: 20}, 10, 10, 10},
		{"limit past end", Pagination{Offset: 8, Limit: 5}, 10, 8, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.p.Bounds(tt.n)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Bounds(%d) = (%d, %d), want (%d, %d)", tt.n, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSortKey_Constructors(t *testing.T) {
	byField := ByField("name", Descending)
	if byField.Field.ByIdentifier {
		t.Error("ByField should not set ByIdentifier")
	}
	if byField.Field.Field != "name" || byField.Direction != Descending {
		t.Errorf("ByField = %+v, want field name desc", byField)
	}

	byID := ByIdentifier(Ascending)
	if !byID.Field.ByIdentifier {
		t.Error("ByIdentifier should set ByIdentifier = true")
	}
}
