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

import (
	"testing"

	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
)

func wrapContact(name string) entity.AnyEntity {
	return entity.Wrap(testentity.NewContact(name))
}

func TestResult_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Result
		want bool
	}{
		{"empty single", SingleResult(entity.AnyEntity{}), true},
		{"non-empty single", SingleResult(wrapContact("ada")), false},
		{"empty sequence", SequenceResult(nil), true},
		{"non-empty sequence", SequenceResult([]entity.AnyEntity{wrapContact("ada")}), false},
		{"empty grouped", GroupedResult(map[string][]entity.AnyEntity{"a": nil}), true},
		{"non-empty grouped", GroupedResult(map[string][]entity.AnyEntity{"a": {wrapContact("ada")}}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_Flatten(t *testing.T) {
	a, b := wrapContact("ada"), wrapContact("bob")
	seq := SequenceResult([]entity.AnyEntity{a, b})

	flat := seq.Flatten()
	if len(flat) != 2 {
		t.Fatalf("Flatten() len = %d, want 2", len(flat))
	}
}

func TestQueryResult_Equal(t *testing.T) {
	a := wrapContact("ada")
	b := wrapContact("bob")

	same := QueryResult{Result: SequenceResult([]entity.AnyEntity{a})}
	sameAgain := QueryResult{Result: SequenceResult([]entity.AnyEntity{a}), IsDataRemote: true}
	different := QueryResult{Result: SequenceResult([]entity.AnyEntity{b})}
	shorter := QueryResult{Result: SequenceResult(nil)}

	if !same.Equal(sameAgain) {
		t.Error("Equal() should ignore IsDataRemote")
	}
	if same.Equal(different) {
		t.Error("Equal() should be false for different entities")
	}
	if same.Equal(shorter) {
		t.Error("Equal() should be false for different lengths")
	}
}

func TestEmpty(t *testing.T) {
	e := Empty()
	if !e.Result.IsEmpty() {
		t.Error("Empty() should produce an empty Result")
	}
	if e.IsDataRemote {
		t.Error("Empty() should not be data-remote")
	}
}
