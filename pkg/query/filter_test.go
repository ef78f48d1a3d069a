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

func TestFilter_Evaluate(t *testing.T) {
	fields := map[string]any{
		"name": "ada",
		"age":  36,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"equal match", Equal("name", "ada"), true},
		{"equal mismatch", Equal("name", "bob"), false},
		{"not equal", NotEqual("name", "bob"), true},
		{"less than true", LessThan("age", 40), true},
		{"less than false", LessThan("age", 10), false},
		{"less or equal boundary", LessOrEqual("age", 36), true},
		{"greater than true", GreaterThan("age", 10), true},
		{"greater or equal boundary", GreaterOrEqual("age", 36), true},
		{"contained in match", ContainedIn("name", "bob", "ada"), true},
		{"contained in mismatch", ContainedIn("name", "bob", "carol"), false},
		{"and both true", And(Equal("name", "ada"), LessThan("age", 40)), true},
		{"and one false", And(Equal("name", "ada"), LessThan("age", 1)), false},
		{"or one true", Or(Equal("name", "bob"), LessThan("age", 40)), true},
		{"or both false", Or(Equal("name", "bob"), LessThan("age", 1)), false},
		{"not true", Not(Equal("name", "bob")), true},
		{"zero filter matches everything", Filter{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Evaluate(fields); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	f, err := Matches("name", "^a.*a$").Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !f.Evaluate(map[string]any{"name": "ada"}) {
		t.Error("Evaluate() should match \"ada\" against ^a.*a$")
	}
	if f.Evaluate(map[string]any{"name": "bob"}) {
		t.Error("Evaluate() should not match \"bob\" against ^a.*a$")
	}
}

func TestFilter_Matches_UncompiledEvaluatesFalse(t *testing.T) {
	f := Matches("name", "^a")
	if f.Evaluate(map[string]any{"name": "ada"}) {
		t.Error("an uncompiled Matches filter must evaluate to false")
	}
}

func TestFilter_Compile_InvalidPattern(t *testing.T) {
	_, err := Matches("name", "(").Compile()
	if err == nil {
		t.Fatal("Compile() error = nil, want error for invalid regexp")
	}
}

func TestFilter_Compile_NestedAnd(t *testing.T) {
	f := And(Matches("name", "^a"), Equal("age", 36))
	compiled, err := f.Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !compiled.Evaluate(map[string]any{"name": "ada", "age": 36}) {
		t.Error("compiled nested And should evaluate true")
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("zero Filter should report IsZero() = true")
	}
	if Equal("name", "ada").IsZero() {
		t.Error("non-zero Filter should report IsZero() = false")
	}
}
