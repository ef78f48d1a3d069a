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
	"fmt"
	"reflect"
	"regexp"
)

// Operator identifies a comparison or boolean combinator in a Filter tree.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLessThan     Operator = "<"
	OpLessOrEqual  Operator = "<="
	OpGreaterThan  Operator = ">"
	OpGreaterOrEq  Operator = ">="
	OpContainedIn  Operator = "containedIn"
	OpMatches      Operator = "matches"
	OpAnd          Operator = "and"
	OpOr           Operator = "or"
	OpNot          Operator = "not"
)

// Filter is a predicate tree evaluated against a field of an entity. Leaves
// compare Field against Value (or Values, for containedIn); matches compiles
// Value as a regular expression. And/Or/Not combine Operands.
//
// Filter is built through the package-level constructors (Equal, And, ...)
// rather than struct literals, so a caller can never assemble an operator
// with the wrong shape of operands.
type Filter struct {
	Operator Operator
	Field    string
	Value    any
	Values   []any
	Operands []Filter

	compiledRegexp *regexp.Regexp
}

// Equal builds a Filter requiring Field == value.
func Equal(field string, value any) Filter { return Filter{Operator: OpEqual, Field: field, Value: value} }

// NotEqual builds a Filter requiring Field != value.
func NotEqual(field string, value any) Filter {
	return Filter{Operator: OpNotEqual, Field: field, Value: value}
}

// LessThan builds a Filter requiring Field < value.
func LessThan(field string, value any) Filter {
	return Filter{Operator: OpLessThan, Field: field, Value: value}
}

// LessOrEqual builds a Filter requiring Field <= value.
func LessOrEqual(field string, value any) Filter {
	return Filter{Operator: OpLessOrEqual, Field: field, Value: value}
}

// GreaterThan builds a Filter requiring Field > value.
func GreaterThan(field string, value any) Filter {
	return Filter{Operator: OpGreaterThan, Field: field, Value: value}
}

// GreaterOrEqual builds a Filter requiring Field >= value.
func GreaterOrEqual(field string, value any) Filter {
	return Filter{Operator: OpGreaterOrEq, Field: field, Value: value}
}

// ContainedIn builds a Filter requiring Field to equal one of values.
func ContainedIn(field string, values ...any) Filter {
	return Filter{Operator: OpContainedIn, Field: field, Values: values}
}

// Matches builds a Filter requiring Field to match the regular expression
// pattern. The pattern is compiled lazily by Compile, not at construction
// time, so a Filter literal remains a plain value until it is evaluated.
func Matches(field, pattern string) Filter {
	return Filter{Operator: OpMatches, Field: field, Value: pattern}
}

// And combines operands with logical conjunction. An empty And is the
// always-true filter.
func And(operands ...Filter) Filter { return Filter{Operator: OpAnd, Operands: operands} }

// Or combines operands with logical disjunction. An empty Or is the
// always-false filter.
func Or(operands ...Filter) Filter { return Filter{Operator: OpOr, Operands: operands} }

// Not negates a single operand.
func Not(operand Filter) Filter { return Filter{Operator: OpNot, Operands: []Filter{operand}} }

// IsZero reports whether f carries no predicate at all, i.e. the Query it
// belongs to should match every entity.
func (f Filter) IsZero() bool {
	return f.Operator == "" && f.Field == "" && f.Value == nil && f.Values == nil && f.Operands == nil
}

// Compile walks f and pre-compiles every Matches node's regular expression,
// returning an error on the first invalid pattern. Store implementations
// that evaluate filters in a hot path should Compile once before looping.
func (f Filter) Compile() (Filter, error) {
	switch f.Operator {
	case OpMatches:
		pattern, ok := f.Value.(string)
		if !ok {
			return f, fmt.Errorf("query: matches operand for field %q is not a string", f.Field)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return f, fmt.Errorf("query: invalid regexp for field %q: %w", f.Field, err)
		}
		f.compiledRegexp = re
		return f, nil
	case OpAnd, OpOr, OpNot:
		compiled := make([]Filter, len(f.Operands))
		for i, op := range f.Operands {
			c, err := op.Compile()
			if err != nil {
				return f, err
			}
			compiled[i] = c
		}
		f.Operands = compiled
		return f, nil
	default:
		return f, nil
	}
}

// Evaluate reports whether fields, a flat map of field name to value as
// produced by a FieldExtractor, satisfies f. Evaluate assumes Compile has
// already been called if f contains a Matches node; an uncompiled Matches
// node always evaluates to false.
func (f Filter) Evaluate(fields map[string]any) bool {
	switch f.Operator {
	case "":
		return true
	case OpEqual:
		return compareEqual(fields[f.Field], f.Value)
	case OpNotEqual:
		return !compareEqual(fields[f.Field], f.Value)
	case OpLessThan:
		c, ok := compareOrdered(fields[f.Field], f.Value)
		return ok && c < 0
	case OpLessOrEqual:
		c, ok := compareOrdered(fields[f.Field], f.Value)
		return ok && c <= 0
	case OpGreaterThan:
		c, ok := compareOrdered(fields[f.Field], f.Value)
		return ok && c > 0
	case OpGreaterOrEq:
		c, ok := compareOrdered(fields[f.Field], f.Value)
		return ok && c >= 0
	case OpContainedIn:
		actual := fields[f.Field]
		for _, v := range f.Values {
			if compareEqual(actual, v) {
				return true
			}
		}
		return false
	case OpMatches:
		if f.compiledRegexp == nil {
			return false
		}
		s, ok := fields[f.Field].(string)
		if !ok {
			return false
		}
		return f.compiledRegexp.MatchString(s)
	case OpAnd:
		for _, op := range f.Operands {
			if !op.Evaluate(fields) {
				return false
			}
		}
		return true
	case OpOr:
		for _, op := range f.Operands {
			if op.Evaluate(fields) {
				return true
			}
		}
		return false
	case OpNot:
		if len(f.Operands) != 1 {
			return false
		}
		return !f.Operands[0].Evaluate(fields)
	default:
		return false
	}
}

// FieldExtractor flattens an entity into the name/value pairs a Filter
// evaluates against. Store implementations that keep entities as Go structs
// typically implement this with a small field switch.
type FieldExtractor func(entity any) map[string]any

func compareEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) {
		return a == b
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Compare orders a against b, returning (-1, true), (0, true) or (1, true)
// when both sides are ordered values of a compatible kind (both strings or
// both numeric), and (0, false) when they cannot be compared. Store
// implementations use Compare to sort by an indexed field.
func Compare(a, b any) (int, bool) { return compareOrdered(a, b) }

// compareOrdered compares a to b, returning (-1, true), (0, true) or
// (1, true) when both sides are ordered values of a compatible kind, and
// (0, false) when they cannot be compared.
func compareOrdered(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
