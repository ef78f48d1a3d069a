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

package readctx

import (
	"strings"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// Validator opts into checking entities of a given type and decides
// whether a specific one, evaluated against the query that produced it,
// is valid. An invalid entity is dropped before it reaches the caller (for
// a root result) or before it is inserted into a Graph (for a relationship
// fetch).
type Validator interface {
	ShouldValidate(t entity.EntityType) bool
	IsEntityValid(e entity.AnyEntity, q query.Query) bool
}

// Contract is an ordered chain of Validators, composed the way
// middleware.Chain composes handlers: every validator that opts in via
// ShouldValidate must accept the entity.
type Contract struct {
	validators []Validator
	perPath    map[string]*Contract
}

// NewContract builds a Contract from an ordered validator chain.
func NewContract(validators ...Validator) *Contract {
	return &Contract{validators: validators}
}

// ScopeToPath registers a narrower Contract to apply once traversal
// reaches the given relationship path, in place of the receiver's own
// validators. Returns the receiver for chaining.
func (c *Contract) ScopeToPath(path []entity.RelationshipField, scoped *Contract) *Contract {
	if c.perPath == nil {
		c.perPath = make(map[string]*Contract)
	}
	c.perPath[pathKey(path)] = scoped
	return c
}

// Derive returns the Contract that applies once relationship traversal
// reaches path: the scoped Contract registered via ScopeToPath for that
// exact path, if any, otherwise the receiver itself.
func (c *Contract) Derive(path []entity.RelationshipField) *Contract {
	if c == nil {
		return nil
	}
	if scoped, ok := c.perPath[pathKey(path)]; ok {
		return scoped
	}
	return c
}

// Validate reports whether e passes every validator in the chain that
// opted into e's type. A nil Contract accepts everything.
func (c *Contract) Validate(e entity.AnyEntity, q query.Query) bool {
	if c == nil {
		return true
	}
	for _, v := range c.validators {
		if v.ShouldValidate(e.Type) && !v.IsEntityValid(e, q) {
			return false
		}
	}
	return true
}

func pathKey(path []entity.RelationshipField) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = string(p)
	}
	return strings.Join(parts, "/")
}
