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
	"strings"

	"github.com/sage-x-project/entitykit/pkg/entity"
)

// Step is one (entityType, relationshipField) hop in a traversal Path.
type Step struct {
	EntityType entity.EntityType
	Field      entity.RelationshipField
}

// Path is an ordered sequence of Steps from the root to a given
// relationship frontier, the unit Including/Excluding/With key off of.
type Path []Step

// key returns a stable string for use as a map key and as the
// readctx.Contract derivation path.
func (p Path) key() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = string(s.EntityType) + ":" + string(s.Field)
	}
	return strings.Join(parts, "/")
}

// Fields projects p onto the entity.RelationshipField sequence
// readctx.ReadContext.ForPath expects.
func (p Path) Fields() []entity.RelationshipField {
	out := make([]entity.RelationshipField, len(p))
	for i, s := range p {
		out[i] = s.Field
	}
	return out
}

// Append returns a new Path with step appended, leaving p unmodified.
func (p Path) Append(step Step) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}
