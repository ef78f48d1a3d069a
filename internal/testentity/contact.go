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

// Package testentity provides small, concrete Entity implementations used
// across entitykit's own test suites: a Contact that can manage another
// Contact (exercising relationship cycles) and a Team that groups several
// Contacts (exercising batched one-to-many fetches).
package testentity

import "github.com/sage-x-project/entitykit/pkg/entity"

// Contact extras.
const (
	ExtraAvatar entity.ExtraKey = 1 << iota
	ExtraBio
)

// EntityTypeContact is Contact's static type tag.
const EntityTypeContact entity.EntityType = "contact"

// RelationshipManager is the path-step key for Contact.Manager.
const RelationshipManager entity.RelationshipField = "manager"

// Contact is a fixture entity with two lazily-loaded extras (Avatar, Bio)
// and a recursive relationship field (Manager -> another Contact).
type Contact struct {
	Identifier entity.Identifier
	Name       string
	Avatar     entity.ExtraState
	Bio        entity.ExtraState
	ManagerID  *entity.Identifier
}

// NewContact builds a Contact with both extras unrequested.
func NewContact(name string) *Contact {
	return &Contact{
		Identifier: entity.NewLocal(),
		Name:       name,
		Avatar:     entity.Unrequested(),
		Bio:        entity.Unrequested(),
	}
}

func (c *Contact) EntityType() entity.EntityType { return EntityTypeContact }

func (c *Contact) ID() entity.Identifier { return c.Identifier }

func (c *Contact) SetID(id entity.Identifier) { c.Identifier = id }

func (c *Contact) Relationships() []entity.RelationshipRef {
	if c.ManagerID == nil {
		return nil
	}
	return []entity.RelationshipRef{
		{
			Field:      RelationshipManager,
			TargetType: EntityTypeContact,
			Targets:    []entity.Identifier{*c.ManagerID},
		},
	}
}

func (c *Contact) MergeFrom(other entity.Entity) {
	o, ok := other.(*Contact)
	if !ok {
		return
	}

	c.Name = o.Name
	c.ManagerID = o.ManagerID

	if o.Avatar.IsRequested() || !c.Avatar.IsRequested() {
		c.Avatar = o.Avatar
	}
	if o.Bio.IsRequested() || !c.Bio.IsRequested() {
		c.Bio = o.Bio
	}
}

func (c *Contact) Clone() entity.Entity {
	clone := *c
	if c.ManagerID != nil {
		id := *c.ManagerID
		clone.ManagerID = &id
	}
	return &clone
}

// ExtraSet is a small helper for building test queries.
func ExtraSet(keys ...entity.ExtraKey) entity.ExtraSet {
	return entity.NoExtras.With(keys...)
}
