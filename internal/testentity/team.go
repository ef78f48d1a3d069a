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

package testentity

import "github.com/sage-x-project/entitykit/pkg/entity"

// EntityTypeTeam is Team's static type tag.
const EntityTypeTeam entity.EntityType = "team"

// RelationshipMembers is the path-step key for Team.MemberIDs.
const RelationshipMembers entity.RelationshipField = "members"

// Team groups several Contacts, exercising one-to-many batched fetches.
type Team struct {
	Identifier entity.Identifier
	Name       string
	MemberIDs  []entity.Identifier
}

// NewTeam builds a Team referencing the given member identifiers.
func NewTeam(name string, members ...entity.Identifier) *Team {
	return &Team{
		Identifier: entity.NewLocal(),
		Name:       name,
		MemberIDs:  members,
	}
}

func (tm *Team) EntityType() entity.EntityType { return EntityTypeTeam }

func (tm *Team) ID() entity.Identifier { return tm.Identifier }

func (tm *Team) SetID(id entity.Identifier) { tm.Identifier = id }

func (tm *Team) Relationships() []entity.RelationshipRef {
	if len(tm.MemberIDs) == 0 {
		return nil
	}
	return []entity.RelationshipRef{
		{
			Field:      RelationshipMembers,
			TargetType: EntityTypeContact,
			Targets:    tm.MemberIDs,
		},
	}
}

func (tm *Team) MergeFrom(other entity.Entity) {
	o, ok := other.(*Team)
	if !ok {
		return
	}
	tm.Name = o.Name
	tm.MemberIDs = o.MemberIDs
}

func (tm *Team) Clone() entity.Entity {
	clone := *tm
	clone.MemberIDs = append([]entity.Identifier(nil), tm.MemberIDs...)
	return &clone
}
