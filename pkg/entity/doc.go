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

// Package entity defines the identifier, extras, and entity contracts
// shared by every entitykit component.
//
// An Identifier is a tagged union of a local-only id, a remote id (with an
// optional fused local id), or a derived id. Equality treats a remote
// component as authoritative: two identifiers that share either component
// denote the same entity.
//
// Extras are optional lazily-loaded fields. Each entity type declares its
// own typed extras enumeration (a bitset of named constants) instead of
// stringly-typed keys; a field's value is either Unrequested or
// Requested(value).
package entity
