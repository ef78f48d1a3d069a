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

package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierKind tags which components of an Identifier are populated.
type IdentifierKind int

const (
	// KindLocal identifies an entity known only by a client-generated id.
	KindLocal IdentifierKind = iota
	// KindRemote identifies an entity the server has assigned an id to,
	// optionally fused with the local id it originated from.
	KindRemote
	// KindDerived identifies an entity whose id is computed from another
	// entity's id (e.g. a one-to-one relationship target).
	KindDerived
)

func (k IdentifierKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	case KindDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Identifier is the tagged-union entity identity described in spec.md §3.
//
// Equality treats a remote id as authoritative: two Identifiers that share
// either the same Local or the same Remote component denote the same
// entity. This lets a local-only id be fused with a remote id learned
// later from a server response without breaking identity continuity.
type Identifier struct {
	Kind    IdentifierKind
	Local   string
	Remote  string
	Derived string
}

// NewLocal creates a client-generated identifier with a random local id.
func NewLocal() Identifier {
	return Identifier{Kind: KindLocal, Local: uuid.New().String()}
}

// NewRemote creates an identifier known to the server, with no local
// component yet fused.
func NewRemote(remoteID string) Identifier {
	return Identifier{Kind: KindRemote, Remote: remoteID}
}

// NewDerived creates an identifier computed from another entity's identity,
// used for relationship fields with an implicit 1:1 target.
func NewDerived(key string) Identifier {
	return Identifier{Kind: KindDerived, Derived: key}
}

// IsZero reports whether the identifier carries no component at all.
func (id Identifier) IsZero() bool {
	return id.Local == "" && id.Remote == "" && id.Derived == ""
}

// Merge fuses a remote id learned from a server response onto an
// identifier previously known only locally. The result keeps both
// components so lookups by either resolve to the same entity.
func (id Identifier) Merge(remoteID string) Identifier {
	return Identifier{
		Kind:   KindRemote,
		Local:  id.Local,
		Remote: remoteID,
	}
}

// Equal implements the identity invariant from spec.md §3: identifiers
// match if they share a non-empty Local, Remote, or Derived component.
func (id Identifier) Equal(other Identifier) bool {
	if id.Remote != "" && id.Remote == other.Remote {
		return true
	}
	if id.Local != "" && id.Local == other.Local {
		return true
	}
	if id.Derived != "" && id.Derived == other.Derived {
		return true
	}
	return false
}

// Key returns a stable map key for this identifier, preferring the remote
// component when present so a store indexes a merged entity under one key
// regardless of which component a caller looks it up by.
func (id Identifier) Key() string {
	switch {
	case id.Remote != "":
		return "r:" + id.Remote
	case id.Local != "":
		return "l:" + id.Local
	case id.Derived != "":
		return "d:" + id.Derived
	default:
		return ""
	}
}

// String implements fmt.Stringer for logging.
func (id Identifier) String() string {
	switch id.Kind {
	case KindRemote:
		if id.Local != "" {
			return fmt.Sprintf("remote(%s, local=%s)", id.Remote, id.Local)
		}
		return fmt.Sprintf("remote(%s)", id.Remote)
	case KindDerived:
		return fmt.Sprintf("derived(%s)", id.Derived)
	default:
		return fmt.Sprintf("local(%s)", id.Local)
	}
}
