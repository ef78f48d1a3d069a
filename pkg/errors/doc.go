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

// Package errors provides the structured error taxonomy shared by every
// entitykit component.
//
// Errors carry a Category, a machine-readable Code, a human-readable
// Message, optional Details, and an optional wrapped cause:
//
//	err := errors.ErrNotFound.WithDetail("identifier", id)
//
// # Error Categories
//
//   - Store: local or disk store failures
//   - Network: remote-tier failures
//   - NotFound: requested entity is absent
//   - Conflict: a write collided with existing state
//   - Cancelled: the caller dropped its subscription/context
//   - Contract: a Read Context contract rejected an entity
//   - Query: a malformed Query or Filter expression
//   - Internal: anything else
//
// # Creating Errors
//
// Use predefined errors:
//
//	err := errors.ErrInvalidQuery.WithDetail("field", "extras")
//
// Or create custom ones:
//
//	err := errors.New(errors.CategoryStore, "DISK_FULL", "disk store is full")
//
// # Wrapping
//
//	if err := store.Set(ctx, entities); err != nil {
//	    return errors.ErrStore.WithMessage("persist failed").Wrap(err)
//	}
//
// # Checking
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var e *errors.Error
//	if errors.As(err, &e) { log.Printf("%s: %v", e.Code, e.Details) }
package errors
