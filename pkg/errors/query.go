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

package errors

// Query errors
var (
	// ErrInvalidQuery indicates a malformed Query or Filter expression.
	ErrInvalidQuery = &Error{
		Category: CategoryQuery,
		Code:     "INVALID_QUERY",
		Message:  "invalid query",
	}

	// ErrMissingField indicates a required field is missing from a Query or Entity.
	ErrMissingField = &Error{
		Category: CategoryQuery,
		Code:     "MISSING_FIELD",
		Message:  "required field is missing",
	}

	// ErrInvalidExtras indicates the extras set references an unknown extra.
	ErrInvalidExtras = &Error{
		Category: CategoryQuery,
		Code:     "INVALID_EXTRAS",
		Message:  "invalid extras set",
	}

	// ErrInvalidSort indicates an unsupported sort key was requested.
	ErrInvalidSort = &Error{
		Category: CategoryQuery,
		Code:     "INVALID_SORT",
		Message:  "invalid sort key",
	}
)
