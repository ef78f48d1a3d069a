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

package corekit

import (
	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/store"
)

func contactFields(e any) map[string]any {
	c, ok := e.(*testentity.Contact)
	if !ok {
		return nil
	}
	return map[string]any{"name": c.Name}
}

func contactHasExtras(e entity.Entity, extras entity.ExtraSet) bool {
	c, ok := e.(*testentity.Contact)
	if !ok {
		return false
	}
	if extras.Has(testentity.ExtraAvatar) && !c.Avatar.IsRequested() {
		return false
	}
	if extras.Has(testentity.ExtraBio) && !c.Bio.IsRequested() {
		return false
	}
	return true
}

func newContactMemoryStore() *store.MemoryStore[*testentity.Contact] {
	return store.NewMemoryStore[*testentity.Contact](contactFields)
}
