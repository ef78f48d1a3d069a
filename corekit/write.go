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
	"context"

	entitykiterrors "github.com/sage-x-project/entitykit/pkg/errors"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// Set writes e to the local store and, if one is registered, the remote
// store, returning once both acknowledge (spec.md §4.1's set(entities,
// ctx)). It then re-evaluates every active continuous subscription.
func (m *Manager[E]) Set(ctx context.Context, e E) error {
	local := m.localStore()
	if local == nil {
		m.metrics.RecordMutation(string(m.entType), "set", false)
		return entitykiterrors.ErrStore.WithMessage("no local store registered for " + string(m.entType))
	}
	if err := local.Set(ctx, e); err != nil {
		m.metrics.RecordMutation(string(m.entType), "set", false)
		return err
	}

	if remote, ok := m.stack.Remote(); ok {
		if err := remote.Set(ctx, e); err != nil {
			m.metrics.RecordMutation(string(m.entType), "set", false)
			return err
		}
	}

	m.metrics.RecordMutation(string(m.entType), "set", true)
	m.notifyMutation(ctx)
	return nil
}

// Remove deletes id from the local store and, if one is registered, the
// remote store, then re-evaluates every active continuous subscription.
func (m *Manager[E]) Remove(ctx context.Context, id entity.Identifier) error {
	local := m.localStore()
	if local == nil {
		m.metrics.RecordMutation(string(m.entType), "remove", false)
		return entitykiterrors.ErrStore.WithMessage("no local store registered for " + string(m.entType))
	}
	if err := local.Remove(ctx, id); err != nil {
		m.metrics.RecordMutation(string(m.entType), "remove", false)
		return err
	}

	if remote, ok := m.stack.Remote(); ok {
		if err := remote.Remove(ctx, id); err != nil {
			m.metrics.RecordMutation(string(m.entType), "remove", false)
			return err
		}
	}

	m.metrics.RecordMutation(string(m.entType), "remove", true)
	m.notifyMutation(ctx)
	return nil
}

// RemoveAll deletes every entity matching q from the local store and, if
// one is registered, the remote store, then re-evaluates every active
// continuous subscription.
func (m *Manager[E]) RemoveAll(ctx context.Context, q query.Query) error {
	q, err := q.Compile()
	if err != nil {
		return entitykiterrors.ErrInvalidQuery.WithMessage("compile query").Wrap(err)
	}

	local := m.localStore()
	if local == nil {
		m.metrics.RecordMutation(string(m.entType), "removeAll", false)
		return entitykiterrors.ErrStore.WithMessage("no local store registered for " + string(m.entType))
	}
	if err := local.RemoveAll(ctx, q); err != nil {
		m.metrics.RecordMutation(string(m.entType), "removeAll", false)
		return err
	}

	if remote, ok := m.stack.Remote(); ok {
		if err := remote.RemoveAll(ctx, q); err != nil {
			m.metrics.RecordMutation(string(m.entType), "removeAll", false)
			return err
		}
	}

	m.metrics.RecordMutation(string(m.entType), "removeAll", true)
	m.notifyMutation(ctx)
	return nil
}
