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

	"github.com/sage-x-project/entitykit/pkg/query"
)

// subscribe registers a continuous subscription for q, removed when ctx is
// cancelled (mirroring client.StreamMessage's context-cancellation-closes-
// channel convention). The returned channel is never closed by a value
// push; closing happens only on unsubscribe.
func (m *Manager[E]) subscribe(ctx context.Context, q query.Query) *subscription {
	sub := &subscription{query: q, ch: make(chan query.QueryResult, 4)}

	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = sub
	count := len(m.subs)
	m.mu.Unlock()
	m.metrics.SetActiveSubscriptions(string(m.entType), float64(count))

	go func() {
		<-ctx.Done()
		m.unsubscribe(id)
	}()

	return sub
}

func (m *Manager[E]) unsubscribe(id uint64) {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		delete(m.subs, id)
	}
	count := len(m.subs)
	m.mu.Unlock()

	if ok {
		close(sub.ch)
		m.metrics.SetActiveSubscriptions(string(m.entType), float64(count))
	}
}

// notifyMutation re-evaluates every active subscription's query against
// the current local store and pushes a new value only if it differs from
// the last one emitted to that subscriber, per spec.md §4.1's continuous-
// stream rule. Mutations on a single Manager are serialized by its
// caller (Set/Remove/RemoveAll each call this synchronously before
// returning), which is what gives the continuous stream its committed-
// order guarantee.
func (m *Manager[E]) notifyMutation(ctx context.Context) {
	m.mu.Lock()
	subs := make([]*subscription, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, sub := range subs {
		res, err := m.fetchFrom(ctx, m.localStore(), sub.query)
		if err != nil {
			continue
		}
		filtered := query.QueryResult{Result: m.filterExtras(res.Result, sub.query.Extras)}

		m.mu.Lock()
		changed := !sub.hasLast || !sub.last.Equal(filtered)
		if changed {
			sub.last = filtered
			sub.hasLast = true
		}
		m.mu.Unlock()

		if changed {
			select {
			case sub.ch <- filtered:
			default:
			}
		}
	}
}
