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

package store

import (
	"context"

	"github.com/sage-x-project/entitykit/core/resilience"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
)

// ResilientConfig configures the protections Resilient wraps a Store with.
// A nil field selects that protection's package default.
type ResilientConfig struct {
	Bulkhead       *resilience.BulkheadConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
	Timeout        *resilience.TimeoutConfig
}

// Resilient wraps a Store[E], typically one at LevelRemote, with bulkhead
// isolation, circuit breaking, and a per-call timeout. It is meant for
// stores backed by a network round trip (store/postgres, store/rediskv)
// where an unresponsive backend would otherwise stall or cascade-fail every
// caller sharing the Stack.
type Resilient[E entity.Entity] struct {
	inner    Store[E]
	bulkhead *resilience.Bulkhead
	breaker  *resilience.CircuitBreaker
	timeout  *resilience.TimeoutConfig
}

// NewResilient wraps inner according to cfg. A zero-value ResilientConfig
// enables every protection with its package defaults.
func NewResilient[E entity.Entity](inner Store[E], cfg ResilientConfig) *Resilient[E] {
	r := &Resilient[E]{inner: inner}
	if cfg.Bulkhead != nil {
		r.bulkhead = resilience.NewBulkhead(cfg.Bulkhead)
	} else {
		r.bulkhead = resilience.NewBulkhead(resilience.DefaultBulkheadConfig())
	}
	if cfg.CircuitBreaker != nil {
		r.breaker = resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	} else {
		r.breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig())
	}
	if cfg.Timeout != nil {
		r.timeout = cfg.Timeout
	} else {
		r.timeout = resilience.DefaultTimeoutConfig()
	}
	return r
}

// Level reports the wrapped Store's level.
func (r *Resilient[E]) Level() Level { return r.inner.Level() }

// State returns the circuit breaker's current state.
func (r *Resilient[E]) State() resilience.State { return r.breaker.State() }

func (r *Resilient[E]) run(ctx context.Context, fn resilience.Executor) error {
	return r.bulkhead.Execute(ctx, func(ctx context.Context) error {
		return r.breaker.Execute(ctx, func(ctx context.Context) error {
			return resilience.WithTimeout(ctx, r.timeout, fn)
		})
	})
}

func (r *Resilient[E]) Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error) {
	var res query.QueryResult
	err := r.run(ctx, func(ctx context.Context) error {
		var err error
		res, err = r.inner.Get(ctx, ids, extras)
		return err
	})
	return res, err
}

func (r *Resilient[E]) Search(ctx context.Context, q query.Query) (query.QueryResult, error) {
	var res query.QueryResult
	err := r.run(ctx, func(ctx context.Context) error {
		var err error
		res, err = r.inner.Search(ctx, q)
		return err
	})
	return res, err
}

func (r *Resilient[E]) Set(ctx context.Context, e E) error {
	return r.run(ctx, func(ctx context.Context) error {
		return r.inner.Set(ctx, e)
	})
}

func (r *Resilient[E]) Remove(ctx context.Context, id entity.Identifier) error {
	return r.run(ctx, func(ctx context.Context) error {
		return r.inner.Remove(ctx, id)
	})
}

func (r *Resilient[E]) RemoveAll(ctx context.Context, q query.Query) error {
	return r.run(ctx, func(ctx context.Context) error {
		return r.inner.RemoveAll(ctx, q)
	})
}
