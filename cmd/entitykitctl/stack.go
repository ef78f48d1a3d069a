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

package main

import (
	"context"
	"fmt"

	"github.com/sage-x-project/entitykit/config"
	"github.com/sage-x-project/entitykit/corekit"
	"github.com/sage-x-project/entitykit/core/resilience"
	"github.com/sage-x-project/entitykit/internal/testentity"
	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/queue"
	"github.com/sage-x-project/entitykit/stack"
	"github.com/sage-x-project/entitykit/store"
	"github.com/sage-x-project/entitykit/store/postgres"
	"github.com/sage-x-project/entitykit/store/rediskv"
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

// findEntity returns the EntityConfig registered under typeName, or an
// error naming every type the config does register.
func findEntity(cfg *config.Config, typeName string) (config.EntityConfig, error) {
	for _, e := range cfg.Entities {
		if e.Type == typeName {
			return e, nil
		}
	}
	known := make([]string, 0, len(cfg.Entities))
	for _, e := range cfg.Entities {
		known = append(known, e.Type)
	}
	return config.EntityConfig{}, fmt.Errorf("entitykitctl: no entity type %q registered in config (known: %v)", typeName, known)
}

// buildContactStack composes a stack.Stack[*testentity.Contact] from ec,
// dialing a PostgreSQL and/or Redis store when configured and wrapping the
// Redis store with resilience protection when ec.Resilient is set.
func buildContactStack(ctx context.Context, ec config.EntityConfig) (*stack.Stack[*testentity.Contact], error) {
	var stores []store.Store[*testentity.Contact]

	if ec.Memory {
		stores = append(stores, store.NewMemoryStore[*testentity.Contact](contactFields))
	}

	if ec.UsePostgres {
		pgCfg := &postgres.Config{
			Host:      ec.Postgres.Host,
			Port:      ec.Postgres.Port,
			User:      ec.Postgres.User,
			Password:  ec.Postgres.Password,
			Database:  ec.Postgres.Database,
			SSLMode:   ec.Postgres.SSLMode,
			TableName: ec.Postgres.TableName,
		}
		pg, err := postgres.New[*testentity.Contact](ctx, pgCfg, testentity.EntityTypeContact, func() *testentity.Contact { return &testentity.Contact{} }, contactFields)
		if err != nil {
			return nil, fmt.Errorf("entitykitctl: dial postgres: %w", err)
		}
		stores = append(stores, pg)
	}

	if ec.UseRedis {
		redisCfg := &rediskv.Config{
			Address:  ec.Redis.Address,
			Password: ec.Redis.Password,
			DB:       ec.Redis.DB,
			TTL:      ec.Redis.TTL,
		}
		rs, err := rediskv.New[*testentity.Contact](ctx, redisCfg, testentity.EntityTypeContact, func() *testentity.Contact { return &testentity.Contact{} }, contactFields)
		if err != nil {
			return nil, fmt.Errorf("entitykitctl: dial redis: %w", err)
		}
		var remote store.Store[*testentity.Contact] = rs
		if ec.Resilient {
			remote = store.NewResilient[*testentity.Contact](remote, store.ResilientConfig{
				Bulkhead:       resilience.DefaultBulkheadConfig(),
				CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
				Timeout:        resilience.DefaultTimeoutConfig(),
			})
		}
		stores = append(stores, remote)
	}

	return stack.New[*testentity.Contact](stores...)
}

// buildContactManager builds the corekit.Manager[*testentity.Contact] that
// every command operates against, plus the queue.Scheduler tracking its
// outbound writes.
func buildContactManager(ctx context.Context, cfg *config.Config) (*corekit.Manager[*testentity.Contact], *queue.Scheduler, error) {
	ec, err := findEntity(cfg, "contact")
	if err != nil {
		return nil, nil, err
	}

	st, err := buildContactStack(ctx, ec)
	if err != nil {
		return nil, nil, err
	}

	mgr := corekit.NewManager[*testentity.Contact](testentity.EntityTypeContact, st, contactFields, contactHasExtras)

	backoff := resilience.ExponentialBackoff(cfg.Scheduler.BaseBackoff, cfg.Scheduler.BackoffMultiplier, cfg.Scheduler.MaxBackoff)
	sched := queue.NewScheduler(queue.NewDispatcher(noopSender{}).ProcessNext, queue.WithBackoff(backoff))

	return mgr, sched, nil
}

// noopSender discards every request; entitykitctl inspects local state, it
// does not dispatch a real outbound transport.
type noopSender struct{}

func (noopSender) Send(ctx context.Context, req any) error { return nil }
