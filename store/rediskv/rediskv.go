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

// Package rediskv is a reference store.Store[E] at store.LevelRemote,
// backed by Redis. Every Set/Remove also publishes a Change to a
// per-entity-type Pub/Sub channel, readable through Subscribe;
// corekit.Manager does not subscribe to it, so its continuous streams see
// only mutations made through the same Manager.
package rediskv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sage-x-project/entitykit/pkg/entity"
	entitykiterrors "github.com/sage-x-project/entitykit/pkg/errors"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/store"
)

// Config holds Redis connection configuration for a Store.
type Config struct {
	// Address is the Redis server address (host:port).
	// Default: "localhost:6379".
	Address string

	Password string
	DB       int

	// TTL is the default time-to-live for stored entities. Zero disables
	// expiration. Default: 0.
	TTL time.Duration

	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default Redis configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Change is the payload published to an entity type's Pub/Sub channel on
// every Set or Remove.
type Change struct {
	ID       string `json:"id"`
	Removed  bool   `json:"removed"`
	EntityID string `json:"entity_id"`
}

// Store is a store.Store[E] at store.LevelRemote backed by Redis.
type Store[E entity.Entity] struct {
	client    *redis.Client
	ttl       time.Duration
	entType   entity.EntityType
	newEntity func() E
	fields    query.FieldExtractor
}

// New dials Redis and returns a Store for entities of entType.
func New[E entity.Entity](ctx context.Context, cfg *Config, entType entity.EntityType, newEntity func() E, fields query.FieldExtractor) (*Store[E], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, entitykiterrors.ErrNetworkUnavailable.WithMessage("connect to redis").Wrap(err)
	}

	return &Store[E]{client: client, ttl: cfg.TTL, entType: entType, newEntity: newEntity, fields: fields}, nil
}

func (s *Store[E]) Level() store.Level { return store.LevelRemote }

func (s *Store[E]) key(id string) string {
	return fmt.Sprintf("entitykit:%s:entity:%s", s.entType, id)
}

func (s *Store[E]) indexKey() string {
	return fmt.Sprintf("entitykit:%s:ids", s.entType)
}

func (s *Store[E]) channel() string {
	return fmt.Sprintf("entitykit:%s:changes", s.entType)
}

func (s *Store[E]) Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error) {
	if len(ids) == 1 {
		e, ok, err := s.fetch(ctx, ids[0].Key())
		if err != nil {
			return query.QueryResult{}, err
		}
		if !ok {
			return query.Empty(), nil
		}
		return query.QueryResult{Result: query.SingleResult(entity.Wrap(e)), IsDataRemote: true}, nil
	}

	rows, err := s.fetchAll(ctx)
	if err != nil {
		return query.QueryResult{}, err
	}
	return query.QueryResult{Result: store.Evaluate(query.ByIDs(ids...), rows, s.fields), IsDataRemote: true}, nil
}

func (s *Store[E]) Search(ctx context.Context, q query.Query) (query.QueryResult, error) {
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return query.QueryResult{}, err
	}
	return query.QueryResult{Result: store.Evaluate(q, rows, s.fields), IsDataRemote: true}, nil
}

func (s *Store[E]) Set(ctx context.Context, e E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return entitykiterrors.ErrStore.WithMessage("marshal entity").Wrap(err)
	}

	id := e.ID().Key()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(id), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return entitykiterrors.ErrStore.WithMessage("store entity").Wrap(err)
	}

	s.publish(ctx, Change{EntityID: id})
	return nil
}

func (s *Store[E]) Remove(ctx context.Context, id entity.Identifier) error {
	key := id.Key()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(key))
	pipe.SRem(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return entitykiterrors.ErrStore.WithMessage("remove entity").Wrap(err)
	}

	s.publish(ctx, Change{EntityID: key, Removed: true})
	return nil
}

func (s *Store[E]) RemoveAll(ctx context.Context, q query.Query) error {
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}
	matched := store.Evaluate(q, rows, s.fields).Flatten()
	for _, it := range matched {
		if it.Entity == nil {
			continue
		}
		if err := s.Remove(ctx, it.Entity.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe returns a channel of Change notifications for this store's
// entity type, for a corekit.Manager's continuous stream to consume
// alongside local mutations.
func (s *Store[E]) Subscribe(ctx context.Context) <-chan Change {
	sub := s.client.Subscribe(ctx, s.channel())
	out := make(chan Change)

	go func() {
		defer close(out)
		defer sub.Close()
		for msg := range sub.Channel() {
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Store[E]) publish(ctx context.Context, change Change) {
	data, err := json.Marshal(change)
	if err != nil {
		return
	}
	s.client.Publish(ctx, s.channel(), data)
}

func (s *Store[E]) fetch(ctx context.Context, id string) (E, bool, error) {
	var zero E
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, entitykiterrors.ErrStore.WithMessage("fetch entity").Wrap(err)
	}

	e := s.newEntity()
	if err := json.Unmarshal(data, e); err != nil {
		return zero, false, entitykiterrors.ErrStore.WithMessage("unmarshal entity").Wrap(err)
	}
	return e, true, nil
}

func (s *Store[E]) fetchAll(ctx context.Context) ([]entity.AnyEntity, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, entitykiterrors.ErrStore.WithMessage("list entity ids").Wrap(err)
	}

	out := make([]entity.AnyEntity, 0, len(ids))
	for _, id := range ids {
		e, ok, err := s.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entity.Wrap(e))
		}
	}
	return out, nil
}

// Close closes the underlying Redis client.
func (s *Store[E]) Close() error { return s.client.Close() }
