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

// Package postgres is a reference store.Store[E] at store.LevelDisk,
// backed by PostgreSQL. Entities are stored one row per identifier, JSON
// encoded, and filtering/sorting beyond identifier lookup is delegated to
// the store package's in-memory engine over the rows for a type.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	entitykiterrors "github.com/sage-x-project/entitykit/pkg/errors"

	"github.com/sage-x-project/entitykit/pkg/entity"
	"github.com/sage-x-project/entitykit/pkg/query"
	"github.com/sage-x-project/entitykit/store"
)

// Config holds PostgreSQL connection configuration for a Store.
type Config struct {
	// Host is the PostgreSQL server host. Default: "localhost".
	Host string

	// Port is the PostgreSQL server port. Default: 5432.
	Port int

	// User is the PostgreSQL user. Default: "postgres".
	User string

	// Password is the PostgreSQL password. Default: "".
	Password string

	// Database is the PostgreSQL database name. Default: "entitykit".
	Database string

	// SSLMode is the SSL mode for connection. Default: "disable".
	SSLMode string

	// TableName is the table used to store entities of one type.
	// Default: "entitykit_store".
	TableName string

	// MaxOpenConns is the maximum number of open connections. Default: 25.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections. Default: 5.
	MaxIdleConns int

	// ConnMaxLifetime is the maximum lifetime of a connection.
	// Default: 5 minutes.
	ConnMaxLifetime time.Duration

	// AutoMigrate creates TableName if it doesn't exist. Default: true.
	AutoMigrate bool
}

// DefaultConfig returns the default PostgreSQL configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "",
		Database:        "entitykit",
		SSLMode:         "disable",
		TableName:       "entitykit_store",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		AutoMigrate:     true,
	}
}

// Store is a store.Store[E] at store.LevelDisk backed by PostgreSQL.
type Store[E entity.Entity] struct {
	db        *sql.DB
	tableName string
	entType   entity.EntityType
	newEntity func() E
	fields    query.FieldExtractor
}

// New opens a PostgreSQL connection pool and returns a Store for entities
// of entType. newEntity must return a fresh, zero-valued E for JSON
// decoding (e.g. func() *Contact { return &Contact{} }).
func New[E entity.Entity](ctx context.Context, cfg *Config, entType entity.EntityType, newEntity func() E, fields query.FieldExtractor) (*Store[E], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, entitykiterrors.ErrStore.WithMessage("open postgres connection").Wrap(err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, entitykiterrors.ErrStore.WithMessage("connect to postgres").Wrap(err)
	}

	s := &Store[E]{db: db, tableName: cfg.TableName, entType: entType, newEntity: newEntity, fields: fields}

	if cfg.AutoMigrate {
		if err := s.migrate(ctx); err != nil {
			db.Close()
			return nil, entitykiterrors.ErrStore.WithMessage("migrate postgres table").Wrap(err)
		}
	}

	return s, nil
}

func (s *Store[E]) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			entity_type VARCHAR(255) NOT NULL,
			id VARCHAR(255) NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (entity_type, id)
		);
		CREATE INDEX IF NOT EXISTS idx_%s_entity_type ON %s(entity_type);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *Store[E]) Level() store.Level { return store.LevelDisk }

func (s *Store[E]) Get(ctx context.Context, ids []entity.Identifier, extras entity.ExtraSet) (query.QueryResult, error) {
	if len(ids) == 1 {
		e, ok, err := s.fetch(ctx, ids[0].Key())
		if err != nil {
			return query.QueryResult{}, err
		}
		if !ok {
			return query.Empty(), nil
		}
		return query.QueryResult{Result: query.SingleResult(entity.Wrap(e))}, nil
	}

	rows, err := s.fetchAll(ctx)
	if err != nil {
		return query.QueryResult{}, err
	}
	return query.QueryResult{Result: store.Evaluate(query.ByIDs(ids...), rows, s.fields)}, nil
}

func (s *Store[E]) Search(ctx context.Context, q query.Query) (query.QueryResult, error) {
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return query.QueryResult{}, err
	}
	return query.QueryResult{Result: store.Evaluate(q, rows, s.fields)}, nil
}

func (s *Store[E]) Set(ctx context.Context, e E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return entitykiterrors.ErrStore.WithMessage("marshal entity").Wrap(err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (entity_type, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (entity_type, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, stmt, string(s.entType), e.ID().Key(), data); err != nil {
		return entitykiterrors.ErrStore.WithMessage("store entity").Wrap(err)
	}
	return nil
}

func (s *Store[E]) Remove(ctx context.Context, id entity.Identifier) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE entity_type = $1 AND id = $2`, s.tableName)
	_, err := s.db.ExecContext(ctx, stmt, string(s.entType), id.Key())
	if err != nil {
		return entitykiterrors.ErrStore.WithMessage("remove entity").Wrap(err)
	}
	return nil
}

func (s *Store[E]) RemoveAll(ctx context.Context, q query.Query) error {
	rows, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}
	matched := store.Evaluate(q, rows, s.fields).Flatten()

	stmt := fmt.Sprintf(`DELETE FROM %s WHERE entity_type = $1 AND id = $2`, s.tableName)
	for _, it := range matched {
		if it.Entity == nil {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt, string(s.entType), it.Entity.ID().Key()); err != nil {
			return entitykiterrors.ErrStore.WithMessage("remove matched entity").Wrap(err)
		}
	}
	return nil
}

func (s *Store[E]) fetch(ctx context.Context, id string) (E, bool, error) {
	var zero E
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE entity_type = $1 AND id = $2`, s.tableName)

	var data []byte
	err := s.db.QueryRowContext(ctx, stmt, string(s.entType), id).Scan(&data)
	if err == sql.ErrNoRows {
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
	stmt := fmt.Sprintf(`SELECT data FROM %s WHERE entity_type = $1 ORDER BY created_at ASC`, s.tableName)

	rows, err := s.db.QueryContext(ctx, stmt, string(s.entType))
	if err != nil {
		return nil, entitykiterrors.ErrStore.WithMessage("list entities").Wrap(err)
	}
	defer rows.Close()

	var out []entity.AnyEntity
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, entitykiterrors.ErrStore.WithMessage("scan entity row").Wrap(err)
		}
		e := s.newEntity()
		if err := json.Unmarshal(data, e); err != nil {
			return nil, entitykiterrors.ErrStore.WithMessage("unmarshal entity row").Wrap(err)
		}
		out = append(out, entity.Wrap(e))
	}
	if err := rows.Err(); err != nil {
		return nil, entitykiterrors.ErrStore.WithMessage("iterate entity rows").Wrap(err)
	}
	return out, nil
}

// Close closes the underlying connection pool.
func (s *Store[E]) Close() error { return s.db.Close() }
