// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/uptrace/bun"
)

// Store is the storage handle shared by the repositories. It owns the Bun
// connection pool; repositories hold no state of their own.
type Store struct {
	bun    *bun.DB
	dbType string

	users *UserRepository
	posts *PostRepository
}

func newStore(bdb *bun.DB, dbType string) *Store {
	s := &Store{bun: bdb, dbType: dbType}
	s.users = &UserRepository{store: s}
	s.posts = &PostRepository{store: s}
	return s
}

// Users returns the user repository bound to this handle.
func (s *Store) Users() *UserRepository { return s.users }

// Posts returns the post repository bound to this handle.
func (s *Store) Posts() *PostRepository { return s.posts }

// Type returns the configured database type ("sqlite", "postgres" or "mysql").
func (s *Store) Type() string { return s.dbType }

// Bun exposes the underlying Bun DB for tooling and tests.
func (s *Store) Bun() *bun.DB { return s.bun }

// WithTx runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.bun.RunInTx(ctx, nil, fn)
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.bun.Close()
}
