// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toeirei/scribe/internal/model"
	"github.com/uptrace/bun"
)

// UserRepository validates and persists users. It holds no state beyond the
// store it is bound to; every call runs in its own transaction.
type UserRepository struct {
	store *Store
}

// InsertOne registers a new user. username and password must be non-empty
// and username must not be taken. password is expected to be hashed already.
func (r *UserRepository) InsertOne(ctx context.Context, username, password string) (model.UserRecord, error) {
	var rec model.UserRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := checkUserInsert(ctx, tx, username, password); err != nil {
			return err
		}
		var err error
		rec, err = insertUser(ctx, tx, username, password)
		return err
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	dbLogf("db: registered user %q as #%d", rec.Username, rec.ID)
	return rec, nil
}

// SelectOne returns the first user matching f together with the posts it owns.
func (r *UserRepository) SelectOne(ctx context.Context, f UserFilter) (model.UserRecord, error) {
	var rec model.UserRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rec, err = selectUser(ctx, tx, f)
		return err
	})
	if err != nil {
		return model.UserRecord{}, err
	}
	return rec, nil
}

func checkUserInsert(ctx context.Context, idb bun.IDB, username, password string) error {
	if len(username) == 0 {
		return missingField(FieldUsername)
	}
	if len(password) == 0 {
		return missingField(FieldPassword)
	}
	_, err := lookupUser(ctx, idb, UserByUsername(username))
	switch {
	case err == nil:
		return &AlreadyRegisteredError{Identifier: username}
	case IsNotFound(err, EntityUser):
		return nil
	default:
		return err
	}
}

// insertUser writes the row without the uniqueness probe. A concurrent
// registration that slipped past the probe is caught by the UNIQUE constraint.
func insertUser(ctx context.Context, idb bun.IDB, username, password string) (model.UserRecord, error) {
	m := &UserModel{Username: username, Password: password}
	if _, err := idb.NewInsert().Model(m).Exec(ctx); err != nil {
		if errors.Is(MapDBError(err), ErrDuplicate) {
			return model.UserRecord{}, &AlreadyRegisteredError{Identifier: username}
		}
		return model.UserRecord{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return userModelToRecord(*m), nil
}

// selectUser loads the first matching user including owned posts.
func selectUser(ctx context.Context, idb bun.IDB, f UserFilter) (model.UserRecord, error) {
	var m UserModel
	q := f.apply(idb.NewSelect().Model(&m)).
		Relation("Posts", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("p.id ASC")
		}).
		Order("u.id ASC").
		Limit(1)
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserRecord{}, notFound(EntityUser)
		}
		return model.UserRecord{}, fmt.Errorf("failed to select user: %w", err)
	}
	return userModelToRecord(m), nil
}

// lookupUser resolves a user without loading its posts. Used for existence
// and ownership checks.
func lookupUser(ctx context.Context, idb bun.IDB, f UserFilter) (UserModel, error) {
	var m UserModel
	if err := f.apply(idb.NewSelect().Model(&m)).Order("u.id ASC").Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserModel{}, notFound(EntityUser)
		}
		return UserModel{}, fmt.Errorf("failed to look up user: %w", err)
	}
	return m, nil
}
