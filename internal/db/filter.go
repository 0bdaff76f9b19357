// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/uptrace/bun"

// UserFilter selects users by equality. Nil fields are ignored; a row
// matches when every supplied field is equal.
type UserFilter struct {
	ID       *int64
	Username *string
}

// UserByID filters users by primary key.
func UserByID(id int64) UserFilter { return UserFilter{ID: &id} }

// UserByUsername filters users by their unique username.
func UserByUsername(username string) UserFilter { return UserFilter{Username: &username} }

func (f UserFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.ID != nil {
		q = q.Where("u.id = ?", *f.ID)
	}
	if f.Username != nil {
		q = q.Where("u.username = ?", *f.Username)
	}
	return q
}

// PostFilter selects posts by equality, with the same rules as UserFilter.
type PostFilter struct {
	ID      *int64
	OwnerID *int64
	Title   *string
}

// PostByID filters posts by primary key.
func PostByID(id int64) PostFilter { return PostFilter{ID: &id} }

// PostsByOwner filters posts owned by the given user id.
func PostsByOwner(ownerID int64) PostFilter { return PostFilter{OwnerID: &ownerID} }

func (f PostFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.ID != nil {
		q = q.Where("p.id = ?", *f.ID)
	}
	if f.OwnerID != nil {
		q = q.Where("p.owner_id = ?", *f.OwnerID)
	}
	if f.Title != nil {
		q = q.Where("p.title = ?", *f.Title)
	}
	return q
}

// PostChanges is a partial post update. Nil fields keep the current value.
type PostChanges struct {
	Title   *string
	Body    *string
	OwnerID *int64
}
