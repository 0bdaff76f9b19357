// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/toeirei/scribe/internal/model"
	"github.com/uptrace/bun"
)

// UserModel maps the `user` table for Bun queries.
type UserModel struct {
	bun.BaseModel `bun:"table:user,alias:u"`
	ID            int64        `bun:"id,pk,autoincrement"`
	Username      string       `bun:"username,notnull"`
	Password      string       `bun:"password,notnull"`
	Posts         []*PostModel `bun:"rel:has-many,join:id=owner_id"`
}

// PostModel maps the `post` table for Bun queries.
type PostModel struct {
	bun.BaseModel `bun:"table:post,alias:p"`
	ID            int64      `bun:"id,pk,autoincrement"`
	Title         string     `bun:"title,notnull"`
	Body          string     `bun:"body,notnull"`
	Created       time.Time  `bun:"created,notnull"`
	OwnerID       int64      `bun:"owner_id,notnull"`
	Owner         *UserModel `bun:"rel:belongs-to,join:owner_id=id"`
}

// userModelToRecord converts a user row and its loaded posts into a plain
// record. Posts is never nil.
func userModelToRecord(m UserModel) model.UserRecord {
	rec := model.UserRecord{
		ID:       m.ID,
		Username: m.Username,
		Password: m.Password,
		Posts:    make([]model.PostRecord, 0, len(m.Posts)),
	}
	for _, p := range m.Posts {
		pr := postModelToRecord(*p)
		pr.Username = m.Username
		rec.Posts = append(rec.Posts, pr)
	}
	return rec
}

func postModelToRecord(m PostModel) model.PostRecord {
	rec := model.PostRecord{
		ID:      m.ID,
		Title:   m.Title,
		Body:    m.Body,
		Created: m.Created,
		OwnerID: m.OwnerID,
	}
	if m.Owner != nil {
		rec.Username = m.Owner.Username
	}
	return rec
}

// now returns the creation timestamp for new posts, truncated to the
// microsecond precision every supported engine stores.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
