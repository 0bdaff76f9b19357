// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the plain record types handed out by the data-access
// layer. Records are snapshots: mutating one never touches the database.
package model // import "github.com/toeirei/scribe/internal/model"

import (
	"fmt"
	"time"
)

// UserRecord is a snapshot of a registered user together with the posts they own.
// Password holds the stored hash, never the plain text.
type UserRecord struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Password string       `json:"password"`
	Posts    []PostRecord `json:"posts"`
}

// String returns the username, which is unique across all users.
func (u UserRecord) String() string {
	return u.Username
}

// PostRecord is a snapshot of a post. Username is the owner's username,
// resolved at read time.
type PostRecord struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created"`
	OwnerID  int64     `json:"owner_id"`
	Username string    `json:"username"`
}

// String returns a short "#id title (by owner)" label.
func (p PostRecord) String() string {
	return fmt.Sprintf("#%d %s (by %s)", p.ID, p.Title, p.Username)
}

// OwnedBy reports whether the post belongs to the given user id.
func (p PostRecord) OwnedBy(userID int64) bool {
	return p.OwnerID == userID
}
