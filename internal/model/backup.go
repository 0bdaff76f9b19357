// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import "time"

// BackupSchemaVersion is written into every export and checked on restore.
const BackupSchemaVersion = 1

// BackupData is the full, id-preserving dump of the database used by
// `scribe backup` and `scribe restore`.
type BackupData struct {
	SchemaVersion int          `json:"schema_version"`
	CreatedAt     time.Time    `json:"created_at"`
	Users         []BackupUser `json:"users"`
	Posts         []BackupPost `json:"posts"`
}

// BackupUser is one row of the user table.
type BackupUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// BackupPost is one row of the post table.
type BackupPost struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
	OwnerID int64     `json:"owner_id"`
}
