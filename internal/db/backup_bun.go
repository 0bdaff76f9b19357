// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/toeirei/scribe/internal/model"
	"github.com/uptrace/bun"
)

// ExportBackup reads every user and post into a model.BackupData inside a
// single transaction.
func (s *Store) ExportBackup(ctx context.Context) (*model.BackupData, error) {
	var backup *model.BackupData
	err := s.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{
			SchemaVersion: model.BackupSchemaVersion,
			CreatedAt:     time.Now().UTC(),
			Users:         []model.BackupUser{},
			Posts:         []model.BackupPost{},
		}

		var users []UserModel
		if err := tx.NewSelect().Model(&users).Order("u.id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to export users: %w", err)
		}
		for _, u := range users {
			backup.Users = append(backup.Users, model.BackupUser{ID: u.ID, Username: u.Username, Password: u.Password})
		}

		var posts []PostModel
		if err := tx.NewSelect().Model(&posts).Order("p.id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to export posts: %w", err)
		}
		for _, p := range posts {
			backup.Posts = append(backup.Posts, model.BackupPost{ID: p.ID, Title: p.Title, Body: p.Body, Created: p.Created, OwnerID: p.OwnerID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// ImportBackup performs a full wipe-and-replace of users and posts. Ids are
// preserved. Any failure rolls the whole import back.
func (s *Store) ImportBackup(ctx context.Context, backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("no backup data")
	}
	if backup.SchemaVersion != model.BackupSchemaVersion {
		return fmt.Errorf("unsupported backup schema version %d (want %d)", backup.SchemaVersion, model.BackupSchemaVersion)
	}

	return s.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		// Wipe tables, children first.
		for _, t := range []string{"post", "user"} {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM ?", bun.Ident(t)); err != nil {
				return fmt.Errorf("failed to wipe %s: %w", t, err)
			}
		}

		if len(backup.Users) > 0 {
			users := make([]UserModel, 0, len(backup.Users))
			for _, u := range backup.Users {
				users = append(users, UserModel{ID: u.ID, Username: u.Username, Password: u.Password})
			}
			if _, err := tx.NewInsert().Model(&users).Exec(ctx); err != nil {
				return fmt.Errorf("failed to restore users: %w", MapDBError(err))
			}
		}

		if len(backup.Posts) > 0 {
			posts := make([]PostModel, 0, len(backup.Posts))
			for _, p := range backup.Posts {
				posts = append(posts, PostModel{ID: p.ID, Title: p.Title, Body: p.Body, Created: p.Created.UTC(), OwnerID: p.OwnerID})
			}
			if _, err := tx.NewInsert().Model(&posts).Exec(ctx); err != nil {
				return fmt.Errorf("failed to restore posts: %w", MapDBError(err))
			}
		}

		if s.dbType == "postgres" {
			return postgresResyncSequences(ctx, tx)
		}
		return nil
	})
}
