// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/toeirei/scribe/internal/model"
)

func TestExportImportBackup(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	a := mustInsertUser(t, src, "a", "ha")
	b := mustInsertUser(t, src, "b", "hb")
	p1 := mustInsertPost(t, src, "one", "1", a.ID)
	mustInsertPost(t, src, "two", "2", b.ID)

	backup, err := src.ExportBackup(ctx)
	if err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	if backup.SchemaVersion != model.BackupSchemaVersion {
		t.Fatalf("unexpected schema version %d", backup.SchemaVersion)
	}
	if len(backup.Users) != 2 || len(backup.Posts) != 2 {
		t.Fatalf("expected 2 users and 2 posts, got %d/%d", len(backup.Users), len(backup.Posts))
	}

	dst := newTestStore(t)
	mustInsertUser(t, dst, "stale", "x")
	if err := dst.ImportBackup(ctx, backup); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}

	if _, err := dst.Users().SelectOne(ctx, UserByUsername("stale")); err == nil {
		t.Fatalf("expected existing rows to be wiped")
	}
	got, err := dst.Posts().SelectOne(ctx, PostByID(p1.ID))
	if err != nil {
		t.Fatalf("SelectOne after import failed: %v", err)
	}
	if got.Title != "one" || got.Username != "a" || !got.Created.Equal(p1.Created) {
		t.Fatalf("unexpected imported post: %+v", got)
	}

	// New rows continue after the restored ids.
	c := mustInsertUser(t, dst, "c", "hc")
	if c.ID <= b.ID {
		t.Fatalf("expected new id above %d, got %d", b.ID, c.ID)
	}
}

func TestImportBackup_RejectsUnknownVersion(t *testing.T) {
	s := newTestStore(t)
	if err := s.ImportBackup(context.Background(), &model.BackupData{SchemaVersion: 99}); err == nil {
		t.Fatalf("expected error for unknown schema version")
	}
	if err := s.ImportBackup(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil backup")
	}
}

func TestImportBackup_RollsBackOnDanglingOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := mustInsertUser(t, s, "keep", "x")

	bad := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Users:         []model.BackupUser{{ID: 1, Username: "a", Password: "x"}},
		Posts:         []model.BackupPost{{ID: 1, Title: "t", Body: "b", OwnerID: 7}},
	}
	if err := s.ImportBackup(ctx, bad); err == nil {
		t.Fatalf("expected foreign key violation")
	}
	if _, err := s.Users().SelectOne(ctx, UserByID(u.ID)); err != nil {
		t.Fatalf("expected original data after rollback, got %v", err)
	}
}
