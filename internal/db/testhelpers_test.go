// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/scribe/internal/model"
)

// newTestStore opens a private in-memory sqlite Store that is closed when
// the test ends.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustInsertUser(t *testing.T, s *Store, username, password string) model.UserRecord {
	t.Helper()
	u, err := s.Users().InsertOne(context.Background(), username, password)
	if err != nil {
		t.Fatalf("InsertOne(%q) failed: %v", username, err)
	}
	return u
}

func mustInsertPost(t *testing.T, s *Store, title, body string, ownerID int64) model.PostRecord {
	t.Helper()
	p, err := s.Posts().InsertOne(context.Background(), title, body, ownerID)
	if err != nil {
		t.Fatalf("InsertOne(%q) failed: %v", title, err)
	}
	return p
}

func expectMissingField(t *testing.T, err error, field string) {
	t.Helper()
	var mf *MissingRequiredFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if mf.Field != field {
		t.Fatalf("expected missing field %q, got %q", field, mf.Field)
	}
}

func expectNotFound(t *testing.T, err error, entity string) {
	t.Helper()
	if !errors.Is(err, ErrRegisterNotFound) {
		t.Fatalf("expected ErrRegisterNotFound, got %v", err)
	}
	if !IsNotFound(err, entity) {
		t.Fatalf("expected %s not found, got %v", entity, err)
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64  { return &n }
