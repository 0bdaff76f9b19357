// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(60, 2) // one token per second
	now := time.Unix(1_700_000_000, 0)

	if !l.allow("a", now) || !l.allow("a", now) {
		t.Fatalf("expected burst of 2 to pass")
	}
	if l.allow("a", now) {
		t.Fatalf("expected third request to be limited")
	}
	if !l.allow("b", now) {
		t.Fatalf("expected other IPs to have their own bucket")
	}
	if !l.allow("a", now.Add(time.Second)) {
		t.Fatalf("expected a token to refill after one second")
	}

	// Idle buckets are swept.
	later := now.Add(time.Hour)
	l.allow("c", later)
	if _, ok := l.buckets["a"]; ok {
		t.Fatalf("expected idle bucket to be removed")
	}
}

func TestUserMessageAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		msg    string
		status int
	}{
		{&db.MissingRequiredFieldError{Field: db.FieldTitle}, "Missing required field title.", http.StatusBadRequest},
		{&db.AlreadyRegisteredError{Identifier: "admin"}, "Register admin already exist.", http.StatusBadRequest},
		{&db.RegisterNotFoundError{Entity: db.EntityPost}, "Register post not found.", http.StatusNotFound},
		{&db.RegisterNotFoundError{Entity: db.EntityUser}, "Register user not found.", http.StatusBadRequest},
		{errNotPostOwner, "Current user is not post owner.", http.StatusForbidden},
		{auth.ErrPasswordTooLong, "Password must be at most 72 bytes.", http.StatusBadRequest},
	}
	for _, tc := range cases {
		msg, ok := userMessage(tc.err)
		if !ok || msg != tc.msg {
			t.Fatalf("userMessage(%v) = %q, %v; want %q", tc.err, msg, ok, tc.msg)
		}
		if got := statusFor(tc.err); got != tc.status {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}

	if _, ok := userMessage(errors.New("disk on fire")); ok {
		t.Fatalf("unexpected errors must not be shown to users")
	}
	if statusFor(errors.New("x")) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown errors")
	}
}
