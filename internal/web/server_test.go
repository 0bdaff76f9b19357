// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	i18n.Init("en")
	os.Exit(m.Run())
}

type testEnv struct {
	srv   *Server
	store *db.Store
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("db.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	if opts.LoginRatePerMinute == 0 {
		opts.LoginRatePerMinute = 6000
		opts.LoginBurst = 1000
	}
	srv, err := New(store, tokens, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return &testEnv{srv: srv, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rr, req)
	return rr
}

// register creates a user directly in the store with a hashed password.
func (e *testEnv) register(t *testing.T, username, password string) int64 {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	u, err := e.store.Users().InsertOne(context.Background(), username, hash)
	if err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}
	return u.ID
}

// login posts credentials and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/login", url.Values{"username": {username}, "password": {password}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login: no session cookie set")
	return nil
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBody(t *testing.T, rr *httptest.ResponseRecorder, code int, substr string) {
	t.Helper()
	if rr.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), substr) {
		t.Fatalf("expected body to contain %q, got:\n%s", substr, rr.Body.String())
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, nil, Options{}); err == nil {
		t.Fatalf("expected error without store and token manager")
	}
}

func TestIndex_Empty(t *testing.T) {
	e := newTestEnv(t, Options{})
	rr := e.do(t, http.MethodGet, "/", nil)
	expectBody(t, rr, http.StatusOK, "No posts yet.")
	if !strings.Contains(rr.Body.String(), "<footer>Scribe ") {
		t.Fatalf("expected version footer")
	}
	if rr.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestHealthzAndStatic(t *testing.T) {
	e := newTestEnv(t, Options{})
	expectBody(t, e.do(t, http.MethodGet, "/healthz", nil), http.StatusOK, `"status":"ok"`)
	expectBody(t, e.do(t, http.MethodGet, "/static/style.css", nil), http.StatusOK, "font-family")
	expectBody(t, e.do(t, http.MethodGet, "/no/such/page", nil), http.StatusNotFound, "Page not found.")
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t, Options{})

	rr := e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {"admin"}, "password": {"admin"}})
	expectRedirect(t, rr, "/auth/login")

	u, err := e.store.Users().SelectOne(context.Background(), db.UserByUsername("admin"))
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}
	if u.Password == "admin" || !auth.CheckPassword(u.Password, "admin") {
		t.Fatalf("expected a bcrypt hash to be stored, got %q", u.Password)
	}

	rr = e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {"admin"}, "password": {"x"}})
	expectBody(t, rr, http.StatusBadRequest, "Register admin already exist.")

	rr = e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {""}, "password": {"x"}})
	expectBody(t, rr, http.StatusBadRequest, "Missing required field username.")

	rr = e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {"bob"}, "password": {""}})
	expectBody(t, rr, http.StatusBadRequest, "Missing required field password.")
	if !strings.Contains(rr.Body.String(), `value="bob"`) {
		t.Fatalf("expected username to be kept in the form")
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	e := newTestEnv(t, Options{})
	long := strings.Repeat("p", auth.MaxPasswordBytes+1)

	rr := e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {"bob"}, "password": {long}})
	expectBody(t, rr, http.StatusBadRequest, "Password must be at most 72 bytes.")
	if !strings.Contains(rr.Body.String(), `value="bob"`) {
		t.Fatalf("expected username to be kept in the form")
	}
	if _, err := e.store.Users().SelectOne(context.Background(), db.UserByUsername("bob")); !db.IsNotFound(err, db.EntityUser) {
		t.Fatalf("expected no user to be stored, got %v", err)
	}

	// A blank username is still reported first.
	rr = e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {""}, "password": {long}})
	expectBody(t, rr, http.StatusBadRequest, "Missing required field username.")

	// The limit itself is accepted.
	rr = e.do(t, http.MethodPost, "/auth/register", url.Values{"username": {"carol"}, "password": {long[:auth.MaxPasswordBytes]}})
	expectRedirect(t, rr, "/auth/login")
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.register(t, "admin", "admin")

	rr := e.do(t, http.MethodPost, "/auth/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	expectBody(t, rr, http.StatusBadRequest, "Invalid username or password.")

	rr = e.do(t, http.MethodPost, "/auth/login", url.Values{"username": {"nobody"}, "password": {"admin"}})
	expectBody(t, rr, http.StatusBadRequest, "Invalid username or password.")

	cookie := e.login(t, "admin", "admin")
	if !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie")
	}

	rr = e.do(t, http.MethodGet, "/", nil, cookie)
	expectBody(t, rr, http.StatusOK, "admin")
	if !strings.Contains(rr.Body.String(), `href="/create"`) {
		t.Fatalf("expected logged in index to link to /create")
	}

	rr = e.do(t, http.MethodGet, "/auth/logout", nil, cookie)
	expectRedirect(t, rr, "/")
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected logout to clear the session cookie")
	}
}

func TestSession_InvalidOrStaleIsCleared(t *testing.T) {
	e := newTestEnv(t, Options{})

	rr := e.do(t, http.MethodGet, "/create", nil, &http.Cookie{Name: sessionCookie, Value: "garbage"})
	expectRedirect(t, rr, "/auth/login")

	// A valid token for a user that does not exist.
	tok, err := e.srv.tokens.Issue(999)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	rr = e.do(t, http.MethodGet, "/create", nil, &http.Cookie{Name: sessionCookie, Value: tok})
	expectRedirect(t, rr, "/auth/login")
	if len(rr.Result().Cookies()) == 0 {
		t.Fatalf("expected stale session cookie to be cleared")
	}
}

func TestCreatePost(t *testing.T) {
	e := newTestEnv(t, Options{})

	expectRedirect(t, e.do(t, http.MethodGet, "/create", nil), "/auth/login")
	expectRedirect(t, e.do(t, http.MethodPost, "/create", url.Values{"title": {"T"}, "body": {"B"}}), "/auth/login")

	e.register(t, "admin", "admin")
	cookie := e.login(t, "admin", "admin")

	expectBody(t, e.do(t, http.MethodGet, "/create", nil, cookie), http.StatusOK, "New Post")

	rr := e.do(t, http.MethodPost, "/create", url.Values{"title": {""}, "body": {"B"}}, cookie)
	expectBody(t, rr, http.StatusBadRequest, "Missing required field title.")

	rr = e.do(t, http.MethodPost, "/create", url.Values{"title": {"T"}, "body": {""}}, cookie)
	expectBody(t, rr, http.StatusBadRequest, "Missing required field body.")

	expectRedirect(t, e.do(t, http.MethodPost, "/create", url.Values{"title": {"first"}, "body": {"one"}}, cookie), "/")
	expectRedirect(t, e.do(t, http.MethodPost, "/create", url.Values{"title": {"second"}, "body": {"two"}}, cookie), "/")

	body := e.do(t, http.MethodGet, "/", nil).Body.String()
	i1, i2 := strings.Index(body, "first"), strings.Index(body, "second")
	if i1 < 0 || i2 < 0 || i2 > i1 {
		t.Fatalf("expected newest post first, got:\n%s", body)
	}
	if !strings.Contains(body, "by admin on") {
		t.Fatalf("expected author line, got:\n%s", body)
	}
}

func TestUpdateAndDeletePost(t *testing.T) {
	e := newTestEnv(t, Options{})
	ownerID := e.register(t, "owner", "pw")
	e.register(t, "other", "pw")
	owner := e.login(t, "owner", "pw")
	other := e.login(t, "other", "pw")

	p, err := e.store.Posts().InsertOne(context.Background(), "Title", "Body", ownerID)
	if err != nil {
		t.Fatalf("InsertOne failed: %v", err)
	}
	path := "/" + itoa(p.ID)

	expectRedirect(t, e.do(t, http.MethodGet, path+"/update", nil), "/auth/login")
	expectBody(t, e.do(t, http.MethodGet, path+"/update", nil, other), http.StatusForbidden, "Current user is not post owner.")
	expectBody(t, e.do(t, http.MethodPost, path+"/delete", nil, other), http.StatusForbidden, "Current user is not post owner.")
	expectBody(t, e.do(t, http.MethodGet, "/999/update", nil, owner), http.StatusNotFound, "Register post not found.")
	expectBody(t, e.do(t, http.MethodGet, "/abc/update", nil, owner), http.StatusNotFound, "Register post not found.")

	expectBody(t, e.do(t, http.MethodGet, path+"/update", nil, owner), http.StatusOK, `value="Title"`)

	rr := e.do(t, http.MethodPost, path+"/update", url.Values{"title": {""}, "body": {"Body"}}, owner)
	expectBody(t, rr, http.StatusBadRequest, "Missing required field title.")

	expectRedirect(t, e.do(t, http.MethodPost, path+"/update", url.Values{"title": {"New"}, "body": {"Body"}}, owner), "/")
	got, err := e.store.Posts().SelectOne(context.Background(), db.PostByID(p.ID))
	if err != nil {
		t.Fatalf("SelectOne failed: %v", err)
	}
	if got.Title != "New" || got.Body != "Body" || got.OwnerID != ownerID {
		t.Fatalf("unexpected post after update: %+v", got)
	}

	expectRedirect(t, e.do(t, http.MethodPost, path+"/delete", nil, owner), "/")
	if _, err := e.store.Posts().SelectOne(context.Background(), db.PostByID(p.ID)); !db.IsNotFound(err, db.EntityPost) {
		t.Fatalf("expected post to be deleted, got %v", err)
	}
	expectBody(t, e.do(t, http.MethodPost, path+"/delete", nil, owner), http.StatusNotFound, "Register post not found.")
}

func TestLoginRateLimit(t *testing.T) {
	e := newTestEnv(t, Options{LoginRatePerMinute: 0.001, LoginBurst: 2})
	form := url.Values{"username": {"x"}, "password": {"y"}}

	for i := 0; i < 2; i++ {
		if rr := e.do(t, http.MethodPost, "/auth/login", form); rr.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: expected 400, got %d", i, rr.Code)
		}
	}
	expectBody(t, e.do(t, http.MethodPost, "/auth/login", form), http.StatusTooManyRequests, "Too many attempts")

	// GET is never limited.
	if rr := e.do(t, http.MethodGet, "/auth/login", nil); rr.Code != http.StatusOK {
		t.Fatalf("expected GET to pass, got %d", rr.Code)
	}
}
