// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/logging"
	"github.com/toeirei/scribe/internal/model"
	"golang.org/x/time/rate"
)

const (
	sessionCookie   = "scribe_session"
	userKey         = "scribe.user"
	requestIDKey    = "scribe.request_id"
	requestIDHeader = "X-Request-ID"
)

// requestLogger tags each request with an id and writes one access log line.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		logging.L.With("request_id", id).Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Errorf("panic serving %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), recovered)
		s.renderError(c, http.StatusInternalServerError, i18n.T("error.internal"))
	})
}

// loadSession resolves the session cookie to the current user. Invalid or
// stale sessions are cleared and the request continues anonymously.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(sessionCookie)
		if err != nil || tok == "" {
			c.Next()
			return
		}
		id, err := s.tokens.Parse(tok)
		if err != nil {
			logging.Debugf("session: %v", err)
			s.clearSession(c)
			c.Next()
			return
		}
		u, err := s.store.Users().SelectOne(c.Request.Context(), db.UserByID(id))
		if err != nil {
			if !db.IsNotFound(err, db.EntityUser) {
				s.internalError(c, err)
				c.Abort()
				return
			}
			s.clearSession(c)
			c.Next()
			return
		}
		c.Set(userKey, &u)
		c.Next()
	}
}

// currentUser returns the logged in user or nil.
func currentUser(c *gin.Context) *model.UserRecord {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.UserRecord); ok {
			return u
		}
	}
	return nil
}

func (s *Server) loginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusSeeOther, "/auth/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) startSession(c *gin.Context, userID int64) error {
	tok, err := s.tokens.Issue(userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, tok, int(s.tokens.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}

func (s *Server) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP(), time.Now()) {
			logging.Warnf("rate limit exceeded for %s on %s", c.ClientIP(), c.Request.URL.Path)
			s.renderError(c, http.StatusTooManyRequests, i18n.T("error.too_many_requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ipLimiter keeps one token bucket per client IP. Idle buckets are swept
// lazily.
type ipLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	idle     time.Duration
	buckets  map[string]*bucket
	lastScan time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newIPLimiter(perMinute float64, burst int) *ipLimiter {
	return &ipLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idle:    10 * time.Minute,
		buckets: make(map[string]*bucket),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastScan) > l.idle {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.lastScan = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}
