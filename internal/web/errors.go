// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/logging"
)

// errNotPostOwner is raised when the current user does not own the post.
var errNotPostOwner = errors.New("current user is not post owner")

// userMessage translates a repository error into a localized message. ok is
// false for errors that are not meant for the user.
func userMessage(err error) (msg string, ok bool) {
	var (
		mf *db.MissingRequiredFieldError
		ar *db.AlreadyRegisteredError
		nf *db.RegisterNotFoundError
	)
	switch {
	case errors.As(err, &mf):
		return i18n.T("error.missing_required_field", i18n.T("field."+mf.Field)), true
	case errors.As(err, &ar):
		return i18n.T("error.already_registered", ar.Identifier), true
	case errors.As(err, &nf):
		return i18n.T("error.register_not_found", i18n.T("entity."+nf.Entity)), true
	case errors.Is(err, errNotPostOwner):
		return i18n.T("error.not_post_owner"), true
	case errors.Is(err, auth.ErrPasswordTooLong):
		return i18n.T("error.password_too_long", auth.MaxPasswordBytes), true
	}
	return "", false
}

// statusFor maps an error to the HTTP status of the error page.
func statusFor(err error) int {
	switch {
	case db.IsNotFound(err, db.EntityPost):
		return http.StatusNotFound
	case errors.Is(err, errNotPostOwner):
		return http.StatusForbidden
	case errors.Is(err, db.ErrMissingRequiredField), errors.Is(err, db.ErrAlreadyRegistered), errors.Is(err, db.ErrRegisterNotFound),
		errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail renders the error page for err. Unexpected errors are logged and
// shown with a generic message.
func (s *Server) fail(c *gin.Context, err error) {
	msg, ok := userMessage(err)
	if !ok {
		s.internalError(c, err)
		return
	}
	s.renderError(c, statusFor(err), msg)
}

func (s *Server) internalError(c *gin.Context, err error) {
	logging.Errorf("request %s %s (%s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), err)
	s.renderError(c, http.StatusInternalServerError, i18n.T("error.internal"))
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{
		"User":   currentUser(c),
		"Status": status,
		"Error":  msg,
	})
}
