// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/logging"
	"github.com/toeirei/scribe/internal/model"
)

func (s *Server) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"User": currentUser(c), "Username": ""})
}

func (s *Server) register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u, err := s.registerUser(c, username, password)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			s.internalError(c, err)
			return
		}
		c.HTML(statusFor(err), "register.html", gin.H{
			"User":     currentUser(c),
			"Error":    msg,
			"Username": username,
		})
		return
	}
	logging.Infof("registered user %q (#%d)", u.Username, u.ID)
	c.Redirect(http.StatusSeeOther, "/auth/login")
}

// registerUser hashes the password and stores the user. A blank username is
// reported before any password problem.
func (s *Server) registerUser(c *gin.Context, username, password string) (model.UserRecord, error) {
	if username == "" {
		return s.store.Users().InsertOne(c.Request.Context(), username, password)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.UserRecord{}, err
	}
	return s.store.Users().InsertOne(c.Request.Context(), username, hash)
}

func (s *Server) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"User": currentUser(c), "Username": ""})
}

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u, err := s.store.Users().SelectOne(c.Request.Context(), db.UserByUsername(username))
	if err != nil && !db.IsNotFound(err, db.EntityUser) {
		s.internalError(c, err)
		return
	}
	// Unknown user and wrong password are reported the same way.
	if err != nil || !auth.CheckPassword(u.Password, password) {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"User":     currentUser(c),
			"Error":    i18n.T("error.invalid_credentials"),
			"Username": username,
		})
		return
	}

	if err := s.startSession(c, u.ID); err != nil {
		s.internalError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	s.clearSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}
