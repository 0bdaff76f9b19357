// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/model"
)

func (s *Server) index(c *gin.Context) {
	posts, err := s.store.Posts().SelectAll(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	// Newest first.
	slices.SortStableFunc(posts, func(a, b model.PostRecord) int {
		if n := b.Created.Compare(a.Created); n != 0 {
			return n
		}
		return cmp.Compare(b.ID, a.ID)
	})
	c.HTML(http.StatusOK, "index.html", gin.H{
		"User":  currentUser(c),
		"Posts": posts,
	})
}

func (s *Server) createForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", gin.H{"User": currentUser(c), "Title": "", "Body": ""})
}

func (s *Server) create(c *gin.Context) {
	user := currentUser(c)
	title := c.PostForm("title")
	body := c.PostForm("body")

	if _, err := s.store.Posts().InsertOne(c.Request.Context(), title, body, user.ID); err != nil {
		msg, ok := userMessage(err)
		if !ok {
			s.internalError(c, err)
			return
		}
		c.HTML(http.StatusBadRequest, "create.html", gin.H{
			"User":  user,
			"Error": msg,
			"Title": title,
			"Body":  body,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) updateForm(c *gin.Context) {
	post, ok := s.ownedPost(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "update.html", gin.H{
		"User":  currentUser(c),
		"Post":  post,
		"Title": post.Title,
		"Body":  post.Body,
	})
}

func (s *Server) update(c *gin.Context) {
	post, ok := s.ownedPost(c)
	if !ok {
		return
	}
	title := c.PostForm("title")
	body := c.PostForm("body")

	_, err := s.store.Posts().UpdateOne(c.Request.Context(), post.ID, db.PostChanges{Title: &title, Body: &body})
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			s.internalError(c, err)
			return
		}
		c.HTML(http.StatusBadRequest, "update.html", gin.H{
			"User":  currentUser(c),
			"Post":  post,
			"Error": msg,
			"Title": title,
			"Body":  body,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) deletePost(c *gin.Context) {
	post, ok := s.ownedPost(c)
	if !ok {
		return
	}
	if err := s.store.Posts().DeleteOne(c.Request.Context(), post.ID); err != nil {
		s.internalError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ownedPost loads the post named by the :id parameter and checks that the
// current user owns it. On failure the error page has been rendered.
func (s *Server) ownedPost(c *gin.Context) (model.PostRecord, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.fail(c, &db.RegisterNotFoundError{Entity: db.EntityPost})
		return model.PostRecord{}, false
	}
	post, err := s.store.Posts().SelectOne(c.Request.Context(), db.PostByID(id))
	if err != nil {
		s.fail(c, err)
		return model.PostRecord{}, false
	}
	if u := currentUser(c); u == nil || !post.OwnedBy(u.ID) {
		s.fail(c, errNotPostOwner)
		return model.PostRecord{}, false
	}
	return post, true
}
