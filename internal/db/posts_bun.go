// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/toeirei/scribe/internal/model"
	"github.com/uptrace/bun"
)

// PostRepository validates and persists posts. Owner checks go through the
// user lookups on the same transaction. Ownership of the caller is never
// checked here.
type PostRepository struct {
	store *Store
}

// InsertOne creates a post owned by ownerID.
func (r *PostRepository) InsertOne(ctx context.Context, title, body string, ownerID int64) (model.PostRecord, error) {
	var rec model.PostRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		owner, err := checkPostFields(ctx, tx, title, body, ownerID)
		if err != nil {
			return err
		}
		m := &PostModel{Title: title, Body: body, Created: now(), OwnerID: owner.ID}
		if _, err := tx.NewInsert().Model(m).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		rec = postModelToRecord(*m)
		rec.Username = owner.Username
		return nil
	})
	if err != nil {
		return model.PostRecord{}, err
	}
	dbLogf("db: created post #%d for user #%d", rec.ID, rec.OwnerID)
	return rec, nil
}

// SelectOne returns the first post matching f.
func (r *PostRepository) SelectOne(ctx context.Context, f PostFilter) (model.PostRecord, error) {
	var rec model.PostRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rec, err = selectPost(ctx, tx, f)
		return err
	})
	if err != nil {
		return model.PostRecord{}, err
	}
	return rec, nil
}

// SelectMany returns every post matching f ordered by id. An empty result is
// not an error.
func (r *PostRepository) SelectMany(ctx context.Context, f PostFilter) ([]model.PostRecord, error) {
	var out []model.PostRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var ms []PostModel
		if err := f.apply(tx.NewSelect().Model(&ms)).Relation("Owner").Order("p.id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to select posts: %w", err)
		}
		out = make([]model.PostRecord, 0, len(ms))
		for _, m := range ms {
			out = append(out, postModelToRecord(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SelectAll returns every post. Callers needing a display order sort the
// result themselves.
func (r *PostRepository) SelectAll(ctx context.Context) ([]model.PostRecord, error) {
	return r.SelectMany(ctx, PostFilter{})
}

// UpdateOne overwrites the supplied fields of post id. The merged values go
// through the same validation as InsertOne, including the owner lookup.
func (r *PostRepository) UpdateOne(ctx context.Context, id int64, changes PostChanges) (model.PostRecord, error) {
	var rec model.PostRecord
	err := r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		cur, err := selectPost(ctx, tx, PostByID(id))
		if err != nil {
			return err
		}
		title, body, ownerID := cur.Title, cur.Body, cur.OwnerID
		if changes.Title != nil {
			title = *changes.Title
		}
		if changes.Body != nil {
			body = *changes.Body
		}
		if changes.OwnerID != nil {
			ownerID = *changes.OwnerID
		}

		owner, err := checkPostFields(ctx, tx, title, body, ownerID)
		if err != nil {
			return err
		}
		m := &PostModel{ID: id, Title: title, Body: body, OwnerID: owner.ID}
		if _, err := tx.NewUpdate().Model(m).Column("title", "body", "owner_id").WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		rec = cur
		rec.Title, rec.Body, rec.OwnerID, rec.Username = title, body, owner.ID, owner.Username
		return nil
	})
	if err != nil {
		return model.PostRecord{}, err
	}
	dbLogf("db: updated post #%d", id)
	return rec, nil
}

// DeleteOne removes post id. Deleting a missing post is a no-op.
func (r *PostRepository) DeleteOne(ctx context.Context, id int64) error {
	return r.store.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*PostModel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			dbLogf("db: delete post #%d affected %d row(s)", id, n)
		}
		return nil
	})
}

// checkPostFields validates title and body, then resolves the owner.
func checkPostFields(ctx context.Context, idb bun.IDB, title, body string, ownerID int64) (UserModel, error) {
	if len(title) == 0 {
		return UserModel{}, missingField(FieldTitle)
	}
	if len(body) == 0 {
		return UserModel{}, missingField(FieldBody)
	}
	return lookupUser(ctx, idb, UserByID(ownerID))
}

func selectPost(ctx context.Context, idb bun.IDB, f PostFilter) (model.PostRecord, error) {
	var m PostModel
	if err := f.apply(idb.NewSelect().Model(&m)).Relation("Owner").Order("p.id ASC").Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PostRecord{}, notFound(EntityPost)
		}
		return model.PostRecord{}, fmt.Errorf("failed to select post: %w", err)
	}
	return postModelToRecord(m), nil
}
