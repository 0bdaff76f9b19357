// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// rawQuerier is satisfied by *bun.DB, bun.Tx and bun.Conn.
type rawQuerier interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

// ExecRaw executes a raw statement. Bun placeholders such as `?` and
// bun.Ident are expanded before the statement reaches the driver.
func ExecRaw(ctx context.Context, q rawQuerier, query string, args ...any) (sql.Result, error) {
	return q.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the result into dest.
func QueryRawInto(ctx context.Context, q rawQuerier, dest any, query string, args ...any) error {
	return q.NewRaw(query, args...).Scan(ctx, dest)
}

// execEach runs stmts in order and stops at the first failure.
func execEach(ctx context.Context, q rawQuerier, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := ExecRaw(ctx, q, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}
