// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the PostgreSQL specifics of the storage handle.
package db

import (
	"context"
	"database/sql"
	"fmt"
)

func postgresMaintenance(ctx context.Context, sqlDB *sql.DB) error {
	if _, err := sqlDB.ExecContext(ctx, "VACUUM ANALYZE;"); err != nil {
		return fmt.Errorf("postgres vacuum failed: %w", err)
	}
	return nil
}

// postgresResyncSequences moves the BIGSERIAL sequences past the highest id
// after rows were inserted with explicit ids (restore).
func postgresResyncSequences(ctx context.Context, q rawQuerier) error {
	var stmts []string
	for _, table := range []string{`"user"`, "post"} {
		stmts = append(stmts, fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table))
	}
	if err := execEach(ctx, q, stmts...); err != nil {
		return fmt.Errorf("failed to resync sequences: %w", err)
	}
	return nil
}
