// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the MySQL specifics of the storage handle.
package db

import (
	"context"
	"database/sql"
	"fmt"
)

func mysqlMaintenance(ctx context.Context, sqlDB *sql.DB) error {
	var lastErr error
	for _, table := range []string{"`user`", "post"} {
		if _, err := sqlDB.ExecContext(ctx, "OPTIMIZE TABLE "+table); err != nil {
			// Non-fatal per table: remember the last error and continue.
			dbLogf("db: mysql optimize table %s failed: %v", table, err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return fmt.Errorf("mysql optimize encountered errors: %w", lastErr)
	}
	return nil
}
