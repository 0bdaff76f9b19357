// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the SQLite specifics of the storage handle.
package db

import (
	"context"
	"fmt"
	"strings"
)

// sqliteParams are added to every SQLite DSN unless the DSN already sets
// the same option. Writers wait for the lock instead of failing with
// SQLITE_BUSY, and transactions take the write lock at BEGIN so a
// read-then-write transaction never needs a lock upgrade.
var sqliteParams = []struct{ marker, param string }{
	{"busy_timeout", "_pragma=busy_timeout(5000)"},
	{"foreign_keys", "_pragma=foreign_keys(1)"},
	{"_txlock", "_txlock=immediate"},
}

// sqliteDSN turns a plain path or file: URI into a DSN with the options in
// sqliteParams applied. Options the DSN already sets are kept as given.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.marker) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + p.param
		} else {
			dsn += "?" + p.param
		}
	}
	return dsn
}

// isPrivateMemoryDSN reports whether dsn names an in-memory database that is
// not shared between connections.
func isPrivateMemoryDSN(dsn string) bool {
	if !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
		return false
	}
	return !strings.Contains(dsn, "cache=shared")
}

func sqliteMaintenance(ctx context.Context, q rawQuerier) error {
	// PRAGMA optimize is advisory; a failure must not block VACUUM.
	if _, err := ExecRaw(ctx, q, "PRAGMA optimize;"); err != nil {
		dbLogf("db: sqlite optimize failed (ignored): %v", err)
	}
	if _, err := ExecRaw(ctx, q, "VACUUM;"); err != nil {
		return fmt.Errorf("sqlite vacuum failed: %w", err)
	}
	_, _ = ExecRaw(ctx, q, "PRAGMA wal_checkpoint(TRUNCATE);")

	var res string
	if err := QueryRawInto(ctx, q, &res, "PRAGMA integrity_check;"); err != nil {
		return fmt.Errorf("sqlite integrity_check failed: %w", err)
	}
	if res != "ok" {
		return fmt.Errorf("sqlite integrity_check failed: %s", res)
	}
	return nil
}
