// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db // import "github.com/toeirei/scribe/internal/db"

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// SQL drivers for the supported database types.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	//go:embed schema/*.sql
	embeddedSchema embed.FS
	// sqlOpenFunc allows tests to override database opening behavior.
	sqlOpenFunc = sql.Open
)

// SupportedTypes lists the accepted values for database.type.
var SupportedTypes = []string{"sqlite", "postgres", "mysql"}

// driverName maps a database type to the registered database/sql driver.
func driverName(dbType string) (string, error) {
	switch dbType {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		// The pgx stdlib registers driver name "pgx".
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database type: '%s'", dbType)
	}
}

// Open connects to the database described by dbType and dsn, applies pool
// settings, and guarantees the user/post schema exists.
func Open(dbType, dsn string) (*Store, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}
	if dbType == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(sqlDB, dbType, dsn)
	dbLogf("db: opened %s driver in %s", driver, time.Since(start))

	s := newStore(createBunDB(sqlDB, dbType), dbType)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	schemaStart := time.Now()
	if err := s.EnsureSchema(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	dbLogf("db: schema for %s ensured in %s", dbType, time.Since(schemaStart))
	return s, nil
}

// configurePool applies connection pool defaults. Values can be overridden
// via SCRIBE_DB_* environment variables.
func configurePool(sqlDB *sql.DB, dbType, dsn string) {
	const (
		defaultMaxOpenConns    = 25
		defaultMaxIdleConns    = 25
		defaultConnMaxLifetime = 5 * time.Minute
	)

	maxOpen := envInt("SCRIBE_DB_MAX_OPEN_CONNS", defaultMaxOpenConns)
	maxIdle := envInt("SCRIBE_DB_MAX_IDLE_CONNS", defaultMaxIdleConns)
	connMax := defaultConnMaxLifetime
	if n := envInt("SCRIBE_DB_CONN_MAX_LIFETIME_SECONDS", -1); n >= 0 {
		connMax = time.Duration(n) * time.Second
	}

	// A private in-memory SQLite database exists per connection; pin it to one.
	if dbType == "sqlite" && isPrivateMemoryDSN(dsn) {
		maxOpen = 1
		maxIdle = 1
		connMax = 0
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(connMax)
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// EnsureSchema creates the user and post tables when they do not exist yet.
// It is safe to call on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts, err := schemaStatements(s.dbType)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		// Schema DDL is plain SQL; run it on the raw pool so Bun does not
		// try to interpret placeholders.
		if _, err := s.bun.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// schemaStatements returns the embedded schema for dbType split into single
// statements. Comment lines are dropped.
func schemaStatements(dbType string) ([]string, error) {
	data, err := embeddedSchema.ReadFile("schema/" + dbType + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema embedded for %s: %w", dbType, err)
	}

	var b strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RunMaintenance performs engine-specific maintenance. For SQLite this runs
// PRAGMA optimize, VACUUM, a WAL checkpoint and an integrity check; for
// Postgres VACUUM ANALYZE; for MySQL OPTIMIZE TABLE on both tables.
func (s *Store) RunMaintenance(ctx context.Context) error {
	switch s.dbType {
	case "sqlite":
		return sqliteMaintenance(ctx, s.bun)
	case "postgres":
		return postgresMaintenance(ctx, s.bun.DB)
	case "mysql":
		return mysqlMaintenance(ctx, s.bun.DB)
	default:
		return fmt.Errorf("unsupported db type for maintenance: %s", s.dbType)
	}
}
