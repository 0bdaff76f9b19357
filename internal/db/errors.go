// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when attempting to insert a record that already exists.
var ErrDuplicate = errors.New("duplicate record")

// Sentinels for the three repository failure kinds. The typed errors below
// match them through errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrRegisterNotFound     = errors.New("register not found")
)

// Field and entity names carried by repository errors.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldTitle    = "title"
	FieldBody     = "body"

	EntityUser = "user"
	EntityPost = "post"
)

// MissingRequiredFieldError reports a blank required field.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %s", e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool { return target == ErrMissingRequiredField }

// AlreadyRegisteredError reports an identifier that is already taken.
type AlreadyRegisteredError struct {
	Identifier string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("register %s already exists", e.Identifier)
}

func (e *AlreadyRegisteredError) Is(target error) bool { return target == ErrAlreadyRegistered }

// RegisterNotFoundError reports a lookup that matched no row. Entity is
// EntityUser or EntityPost.
type RegisterNotFoundError struct {
	Entity string
}

func (e *RegisterNotFoundError) Error() string {
	return fmt.Sprintf("register %s not found", e.Entity)
}

func (e *RegisterNotFoundError) Is(target error) bool { return target == ErrRegisterNotFound }

func missingField(field string) error { return &MissingRequiredFieldError{Field: field} }

func notFound(entity string) error { return &RegisterNotFoundError{Entity: entity} }

// IsNotFound reports whether err is a RegisterNotFoundError for entity.
func IsNotFound(err error, entity string) bool {
	var nf *RegisterNotFoundError
	return errors.As(err, &nf) && nf.Entity == entity
}

// MapDBError inspects low-level driver errors and maps unique constraint
// violations to ErrDuplicate. Typed driver errors are checked first; the
// string match covers SQLite and wrapped errors.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrDuplicate
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
