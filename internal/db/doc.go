// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains Scribe's data-access layer.
//
// Storage handle
//   - `Open` connects to SQLite (default), PostgreSQL or MySQL, wraps the
//     connection in a Bun DB with the matching dialect and creates the
//     user/post schema when it is missing.
//   - `Store.WithTx` gives every logical operation its own transaction.
//
// Repositories
//   - `UserRepository` validates and registers users and looks them up with
//     an explicit `UserFilter`.
//   - `PostRepository` validates posts, resolves their owner through the user
//     lookup on the same transaction, and implements insert/select/update/delete.
//   - Both return plain `model.UserRecord` / `model.PostRecord` snapshots,
//     never the Bun models used for queries.
//
// Errors
//   - Validation and lookup failures are `*MissingRequiredFieldError`,
//     `*AlreadyRegisteredError` and `*RegisterNotFoundError`; each matches its
//     sentinel (`ErrMissingRequiredField`, ...) through errors.Is.
//   - Ownership of posts is not checked here; the request layer does that.
package db
