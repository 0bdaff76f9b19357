// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Scribe using Cobra.
// It wires configuration, logging and i18n, then delegates to internal/db,
// internal/auth and internal/web. CLI code should remain thin.
package cli
