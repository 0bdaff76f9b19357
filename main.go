// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Scribe.
//
// Usage:
//
//	go run . [flags]
//	./scribe serve
//
// See --help for the available commands.
package main

import (
	"os"

	"github.com/toeirei/scribe/internal/logging"
	"github.com/toeirei/scribe/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("scribe: %v", err)
		os.Exit(1)
	}
}
