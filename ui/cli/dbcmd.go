// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/scribe/internal/i18n"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database administration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the user and post tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open already ensures the schema.
			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.init_success"))
			return nil
		},
	}

	maintainCmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run engine-specific database maintenance",
		Long: `Runs maintenance for the configured engine:
  sqlite    PRAGMA optimize, VACUUM, WAL checkpoint and integrity_check
  postgres  VACUUM ANALYZE
  mysql     OPTIMIZE TABLE on every table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout, _ := cmd.Flags().GetDuration("timeout")

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.maintain_starting", st.Type()))
			if err := st.RunMaintenance(ctx); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("db.maintain_success"))
			return nil
		},
	}
	maintainCmd.Flags().Duration("timeout", 0, "Abort maintenance after this duration (0 means no timeout)")

	cmd.AddCommand(initCmd, maintainCmd)
	return cmd
}
