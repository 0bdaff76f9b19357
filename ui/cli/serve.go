// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/logging"
	"github.com/toeirei/scribe/internal/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Long: `Opens the configured database, creates the schema if needed and serves the blog
over HTTP until interrupted (SIGINT/SIGTERM).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if appConfig.Server.SessionSecret == "" {
				logging.Warnf("%s", i18n.T("serve.random_secret"))
			}
			tokens, err := auth.NewTokenManager(appConfig.Server.SessionSecret, appConfig.Server.SessionTTL)
			if err != nil {
				return err
			}
			defer tokens.Close()

			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv, err := web.New(st, tokens, web.Options{
				LoginRatePerMinute: appConfig.Server.LoginRatePerMinute,
				LoginBurst:         appConfig.Server.LoginBurst,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, appConfig.Server.Addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	return cmd
}
