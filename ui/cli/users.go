// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/scribe/internal/auth"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Register a new user",
		Long: `Registers a new user. The password is read from --password, or prompted for
when stdin is a terminal, or read as the first line of stdin otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return errors.New(i18n.T("user.error_read_password", err))
				}
				password = p
			}
			hash, err := auth.HashPassword(password)
			if errors.Is(err, auth.ErrPasswordTooLong) {
				return fmt.Errorf("%s: %w", i18n.T("error.password_too_long", auth.MaxPasswordBytes), err)
			} else if err != nil {
				return err
			}

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			u, err := st.Users().InsertOne(cmd.Context(), args[0], hash)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("user.added", u.Username, u.ID))
			return nil
		},
	}
	addCmd.Flags().StringP("password", "p", "", "Password for the new user")

	showCmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user and the posts they own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			u, err := st.Users().SelectOne(cmd.Context(), db.UserByUsername(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, renderTable(
				[]string{i18n.T("user.header_id"), i18n.T("user.header_username"), i18n.T("user.header_posts")},
				[][]string{{strconv.FormatInt(u.ID, 10), u.Username, strconv.Itoa(len(u.Posts))}},
			))
			if len(u.Posts) > 0 {
				_, _ = fmt.Fprintln(out, renderPosts(u.Posts))
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, showCmd)
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line from
// the command's input otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), i18n.T("user.password_prompt"))
		b, err := term.ReadPassword(int(in.Fd()))
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
