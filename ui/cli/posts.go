// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/toeirei/scribe/internal/db"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/model"
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Inspect and remove posts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("owner")

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			var posts []model.PostRecord
			if owner != "" {
				u, err := st.Users().SelectOne(cmd.Context(), db.UserByUsername(owner))
				if err != nil {
					return err
				}
				posts, err = st.Posts().SelectMany(cmd.Context(), db.PostsByOwner(u.ID))
				if err != nil {
					return err
				}
			} else {
				posts, err = st.Posts().SelectAll(cmd.Context())
				if err != nil {
					return err
				}
			}

			if len(posts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("post.none"))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderPosts(posts))
			return nil
		},
	}
	listCmd.Flags().String("owner", "", "Only list posts of this username")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post (no error if it does not exist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return errors.New(i18n.T("post.invalid_id", args[0]))
			}

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.Posts().DeleteOne(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("post.deleted", id))
			return nil
		},
	}

	cmd.AddCommand(listCmd, deleteCmd)
	return cmd
}
