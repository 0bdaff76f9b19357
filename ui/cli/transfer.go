// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/toeirei/scribe/internal/i18n"
	"github.com/toeirei/scribe/internal/model"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON backup of the database",
		Long: `Dumps all users and posts into a single Zstandard-compressed JSON file.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, a default filename 'scribe-backup-YYYY-MM-DD.json.zst' is used.

Examples:
  scribe backup
  scribe backup my-backup.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputFile string
			if len(args) == 0 {
				outputFile = fmt.Sprintf("scribe-backup-%s.json.zst", time.Now().Format("2006-01-02"))
			} else {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("backup.starting"))
			data, err := st.ExportBackup(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeCompressedBackup(outputFile, data); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("backup.success", outputFile))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <backup-file.zst>",
		Short: "Replace the database contents with a compressed JSON backup",
		Long: `Restores users and posts from a Zstandard-compressed JSON backup file.
WARNING: all existing users and posts are deleted first. This is not reversible.

Example:
  scribe restore ./scribe-backup-2026-10-19.json.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			yes, _ := cmd.Flags().GetBool("yes")

			data, err := readCompressedBackup(inputFile)
			if err != nil {
				return err
			}
			if data.SchemaVersion != model.BackupSchemaVersion {
				return errors.New(i18n.T("restore.schema_mismatch", data.SchemaVersion))
			}

			if !yes {
				answer := promptForConfirmation(cmd, i18n.T("restore.confirm"))
				if answer != "y" && answer != "yes" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.cancelled"))
					return nil
				}
			}

			st, err := openStore(appConfig)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.starting", inputFile))
			if err := st.ImportBackup(cmd.Context(), data); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("restore.success"))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// promptForConfirmation displays a prompt and reads a line from the command input.
func promptForConfirmation(cmd *cobra.Command, prompt string) string {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer))
}

// readCompressedBackup handles reading and decoding a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return decodeBackup(file)
}

func decodeBackup(r io.Reader) (*model.BackupData, error) {
	zstdReader, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &backupData, nil
}

// writeCompressedBackup streams the JSON encoding of data into a
// zstd-compressed file.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := encodeBackup(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func encodeBackup(w io.Writer, data *model.BackupData) error {
	zstdWriter, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		_ = zstdWriter.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zstdWriter.Close()
}
