package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thromer/manage-google-one/internal/drive"
	"github.com/thromer/manage-google-one/internal/gapi"
)

// driveHeader is the fixed TSV header row. Column order is part of the
// output contract; downstream spreadsheets import it positionally.
const driveHeader = "Spaces\tCreatedTime\tQuotaBytesUsed\tSize\tID\tParent Folder ID\tName"

// driveRootID is the Drive alias for the account's root folder.
const driveRootID = "root"

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Recursively inventory Google Drive files as TSV",
		Long: `Recursively list Google Drive files, one tab-separated line per item on
standard output. Starts from --id or --name when given, otherwise from the
root folder. Folder cycles are detected and listed only once.`,
		Args: cobra.NoArgs,
		RunE: runDrive,
	}

	cmd.Flags().StringP("id", "i", "", "starting folder ID")
	cmd.Flags().StringP("name", "n", "", "starting top-level folder name")
	cmd.MarkFlagsMutuallyExclusive("id", "name")

	return cmd
}

func runDrive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := buildLogger()

	ts, err := driveTokenSource(ctx)
	if err != nil {
		return err
	}

	api := gapi.NewClient(drive.BaseURL, defaultHTTPClient(), ts, logger)
	api.SetRateLimit(cfg.RequestsPerSecond)

	client := drive.NewClient(api, logger)
	client.SetPageSize(cfg.DrivePageSize)

	startID, err := resolveStartFolder(ctx, cmd, client)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, driveHeader)

	walker := drive.NewWalker(client, driveItemWriter(out), logger)

	return walker.Walk(ctx, startID)
}

// resolveStartFolder picks the traversal root from --id, --name, or the
// drive root. A --name lookup with zero matches fails the command before
// any traversal starts.
func resolveStartFolder(ctx context.Context, cmd *cobra.Command, client *drive.Client) (string, error) {
	if id, _ := cmd.Flags().GetString("id"); id != "" {
		statusf("Using provided folder ID: %s\n", id)
		return id, nil
	}

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		statusf("Searching for folder: %s\n", name)

		id, err := client.FolderIDByName(ctx, name)
		if err != nil {
			return "", err
		}

		return id, nil
	}

	statusf("No folder ID or name provided. Starting from the root folder.\n")

	return driveRootID, nil
}

// driveItemWriter returns the per-item callback emitting one TSV row.
func driveItemWriter(w io.Writer) drive.ItemFunc {
	return func(f drive.File, parentID string) error {
		return writeRow(w,
			strings.Join(f.Spaces, ","),
			f.CreatedTime,
			f.QuotaBytesUsed,
			f.Size,
			f.ID,
			parentID,
			f.Name,
		)
	}
}
