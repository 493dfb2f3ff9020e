package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thromer/manage-google-one/internal/gapi"
	"github.com/thromer/manage-google-one/internal/photos"
)

// Fixed TSV header rows for photo search and album listings.
const (
	photosHeader = "mimeType\tcreationTime\tid\tmediaItemsCount\ttitle\tfilename"
	albumsHeader = "id\tmediaItemsCount\ttitle"
)

func newPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Inventory Google Photos media items as TSV",
		Long: `Search Google Photos media items, one tab-separated line per item on
standard output. Scope the search to an album with --album-id or
--album-name, or to a single day with --date.`,
		Args: cobra.NoArgs,
		RunE: runPhotos,
	}

	cmd.Flags().StringP("album-id", "i", "", "album ID")
	cmd.Flags().StringP("album-name", "n", "", "album name")
	cmd.Flags().StringP("date", "d", "", "creation date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("album-id", "album-name")

	cmd.AddCommand(newAlbumsCmd())

	return cmd
}

func newAlbumsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "albums",
		Short: "List Google Photos albums as TSV",
		Args:  cobra.NoArgs,
		RunE:  runAlbums,
	}
}

// photosClient builds an authenticated Photos client from the resolved config.
func photosClient(cmd *cobra.Command) (*photos.Client, error) {
	logger := buildLogger()

	ts, err := photosTokenSource(cmd.Context())
	if err != nil {
		return nil, err
	}

	api := gapi.NewClient(photos.BaseURL, defaultHTTPClient(), ts, logger)
	api.SetRateLimit(cfg.RequestsPerSecond)

	client := photos.NewClient(api, logger)
	client.SetPageSize(cfg.PhotosPageSize)

	return client, nil
}

func runPhotos(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, err := photosClient(cmd)
	if err != nil {
		return err
	}

	var filters *photos.Filters

	if date, _ := cmd.Flags().GetString("date"); date != "" {
		day, parseErr := time.Parse("2006-01-02", date)
		if parseErr != nil {
			return fmt.Errorf("parsing --date %q (want YYYY-MM-DD): %w", date, parseErr)
		}

		filters = photos.SingleDateFilter(day)
	}

	albumID, _ := cmd.Flags().GetString("album-id")

	if name, _ := cmd.Flags().GetString("album-name"); name != "" {
		statusf("Searching for album: %s\n", name)

		albumID, err = client.AlbumIDByName(ctx, name)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, photosHeader)

	return client.SearchAll(ctx, albumID, filters, func(m photos.MediaItem) error {
		return writeRow(out,
			m.MimeType,
			m.CreationTime(),
			m.ID,
			m.MediaItemsCount,
			m.Title,
			m.Filename,
		)
	})
}

func runAlbums(cmd *cobra.Command, _ []string) error {
	client, err := photosClient(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, albumsHeader)

	return client.EachAlbum(cmd.Context(), func(a photos.Album) error {
		return writeRow(out, a.ID, a.MediaItemsCount, a.Title)
	})
}
