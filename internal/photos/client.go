// Package photos is a minimal Google Photos Library v1 client covering the
// media item search and album listing surface the inventory needs.
package photos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/thromer/manage-google-one/internal/gapi"
)

// BaseURL is the Photos Library v1 REST endpoint root.
const BaseURL = "https://photoslibrary.googleapis.com/v1"

// Page size maxima per the Photos Library API.
const (
	DefaultSearchPageSize = 100
	albumsPageSize        = 50
)

// ErrAlbumNotFound is returned by AlbumIDByName when no album matches.
var ErrAlbumNotFound = errors.New("photos: album not found")

// Client wraps a gapi.Client with Photos Library calls.
type Client struct {
	api      *gapi.Client
	pageSize int
	logger   *slog.Logger
}

// NewClient creates a Photos client on top of the given API core.
func NewClient(api *gapi.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:      api,
		pageSize: DefaultSearchPageSize,
		logger:   logger,
	}
}

// SetPageSize overrides the search page size. Values outside 1..100 are
// ignored.
func (c *Client) SetPageSize(n int) {
	if n >= 1 && n <= DefaultSearchPageSize {
		c.pageSize = n
	}
}

// SearchPage fetches a single page of media items. The request's PageSize
// is filled in from the client when zero.
func (c *Client) SearchPage(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	if req.PageSize == 0 {
		req.PageSize = c.pageSize
	}

	var page SearchPage
	if err := c.api.PostJSON(ctx, "/mediaItems:search", req, &page); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched media item page",
		slog.Int("count", len(page.MediaItems)),
		slog.Bool("more", page.NextPageToken != ""),
	)

	return &page, nil
}

// SearchAll pages through every media item matching albumID and filters,
// invoking fn for each. An empty albumID with nil filters enumerates the
// whole library. The first error, from a fetch or from fn, stops the search.
func (c *Client) SearchAll(ctx context.Context, albumID string, filters *Filters, fn func(MediaItem) error) error {
	c.logger.Info("searching media items",
		slog.String("album_id", albumID),
		slog.Bool("filtered", filters != nil),
	)

	pageToken := ""
	total := 0

	for {
		page, err := c.SearchPage(ctx, SearchRequest{
			AlbumID:   albumID,
			PageToken: pageToken,
			Filters:   filters,
		})
		if err != nil {
			return err
		}

		for i := range page.MediaItems {
			if err := fn(page.MediaItems[i]); err != nil {
				return err
			}
		}

		total += len(page.MediaItems)

		if page.NextPageToken == "" {
			c.logger.Info("search complete", slog.Int("total_items", total))
			return nil
		}

		pageToken = page.NextPageToken
	}
}

// ListAlbumsPage fetches a single page of the user's albums.
func (c *Client) ListAlbumsPage(ctx context.Context, pageToken string) (*AlbumsPage, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(albumsPageSize))

	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page AlbumsPage
	if err := c.api.GetJSON(ctx, "/albums", params, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// EachAlbum pages through all albums, invoking fn for each.
func (c *Client) EachAlbum(ctx context.Context, fn func(Album) error) error {
	pageToken := ""

	for {
		page, err := c.ListAlbumsPage(ctx, pageToken)
		if err != nil {
			return err
		}

		for i := range page.Albums {
			if err := fn(page.Albums[i]); err != nil {
				return err
			}
		}

		if page.NextPageToken == "" {
			return nil
		}

		pageToken = page.NextPageToken
	}
}

// AlbumIDByName resolves an album title to its ID by paging through
// albums.list. Returns ErrAlbumNotFound if no album has that title.
func (c *Client) AlbumIDByName(ctx context.Context, title string) (string, error) {
	var found string

	errFound := errors.New("found")

	err := c.EachAlbum(ctx, func(a Album) error {
		if a.Title == title {
			found = a.ID
			return errFound
		}

		return nil
	})

	if errors.Is(err, errFound) {
		return found, nil
	}

	if err != nil {
		return "", fmt.Errorf("looking up album %q: %w", title, err)
	}

	return "", fmt.Errorf("album %q: %w", title, ErrAlbumNotFound)
}
