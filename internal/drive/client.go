// Package drive is a minimal Google Drive v3 client covering the files.list
// surface the inventory needs, plus the recursive folder walker.
package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/thromer/manage-google-one/internal/gapi"
)

// BaseURL is the Drive v3 REST endpoint root.
const BaseURL = "https://www.googleapis.com/drive/v3"

// DefaultPageSize is the files.list page size. 1000 is the Drive maximum.
const DefaultPageSize = 1000

// listFields limits files.list responses to the fields the inventory emits.
const listFields = "nextPageToken, files(id, name, mimeType, size, parents, createdTime, quotaBytesUsed, spaces)"

// ErrFolderNotFound is returned by FolderIDByName when no folder matches.
var ErrFolderNotFound = errors.New("drive: folder not found")

// Client wraps a gapi.Client with Drive v3 calls.
type Client struct {
	api      *gapi.Client
	pageSize int
	logger   *slog.Logger
}

// NewClient creates a Drive client on top of the given API core.
func NewClient(api *gapi.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:      api,
		pageSize: DefaultPageSize,
		logger:   logger,
	}
}

// SetPageSize overrides the files.list page size. Values outside 1..1000
// are ignored.
func (c *Client) SetPageSize(n int) {
	if n >= 1 && n <= DefaultPageSize {
		c.pageSize = n
	}
}

// ChildrenQuery returns the files.list query string selecting the live
// children of the given folder.
func ChildrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryTerm(folderID))
}

// escapeQueryTerm escapes backslashes and single quotes for interpolation
// into a Drive query string literal.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// ListPage fetches a single page of files matching query. An empty pageToken
// requests the first page; the returned Page carries the continuation token
// for the next one (empty at the end of the sequence).
func (c *Client) ListPage(ctx context.Context, query, pageToken string) (*Page, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", listFields)
	params.Set("pageSize", strconv.Itoa(c.pageSize))

	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page Page
	if err := c.api.GetJSON(ctx, "/files", params, &page); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched file page",
		slog.Int("count", len(page.Files)),
		slog.Bool("more", page.NextPageToken != ""),
	)

	return &page, nil
}

// FolderIDByName resolves a folder name to its ID. Returns ErrFolderNotFound
// if no live folder has that name. When several folders share the name, the
// first match wins.
func (c *Client) FolderIDByName(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("name='%s' and mimeType='%s' and trashed = false", escapeQueryTerm(name), FolderMimeType))
	params.Set("fields", "files(id, name)")
	params.Set("pageSize", "1")

	var page Page
	if err := c.api.GetJSON(ctx, "/files", params, &page); err != nil {
		return "", fmt.Errorf("looking up folder %q: %w", name, err)
	}

	if len(page.Files) == 0 {
		return "", fmt.Errorf("folder %q: %w", name, ErrFolderNotFound)
	}

	return page.Files[0].ID, nil
}
