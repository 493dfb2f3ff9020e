package drive

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thromer/manage-google-one/internal/gapi"
)

// Lister is the one-page fetch the walker needs. *Client implements it.
type Lister interface {
	ListPage(ctx context.Context, query, pageToken string) (*Page, error)
}

// ItemFunc receives each discovered file together with the ID of the folder
// it was listed under. Returning an error skips that one item; the walk
// continues.
type ItemFunc func(f File, parentID string) error

// Walker enumerates a folder tree depth-first, one files.list page at a
// time. A visited set guards against reference cycles: a folder ID is never
// expanded twice in one walk.
//
// Errors are contained: a failed item callback skips only that item, and a
// page fetch failure (retries exhausted or a non-retryable status) abandons
// only the folder being listed. Siblings and already-emitted items are
// unaffected.
type Walker struct {
	lister  Lister
	onItem  ItemFunc
	logger  *slog.Logger
	visited map[string]struct{}
}

// NewWalker creates a Walker that invokes onItem for every discovered file.
func NewWalker(lister Lister, onItem ItemFunc, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Walker{
		lister:  lister,
		onItem:  onItem,
		logger:  logger,
		visited: make(map[string]struct{}),
	}
}

// Walk lists folderID and recurses into any child folders. The returned
// error is non-nil only for context cancellation; listing failures are
// logged and contained to their subtree.
func (w *Walker) Walk(ctx context.Context, folderID string) error {
	if _, seen := w.visited[folderID]; seen {
		w.logger.Warn("skipping already visited folder", slog.String("folder_id", folderID))
		return nil
	}

	w.visited[folderID] = struct{}{}

	w.logger.Info("listing folder", slog.String("folder_id", folderID))

	query := ChildrenQuery(folderID)
	pageToken := ""

	for {
		page, err := w.lister.ListPage(ctx, query, pageToken)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if errors.Is(err, gapi.ErrRetriesExhausted) {
				w.logger.Error("retries exhausted, abandoning folder",
					slog.String("folder_id", folderID),
					slog.String("error", err.Error()),
				)
			} else {
				w.logger.Error("unrecoverable error listing folder",
					slog.String("folder_id", folderID),
					slog.String("error", err.Error()),
				)
			}

			return nil
		}

		for i := range page.Files {
			if err := w.process(ctx, &page.Files[i], folderID); err != nil {
				return err
			}
		}

		if page.NextPageToken == "" {
			return nil
		}

		pageToken = page.NextPageToken
	}
}

// process emits one file and recurses if it is a folder. A callback error
// skips the item, including any recursion into it.
func (w *Walker) process(ctx context.Context, f *File, parentID string) error {
	if err := w.onItem(*f, parentID); err != nil {
		w.logger.Error("skipping item",
			slog.String("id", f.ID),
			slog.String("name", f.Name),
			slog.String("error", err.Error()),
		)

		return nil
	}

	if f.IsFolder() {
		return w.Walk(ctx, f.ID)
	}

	return nil
}
