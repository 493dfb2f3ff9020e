package photos

import "time"

// MediaItem is a Photos Library media item, limited to the fields the
// inventory emits. mediaItemsCount only appears on album-like results and
// is usually empty.
type MediaItem struct {
	ID              string         `json:"id"`
	MimeType        string         `json:"mimeType"`
	Title           string         `json:"title"`
	Filename        string         `json:"filename"`
	MediaItemsCount string         `json:"mediaItemsCount"`
	MediaMetadata   *MediaMetadata `json:"mediaMetadata"`
}

// CreationTime returns the metadata creation time, or "" when absent.
func (m *MediaItem) CreationTime() string {
	if m.MediaMetadata == nil {
		return ""
	}

	return m.MediaMetadata.CreationTime
}

// MediaMetadata is the nested metadata block of a media item.
type MediaMetadata struct {
	CreationTime string `json:"creationTime"`
	Width        string `json:"width"`
	Height       string `json:"height"`
}

// Album is a Photos Library album.
type Album struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	MediaItemsCount string `json:"mediaItemsCount"`
}

// SearchRequest is the body of a mediaItems:search call.
type SearchRequest struct {
	AlbumID   string   `json:"albumId,omitempty"`
	PageSize  int      `json:"pageSize,omitempty"`
	PageToken string   `json:"pageToken,omitempty"`
	Filters   *Filters `json:"filters,omitempty"`
}

// Filters narrows a media item search. The API rejects filters combined
// with an album ID, matching its own documented restriction.
type Filters struct {
	DateFilter *DateFilter `json:"dateFilter,omitempty"`
}

// DateFilter matches media items by creation date.
type DateFilter struct {
	Dates []Date `json:"dates,omitempty"`
}

// Date is a Photos API calendar date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// SingleDateFilter returns a filter matching items created on the given day.
func SingleDateFilter(t time.Time) *Filters {
	return &Filters{
		DateFilter: &DateFilter{
			Dates: []Date{{
				Year:  t.Year(),
				Month: int(t.Month()),
				Day:   t.Day(),
			}},
		},
	}
}

// SearchPage is one page of a mediaItems:search response.
type SearchPage struct {
	MediaItems    []MediaItem `json:"mediaItems"`
	NextPageToken string      `json:"nextPageToken"`
}

// AlbumsPage is one page of an albums.list response.
type AlbumsPage struct {
	Albums        []Album `json:"albums"`
	NextPageToken string  `json:"nextPageToken"`
}
