package photos

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thromer/manage-google-one/internal/gapi"
)

type staticToken string

func (t staticToken) Token() (string, error) {
	return string(t), nil
}

func newTestPhotosClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := gapi.NewClient(srv.URL, http.DefaultClient, staticToken("tok"), slog.Default())

	return NewClient(api, slog.Default())
}

func TestSearchAll_Pagination(t *testing.T) {
	var bodies []SearchRequest

	client := newTestPhotosClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mediaItems:search", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		bodies = append(bodies, req)

		switch req.PageToken {
		case "":
			_, _ = w.Write([]byte(`{
				"mediaItems": [
					{"id": "m1", "mimeType": "image/jpeg", "filename": "a.jpg",
					 "mediaMetadata": {"creationTime": "2024-06-01T10:00:00Z"}},
					{"id": "m2", "mimeType": "video/mp4", "filename": "b.mp4"}
				],
				"nextPageToken": "page-2"
			}`))
		case "page-2":
			_, _ = w.Write([]byte(`{"mediaItems": [{"id": "m3", "filename": "c.jpg"}]}`))
		default:
			t.Fatalf("unexpected page token %q", req.PageToken)
		}
	}))

	var got []string
	err := client.SearchAll(context.Background(), "album-1", nil, func(m MediaItem) error {
		got = append(got, m.ID)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"m1", "m2", "m3"}, got)

	require.Len(t, bodies, 2)
	assert.Equal(t, "album-1", bodies[0].AlbumID)
	assert.Equal(t, DefaultSearchPageSize, bodies[0].PageSize)
	assert.Empty(t, bodies[0].PageToken)
	assert.Equal(t, "page-2", bodies[1].PageToken)
}

func TestSearchAll_FetchErrorStopsSearch(t *testing.T) {
	var calls int

	client := newTestPhotosClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "bad filter", http.StatusBadRequest)
	}))

	err := client.SearchAll(context.Background(), "", nil, func(MediaItem) error {
		t.Fatal("no items expected")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, gapi.ErrBadRequest)
	assert.Equal(t, 1, calls)
}

func TestMediaItem_CreationTime(t *testing.T) {
	withMeta := MediaItem{MediaMetadata: &MediaMetadata{CreationTime: "2024-06-01T10:00:00Z"}}
	assert.Equal(t, "2024-06-01T10:00:00Z", withMeta.CreationTime())

	var bare MediaItem
	assert.Empty(t, bare.CreationTime())
}

func TestSingleDateFilter(t *testing.T) {
	day := time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC)

	f := SingleDateFilter(day)

	require.NotNil(t, f.DateFilter)
	require.Len(t, f.DateFilter.Dates, 1)
	assert.Equal(t, Date{Year: 2023, Month: 11, Day: 5}, f.DateFilter.Dates[0])

	body, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateFilter":{"dates":[{"year":2023,"month":11,"day":5}]}}`, string(body))
}

func TestAlbumIDByName_FoundOnSecondPage(t *testing.T) {
	client := newTestPhotosClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/albums", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))

		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{
				"albums": [{"id": "a1", "title": "Summer", "mediaItemsCount": "10"}],
				"nextPageToken": "page-2"
			}`))
			return
		}

		_, _ = w.Write([]byte(`{"albums": [{"id": "a2", "title": "Winter", "mediaItemsCount": "3"}]}`))
	}))

	id, err := client.AlbumIDByName(context.Background(), "Winter")
	require.NoError(t, err)
	assert.Equal(t, "a2", id)
}

func TestAlbumIDByName_NotFound(t *testing.T) {
	client := newTestPhotosClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"albums": [{"id": "a1", "title": "Summer"}]}`))
	}))

	_, err := client.AlbumIDByName(context.Background(), "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestEachAlbum_CallbackErrorStops(t *testing.T) {
	client := newTestPhotosClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"albums": [{"id": "a1", "title": "One"}, {"id": "a2", "title": "Two"}],
			"nextPageToken": "never-fetched"
		}`))
	}))

	var seen int
	err := client.EachAlbum(context.Background(), func(Album) error {
		seen++
		return context.Canceled
	})
	require.Error(t, err)
	assert.Equal(t, 1, seen)
}
