package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
	"github.com/better-pagination/better-pagination/internal/view"
)

type stubLister struct {
	items []entries.Entry
	err   error
}

func (s stubLister) List(_ context.Context, req entries.ListEntriesRequest) ([]entries.Entry, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	if req.Offset >= len(s.items) {
		return []entries.Entry{}, len(s.items), nil
	}
	end := req.Offset + req.Limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[req.Offset:end], len(s.items), nil
}

func makeEntries(n int) []entries.Entry {
	out := make([]entries.Entry, n)
	for i := range out {
		out[i] = entries.Entry{
			Channel:   "blog",
			Title:     fmt.Sprintf("Post %02d", i+1),
			URLTitle:  fmt.Sprintf("post-%02d", i+1),
			Status:    entries.StatusOpen,
			EntryDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func newTestRouter(t *testing.T, lister EntryLister) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := view.NewEngine("en")
	require.NoError(t, err)
	ext, err := extension.New(extension.DefaultSettings(), engine, nil, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(extension.Middleware(ext))
	NewHandler(logger, lister, engine, ext, Config{DefaultLimit: 4, MaxLimit: 20}).MountRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestShowWithoutPaginateParam(t *testing.T) {
	router := newTestRouter(t, stubLister{items: makeEntries(10)})

	rec := get(t, router, "/rest/blog")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Post 01")
	assert.NotContains(t, body, "Post 05")
	assert.NotContains(t, body, `class="paginate"`)
	assert.NotContains(t, body, "{paginate}")
}

func TestShowPlacement(t *testing.T) {
	router := newTestRouter(t, stubLister{items: makeEntries(10)})

	cases := []struct {
		placement string
		count     int
		before    bool
	}{
		{placement: "top", count: 1, before: true},
		{placement: "bottom", count: 1, before: false},
		{placement: "both", count: 2, before: true},
		{placement: "", count: 1, before: false},
	}
	for _, tc := range cases {
		t.Run("placement="+tc.placement, func(t *testing.T) {
			body := get(t, router, "/rest/blog?paginate="+tc.placement+"&page=1").Body.String()

			assert.Equal(t, tc.count, strings.Count(body, `class="paginate"`))
			assert.Equal(t, tc.before, strings.Index(body, `class="paginate"`) < strings.Index(body, `class="entries"`))
			assert.Contains(t, body, "Post 05")
			assert.NotContains(t, body, "{paginate}")
			assert.Contains(t, body, `class="current">2</a>`)
		})
	}
}

func TestShowKeepsQueryInLinks(t *testing.T) {
	router := newTestRouter(t, stubLister{items: makeEntries(10)})

	body := get(t, router, "/rest/blog?paginate=bottom&limit=3").Body.String()
	assert.Contains(t, body, `href="/rest/blog?paginate=bottom&amp;limit=3&amp;page=1"`)
	assert.Contains(t, body, `>4</a>`)
}

func TestShowJSON(t *testing.T) {
	router := newTestRouter(t, stubLister{items: makeEntries(10)})

	rec := get(t, router, "/rest/blog?format=json&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Entries    []entries.Entry `json:"entries"`
		Total      int             `json:"total"`
		Pagination struct {
			TotalPages  int    `json:"total_pages"`
			CurrentPage int    `json:"current_page"`
			PreviousURL string `json:"previous_url"`
			NextURL     string `json:"next_url"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 10, resp.Total)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "Post 09", resp.Entries[0].Title)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, "/rest/blog?format=json&page=1", resp.Pagination.PreviousURL)
	assert.Empty(t, resp.Pagination.NextURL)
}

func TestShowListError(t *testing.T) {
	router := newTestRouter(t, stubLister{err: fmt.Errorf("%w: Channel failed max", httpx.ErrValidation)})

	rec := get(t, router, "/rest/blog")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}
