// Package rest serves a channel as a REST-style tag whose output gets
// pagination spliced in after rendering.
package rest

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/pagination"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
	"github.com/better-pagination/better-pagination/internal/view"
)

// EntryLister returns one page of a channel and its total.
type EntryLister interface {
	List(ctx context.Context, req entries.ListEntriesRequest) ([]entries.Entry, int, error)
}

// Config controls REST listing defaults.
type Config struct {
	DefaultLimit int
	MaxLimit     int
	OffsetName   string
}

type Handler struct {
	logger    *slog.Logger
	lister    EntryLister
	templates *view.Engine
	provider  extension.Provider
	config    Config
}

func NewHandler(logger *slog.Logger, lister EntryLister, templates *view.Engine, provider extension.Provider, config Config) *Handler {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = pagination.DefaultPerPage
	}
	if config.MaxLimit < config.DefaultLimit {
		config.MaxLimit = config.DefaultLimit
	}
	config.DefaultLimit = min(config.DefaultLimit, pagination.MaxPerPage)
	config.MaxLimit = min(config.MaxLimit, pagination.MaxPerPage)
	if config.OffsetName == "" {
		config.OffsetName = extension.DefaultOffsetName
	}
	return &Handler{logger: logger, lister: lister, templates: templates, provider: provider, config: config}
}

// MountRoutes registers REST endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/rest/{channel}", h.Show)
}

type jsonResponse struct {
	Channel    string             `json:"channel"`
	Entries    []entries.Entry    `json:"entries"`
	Total      int                `json:"total"`
	Pagination pagination.LinkSet `json:"pagination"`
}

type restPage struct {
	Channel string
	Body    template.HTML
}

// Show renders a channel page. Pagination is spliced into the output only
// when the paginate query parameter is present.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channel := chi.URLParam(r, "channel")
	params := h.tagParams(r)
	limit := params.Int("limit", h.config.DefaultLimit)
	page := pagination.ParseOffset(extension.GlobalsFrom(ctx)[h.config.OffsetName])

	items, total, err := h.lister.List(ctx, entries.ListEntriesRequest{
		Channel: channel,
		Limit:   limit,
		Offset:  pagination.RowOffset(page, limit),
	})
	if err != nil {
		h.logger.Error("rest list failed", slog.String("channel", channel), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	if err := h.provider.RESTResult(ctx, params, total); err != nil {
		h.logger.Error("rest result failed", slog.String("channel", channel), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		resp := jsonResponse{Channel: channel, Entries: items, Total: total}
		if st := extension.StateFrom(ctx); st != nil {
			resp.Pagination = st.Links
		}
		httpx.JSON(w, http.StatusOK, resp)
		return
	}

	tagdata, err := h.templates.Fragment("partials/entry_list.html", items)
	if err != nil {
		h.logger.Error("render entry list", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	var pair extension.TagPair
	if _, ok := params["paginate"]; ok {
		inner, err := h.templates.TagPair("paginate")
		if err != nil {
			h.logger.Error("load paginate tag pair", slog.Any("error", err))
			httpx.RespondError(w, r, err)
			return
		}
		pair = extension.TagPair{Outer: "{paginate}" + inner + "{/paginate}", Inner: inner}
		tagdata += pair.Outer
	}

	out, err := h.provider.RESTTagdataEnd(ctx, params, tagdata, pair)
	if err != nil {
		h.logger.Error("rest tagdata failed", slog.String("channel", channel), slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}

	viewData := view.TemplateData{
		Title:       channel,
		CurrentPath: r.URL.Path,
		Globals:     extension.GlobalsFrom(ctx),
		Data:        restPage{Channel: channel, Body: template.HTML(out)},
	}
	if err := h.templates.Render(w, "pages/rest.html", viewData); err != nil {
		h.logger.Error("render template", slog.String("template", "pages/rest.html"), slog.Any("error", err))
	}
}

func (h *Handler) tagParams(r *http.Request) extension.TagParams {
	query := r.URL.Query()
	params := extension.TagParams{"limit": strconv.Itoa(h.config.DefaultLimit)}
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= h.config.MaxLimit {
			params["limit"] = strconv.Itoa(parsed)
		}
	}
	if query.Has("paginate") {
		params["paginate"] = query.Get("paginate")
	}
	return params
}
