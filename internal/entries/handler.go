package entries

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/pagination"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
	"github.com/better-pagination/better-pagination/internal/view"
)

// HandlerConfig controls listing defaults.
type HandlerConfig struct {
	DefaultLimit int
	MaxLimit     int
	Placement    string
	OffsetName   string
}

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	provider  extension.Provider
	config    HandlerConfig
}

func NewHandler(
	logger *slog.Logger,
	service *Service,
	templates *view.Engine,
	provider extension.Provider,
	config HandlerConfig,
) *Handler {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = pagination.DefaultPerPage
	}
	if config.MaxLimit < config.DefaultLimit {
		config.MaxLimit = config.DefaultLimit
	}
	config.DefaultLimit = min(config.DefaultLimit, pagination.MaxPerPage)
	config.MaxLimit = min(config.MaxLimit, pagination.MaxPerPage)
	if config.Placement == "" {
		config.Placement = extension.PlacementBottom
	}
	if config.OffsetName == "" {
		config.OffsetName = extension.DefaultOffsetName
	}
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		provider:  provider,
		config:    config,
	}
}

type listPage struct {
	Channel     string
	Placement   string
	Paginate    template.HTML
	PageLinks   template.HTML
	Entries     []Entry
	CurrentPage int
	TotalPages  int
}

// List renders one page of a channel. The page comes from the offset
// global published by the pagination middleware.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	channel := chi.URLParam(r, "channel")
	params := TagParams(r, h.config)
	limit := params.Int("limit", h.config.DefaultLimit)

	tagdata, err := h.templates.TagPair("paginate")
	if err != nil {
		h.logger.Error("load paginate tag pair", slog.Any("error", err))
		http.Error(w, "Failed to load entries", http.StatusInternalServerError)
		return
	}
	pager := &extension.ChannelPagination{Params: params, Paginate: true, TemplateData: tagdata}
	h.provider.ChannelModuleCreatePagination(ctx, pager)

	page := pagination.ParseOffset(extension.GlobalsFrom(ctx)[h.config.OffsetName])
	items, total, err := h.service.List(ctx, ListEntriesRequest{
		Channel: channel,
		Limit:   limit,
		Offset:  pagination.RowOffset(page, limit),
	})
	if err != nil {
		if errors.Is(err, httpx.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("list entries failed", slog.String("channel", channel), slog.Any("error", err))
		http.Error(w, "Failed to load entries", http.StatusInternalServerError)
		return
	}

	if err := h.provider.ChannelEntriesQueryResult(ctx, total); err != nil {
		h.logger.Error("paginate entries failed", slog.String("channel", channel), slog.Any("error", err))
		http.Error(w, "Failed to paginate entries", http.StatusInternalServerError)
		return
	}

	data := listPage{
		Channel:     channel,
		Placement:   params["paginate"],
		Entries:     items,
		CurrentPage: page,
		TotalPages:  1,
	}
	// Only a filled pagination object carries rendered markup.
	if pager.TotalPages > 0 {
		data.Paginate = template.HTML(pager.TemplateData)
		data.PageLinks = template.HTML(pager.PageLinks)
		data.TotalPages = pager.TotalPages
	}

	h.render(w, r, "pages/entries.html", channel, data)
}

type createEntryPayload struct {
	Title     string    `json:"title"`
	URLTitle  string    `json:"url_title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	EntryDate time.Time `json:"entry_date"`
}

// Create publishes an entry from a JSON payload.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if payload.EntryDate.IsZero() {
		payload.EntryDate = time.Now().UTC()
	}
	entry, err := h.service.Create(r.Context(), CreateEntryRequest{
		Channel:   chi.URLParam(r, "channel"),
		Title:     payload.Title,
		URLTitle:  payload.URLTitle,
		Body:      payload.Body,
		Status:    payload.Status,
		EntryDate: payload.EntryDate,
	})
	if err != nil {
		h.logger.Warn("create entry failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	viewData := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Globals:     extension.GlobalsFrom(r.Context()),
		Data:        data,
	}
	if err := h.templates.Render(w, name, viewData); err != nil {
		h.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
	}
}

// TagParams derives the entries tag parameters from the request. limit and
// paginate may be overridden through the query string within bounds.
func TagParams(r *http.Request, config HandlerConfig) extension.TagParams {
	params := extension.TagParams{
		"limit":    strconv.Itoa(config.DefaultLimit),
		"paginate": config.Placement,
	}
	query := r.URL.Query()
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= min(config.MaxLimit, pagination.MaxPerPage) {
			params["limit"] = strconv.Itoa(parsed)
		}
	}
	switch p := query.Get("paginate"); p {
	case extension.PlacementTop, extension.PlacementBottom, extension.PlacementBoth:
		params["paginate"] = p
	}
	return params
}
