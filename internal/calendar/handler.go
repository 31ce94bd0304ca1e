package calendar

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/pagination"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
	"github.com/better-pagination/better-pagination/internal/view"
)

// HandlerConfig controls calendar listing defaults.
type HandlerConfig struct {
	DefaultLimit int
	EventLimit   int
	MaxLimit     int
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
	config.EventLimit = min(config.EventLimit, config.MaxLimit)
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

type eventsPage struct {
	Calendar        string
	Events          []Event
	Paginate        template.HTML
	PaginationLinks template.HTML
}

// List renders one page of a calendar. event_limit takes precedence over
// limit as the page size.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	name := query.Get("calendar")
	if name == "" {
		name = DefaultCalendar
	}
	var from time.Time
	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = parsed
	}

	params := h.tagParams(r)
	perPage := params.Int("event_limit", params.Int("limit", h.config.DefaultLimit))
	page := pagination.ParseOffset(extension.GlobalsFrom(ctx)[h.config.OffsetName])

	events, total, err := h.service.List(ctx, ListEventsRequest{
		Calendar: name,
		From:     from,
		Limit:    perPage,
		Offset:   pagination.RowOffset(page, perPage),
	})
	if err != nil {
		if errors.Is(err, httpx.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("list events failed", slog.String("calendar", name), slog.Any("error", err))
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	pages, err := pagination.TotalPages(total, perPage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tagdata, err := h.templates.TagPair("calendar_paginate")
	if err != nil {
		h.logger.Error("load calendar tag pair", slog.Any("error", err))
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	result, err := h.provider.CalendarEventsCreatePagination(ctx, extension.CalendarPagination{
		Params:       params,
		Paginate:     true,
		TotalResults: total,
		TotalPages:   pages,
		TagpairData:  tagdata,
	})
	if err != nil {
		h.logger.Error("paginate events failed", slog.String("calendar", name), slog.Any("error", err))
		http.Error(w, "Failed to paginate events", http.StatusInternalServerError)
		return
	}

	data := eventsPage{Calendar: name, Events: events}
	if result.PaginationArray.TotalPages > 0 {
		data.Paginate = template.HTML(result.TagpairData)
		data.PaginationLinks = template.HTML(result.PaginationLinks)
	}

	viewData := view.TemplateData{
		Title:       "Calendar",
		CurrentPath: r.URL.Path,
		Globals:     extension.GlobalsFrom(ctx),
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/events.html", viewData); err != nil {
		h.logger.Error("render template", slog.String("template", "pages/events.html"), slog.Any("error", err))
	}
}

type createEventPayload struct {
	Calendar string     `json:"calendar"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

// Create schedules an event from a JSON payload.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createEventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if payload.Calendar == "" {
		payload.Calendar = DefaultCalendar
	}
	created, err := h.service.Schedule(r.Context(), CreateEventRequest(payload))
	if err != nil {
		h.logger.Warn("schedule event failed", slog.Any("error", err))
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created[0])
}

func (h *Handler) tagParams(r *http.Request) extension.TagParams {
	params := extension.TagParams{
		"limit":    strconv.Itoa(h.config.DefaultLimit),
		"paginate": extension.PlacementBottom,
	}
	if h.config.EventLimit > 0 {
		params["event_limit"] = strconv.Itoa(h.config.EventLimit)
	}
	if l := r.URL.Query().Get("event_limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= h.config.MaxLimit {
			params["event_limit"] = strconv.Itoa(parsed)
		}
	}
	return params
}
