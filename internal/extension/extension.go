package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/better-pagination/better-pagination/internal/pagination"
)

// DefaultOffsetName is the global variable exposing the page offset.
const DefaultOffsetName = "global:pagination_offset"

// Settings are read once at setup. Zero values are invalid; start from
// DefaultSettings.
type Settings struct {
	PageName     string `validate:"required"`
	OffsetName   string `validate:"required"`
	DefaultLimit int    `validate:"gt=0"`
	MaxLinks     int    `validate:"gt=0"`
	SiteURL      string
}

// DefaultSettings returns the stock parameter names and limits.
func DefaultSettings() Settings {
	return Settings{
		PageName:     pagination.DefaultPageParam,
		OffsetName:   DefaultOffsetName,
		DefaultLimit: pagination.DefaultPerPage,
		MaxLinks:     pagination.DefaultMaxLinks,
	}
}

var validate = validator.New()

// Extension implements Provider.
type Extension struct {
	settings Settings
	renderer Renderer
	recorder Recorder
	logger   *slog.Logger
}

var _ Provider = (*Extension)(nil)

// New validates settings and constructs an Extension. recorder and logger
// may be nil.
func New(settings Settings, renderer Renderer, recorder Recorder, logger *slog.Logger) (*Extension, error) {
	if err := validate.Struct(settings); err != nil {
		return nil, fmt.Errorf("%w: extension settings: %v", pagination.ErrInvalidArgument, err)
	}
	if renderer == nil {
		return nil, fmt.Errorf("%w: extension renderer required", pagination.ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extension{settings: settings, renderer: renderer, recorder: recorder, logger: logger}, nil
}

// Settings returns the active settings.
func (e *Extension) Settings() Settings {
	return e.settings
}

// SessionsEnd implements Provider.
func (e *Extension) SessionsEnd(ctx context.Context, r *http.Request, globals Globals) context.Context {
	st := &State{
		Offset:   pagination.ParseOffset(r.URL.Query().Get(e.settings.PageName)),
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
	}
	if globals != nil {
		globals[e.settings.OffsetName] = strconv.Itoa(st.Offset)
	}
	return ContextWithState(ctx, st)
}

// ChannelModuleCreatePagination implements Provider.
func (e *Extension) ChannelModuleCreatePagination(ctx context.Context, p *ChannelPagination) {
	st := StateFrom(ctx)
	if st == nil {
		e.logger.Warn("pagination hook without request state", slog.String("hook", HookChannelModuleCreatePagination))
		return
	}
	st.Channel = p
}

// ChannelEntriesQueryResult implements Provider.
func (e *Extension) ChannelEntriesQueryResult(ctx context.Context, totalRows int) error {
	st := StateFrom(ctx)
	if st == nil {
		return ErrNoRequestState
	}
	p := st.Channel
	if p == nil || !p.Paginate || totalRows <= 0 {
		return nil
	}

	set, err := e.build(HookChannelEntriesQueryResult, st, p.Params, totalRows)
	if err != nil {
		return err
	}
	st.TotalRows = totalRows
	st.TotalPages = set.TotalPages

	p.TotalPages = set.TotalPages
	p.CurrentPage = set.CurrentPage
	p.Links = set
	if p.PageLinks, err = e.renderer.Links(set); err != nil {
		return fmt.Errorf("extension: render page links: %w", err)
	}
	data, err := e.renderer.ParseVariables(p.TemplateData, set)
	if err != nil {
		return fmt.Errorf("extension: render paginate tag pair: %w", err)
	}
	p.TemplateData = pagination.StripEmptyPageParams(data, e.settings.PageName)
	return nil
}

// CalendarEventsCreatePagination implements Provider.
func (e *Extension) CalendarEventsCreatePagination(ctx context.Context, data CalendarPagination) (CalendarPagination, error) {
	if !data.Paginate || data.TotalResults <= 0 {
		return data, nil
	}
	st := StateFrom(ctx)
	if st == nil {
		return data, ErrNoRequestState
	}

	set, err := e.build(HookCalendarEventsCreatePagination, st, data.Params, data.TotalResults)
	if err != nil {
		return data, err
	}
	links, err := e.renderer.Links(set)
	if err != nil {
		return data, fmt.Errorf("extension: render page links: %w", err)
	}
	body, err := e.renderer.ParseVariables(data.TagpairData, set)
	if err != nil {
		return data, fmt.Errorf("extension: render paginate tag pair: %w", err)
	}
	data.PaginationLinks = links
	data.PaginationArray = set
	data.TagpairData = pagination.StripEmptyPageParams(body, e.settings.PageName)
	return data, nil
}

// RESTResult implements Provider.
func (e *Extension) RESTResult(ctx context.Context, params TagParams, totalResults int) error {
	st := StateFrom(ctx)
	if st == nil {
		return ErrNoRequestState
	}
	set, err := e.build(HookRESTResult, st, params, totalResults)
	if err != nil {
		return err
	}
	st.TotalRows = totalResults
	st.TotalPages = set.TotalPages
	st.Links = set
	return nil
}

// RESTTagdataEnd implements Provider. Without a paginate parameter the tag
// data is returned untouched.
func (e *Extension) RESTTagdataEnd(ctx context.Context, params TagParams, tagdata string, pair TagPair) (string, error) {
	placement, ok := params["paginate"]
	if !ok {
		return tagdata, nil
	}
	st := StateFrom(ctx)
	if st == nil {
		return tagdata, ErrNoRequestState
	}

	if outer := strings.TrimSpace(pair.Outer); outer != "" {
		tagdata = strings.ReplaceAll(tagdata, outer, "")
	}

	set, err := e.build(HookRESTTagdataEnd, st, params, st.TotalRows)
	if err != nil {
		return tagdata, err
	}
	body, err := e.renderer.ParseVariables(strings.TrimSpace(pair.Inner), set)
	if err != nil {
		return tagdata, fmt.Errorf("extension: render paginate tag pair: %w", err)
	}

	switch placement {
	case PlacementTop:
		tagdata = body + tagdata
	case PlacementBoth:
		tagdata = body + tagdata + body
	default:
		tagdata = tagdata + body
	}
	return pagination.StripEmptyPageParams(tagdata, e.settings.PageName), nil
}

// build resolves per-page size and base URL for the tag and computes links.
func (e *Extension) build(hook string, st *State, params TagParams, total int) (pagination.LinkSet, error) {
	perPage := params.Int("limit", e.settings.DefaultLimit)
	perPage = params.Int("event_limit", perPage)

	base := params["pagination_base"]
	if base == "" {
		base = strings.TrimRight(e.settings.SiteURL, "/") + st.Path
		if st.RawQuery != "" {
			base += "?" + st.RawQuery
		}
	}

	set, err := pagination.BuildLinks(pagination.Request{
		TotalItems:    total,
		PerPage:       perPage,
		CurrentOffset: st.Offset,
		BaseURL:       base,
		PageParam:     e.settings.PageName,
		MaxLinks:      e.settings.MaxLinks,
	})
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidArgument) {
			e.logger.Error("pagination rejected", slog.String("hook", hook), slog.Any("error", err))
		}
		return pagination.LinkSet{}, err
	}

	e.logger.Debug("pagination built",
		slog.String("hook", hook),
		slog.Int("total_items", total),
		slog.Int("total_pages", set.TotalPages),
		slog.Int("current_page", set.CurrentPage),
	)
	if e.recorder != nil {
		e.recorder.ObserveLinkSet(hook, set)
	}
	return set, nil
}
