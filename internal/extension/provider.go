// Package extension exposes query-string pagination to a rendering host
// through six lifecycle hooks. The host calls each hook explicitly; state
// shared between hooks of one request travels in the request context.
package extension

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/better-pagination/better-pagination/internal/pagination"
)

// Hook names, used for logging and metrics labels.
const (
	HookSessionsEnd                    = "sessions_end"
	HookChannelModuleCreatePagination  = "channel_module_create_pagination"
	HookChannelEntriesQueryResult      = "channel_entries_query_result"
	HookCalendarEventsCreatePagination = "calendar_events_create_pagination"
	HookRESTResult                     = "rest_result"
	HookRESTTagdataEnd                 = "rest_tagdata_end"
)

// Provider is the hook surface a host rendering pipeline drives.
type Provider interface {
	// SessionsEnd runs once per request before any tag is rendered. It
	// publishes the page offset in globals and returns a context carrying
	// the request's pagination state.
	SessionsEnd(ctx context.Context, r *http.Request, globals Globals) context.Context
	// ChannelModuleCreatePagination hands the entries tag's pagination
	// object to the extension.
	ChannelModuleCreatePagination(ctx context.Context, p *ChannelPagination)
	// ChannelEntriesQueryResult fills the stored pagination object once the
	// host knows the total row count.
	ChannelEntriesQueryResult(ctx context.Context, totalRows int) error
	// CalendarEventsCreatePagination fills calendar pagination data.
	CalendarEventsCreatePagination(ctx context.Context, data CalendarPagination) (CalendarPagination, error)
	// RESTResult records the total row count of a REST tag.
	RESTResult(ctx context.Context, params TagParams, totalResults int) error
	// RESTTagdataEnd splices rendered pagination into REST tag output.
	RESTTagdataEnd(ctx context.Context, params TagParams, tagdata string, pair TagPair) (string, error)
}

// Renderer turns a link set into markup. The host owns the template syntax.
type Renderer interface {
	// ParseVariables renders tag-pair content against the link set.
	ParseVariables(tagdata string, links pagination.LinkSet) (string, error)
	// Links renders the complete pagination links block.
	Links(links pagination.LinkSet) (string, error)
}

// Recorder receives every link set the extension builds.
type Recorder interface {
	ObserveLinkSet(hook string, links pagination.LinkSet)
}

// TagParams are the parameters of the tag being rendered, e.g. limit,
// event_limit, paginate and pagination_base.
type TagParams map[string]string

// Int returns the positive integer stored under key, or fallback.
func (p TagParams) Int(key string, fallback int) int {
	raw, ok := p[key]
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// TagPair is a paginate tag pair already extracted by the host. Outer is
// the full pair as it appears in the tag data, Inner its body.
type TagPair struct {
	Outer string
	Inner string
}

// ChannelPagination is the entries tag's pagination object.
type ChannelPagination struct {
	Params       TagParams
	Paginate     bool
	TemplateData string
	PageLinks    string
	TotalPages   int
	CurrentPage  int
	Links        pagination.LinkSet
}

// CalendarPagination is the calendar events tag's pagination data.
// TotalPages is computed by the host and returned untouched; links are
// always derived from TotalResults.
type CalendarPagination struct {
	Params          TagParams
	Paginate        bool
	TotalResults    int
	TotalPages      int
	PaginationLinks string
	PaginationArray pagination.LinkSet
	TagpairData     string
}

// Placement values of the paginate tag parameter.
const (
	PlacementTop    = "top"
	PlacementBottom = "bottom"
	PlacementBoth   = "both"
)
