package extension

import (
	"context"
	"errors"
	"net/http"

	"github.com/better-pagination/better-pagination/internal/pagination"
)

// ErrNoRequestState is returned by hooks invoked on a context that did not
// pass through SessionsEnd.
var ErrNoRequestState = errors.New("extension: no pagination state in context")

// Globals are host template variables shared by every tag of a request.
type Globals map[string]string

// State is the pagination state of one request.
type State struct {
	Offset     int
	Path       string
	RawQuery   string
	Channel    *ChannelPagination
	TotalRows  int
	TotalPages int
	// Links is the link set computed by RESTResult.
	Links pagination.LinkSet
}

type stateContextKey struct{}

type globalsContextKey struct{}

// ContextWithState stores the request state in context.
func ContextWithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, st)
}

// StateFrom extracts the request state from context.
func StateFrom(ctx context.Context) *State {
	st, _ := ctx.Value(stateContextKey{}).(*State)
	return st
}

// ContextWithGlobals stores host globals in context.
func ContextWithGlobals(ctx context.Context, globals Globals) context.Context {
	return context.WithValue(ctx, globalsContextKey{}, globals)
}

// GlobalsFrom extracts host globals from context.
func GlobalsFrom(ctx context.Context) Globals {
	globals, _ := ctx.Value(globalsContextKey{}).(Globals)
	return globals
}

// Middleware runs SessionsEnd for every request and exposes the resulting
// globals through the request context.
func Middleware(p Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			globals := Globals{}
			ctx := p.SessionsEnd(r.Context(), r, globals)
			ctx = ContextWithGlobals(ctx, globals)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
