// Package pagination computes page counts and page links for query-string
// pagination. Every function is pure and safe for concurrent use.
package pagination

import "fmt"

// Link is one numbered page link. PageNumber is one-based; the URL carries
// the zero-based offset PageNumber-1.
type Link struct {
	PageNumber int    `json:"page_number"`
	URL        string `json:"url"`
	IsCurrent  bool   `json:"is_current"`
}

// LinkSet is the link array handed to the rendering layer.
// CurrentPage is the requested offset, passed through even when it lies
// outside [0, TotalPages).
type LinkSet struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	TotalItems  int    `json:"total_items"`
	PerPage     int    `json:"per_page"`
	PageParam   string `json:"page_param"`
	BaseURL     string `json:"base_url"`
	Links       []Link `json:"links"`
	FirstURL    string `json:"first_url"`
	LastURL     string `json:"last_url"`
	PreviousURL string `json:"previous_url,omitempty"`
	NextURL     string `json:"next_url,omitempty"`
}

// HasPrevious reports whether a previous page exists.
func (s LinkSet) HasPrevious() bool { return s.PreviousURL != "" }

// HasNext reports whether a next page exists.
func (s LinkSet) HasNext() bool { return s.NextURL != "" }

// IsLastPage reports whether the current page is the final one.
func (s LinkSet) IsLastPage() bool { return s.CurrentPage == s.TotalPages-1 }

// InRange reports whether the current page has a link in the full page range.
func (s LinkSet) InRange() bool { return s.CurrentPage >= 0 && s.CurrentPage < s.TotalPages }

// Current returns the link marked current, if any.
func (s LinkSet) Current() (Link, bool) {
	for _, l := range s.Links {
		if l.IsCurrent {
			return l, true
		}
	}
	return Link{}, false
}

// TotalPages returns the number of pages needed for totalItems, never less
// than one.
func TotalPages(totalItems, perPage int) (int, error) {
	if perPage <= 0 {
		return 0, fmt.Errorf("%w: per page must be positive, got %d", ErrInvalidArgument, perPage)
	}
	if totalItems <= 0 {
		return 1, nil
	}
	// Single-item pages report the item count directly. Numerically the same
	// as the ceiling below; kept as its own branch.
	if perPage == 1 && totalItems > 1 {
		return totalItems, nil
	}
	pages := totalItems / perPage
	if totalItems%perPage != 0 {
		pages++
	}
	return pages, nil
}

// BuildLinks computes the link set for one render.
//
// When TotalPages exceeds MaxLinks, a window of MaxLinks pages is emitted,
// centred on the current page and shifted to stay within the page range.
// An out-of-range current page selects the last MaxLinks pages.
func BuildLinks(req Request) (LinkSet, error) {
	if req.PageParam == "" {
		req.PageParam = DefaultPageParam
	}
	if err := req.Validate(); err != nil {
		return LinkSet{}, err
	}
	totalPages, err := TotalPages(req.TotalItems, req.PerPage)
	if err != nil {
		return LinkSet{}, err
	}

	base := NormalizeBaseURL(req.BaseURL, req.PageParam)
	set := LinkSet{
		TotalPages:  totalPages,
		CurrentPage: req.CurrentOffset,
		TotalItems:  req.TotalItems,
		PerPage:     req.PerPage,
		PageParam:   req.PageParam,
		BaseURL:     base,
		FirstURL:    PageURL(base, req.PageParam, 0),
		LastURL:     PageURL(base, req.PageParam, totalPages-1),
	}

	start, end := window(totalPages, req.CurrentOffset, req.MaxLinks)
	set.Links = make([]Link, 0, end-start)
	for offset := start; offset < end; offset++ {
		set.Links = append(set.Links, Link{
			PageNumber: offset + 1,
			URL:        PageURL(base, req.PageParam, offset),
			IsCurrent:  offset == req.CurrentOffset,
		})
	}

	if req.CurrentOffset > 0 {
		set.PreviousURL = PageURL(base, req.PageParam, req.CurrentOffset-1)
	}
	if req.CurrentOffset < totalPages-1 {
		set.NextURL = PageURL(base, req.PageParam, req.CurrentOffset+1)
	}
	return set, nil
}

// window returns the half-open range of zero-based offsets to link.
func window(totalPages, current, maxLinks int) (int, int) {
	if totalPages <= maxLinks {
		return 0, totalPages
	}
	if current >= totalPages {
		return totalPages - maxLinks, totalPages
	}
	start := current - maxLinks/2
	if start > totalPages-maxLinks {
		start = totalPages - maxLinks
	}
	if start < 0 {
		start = 0
	}
	return start, start + maxLinks
}
