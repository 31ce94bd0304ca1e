package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultPerPage is used when the caller does not configure a page size.
	DefaultPerPage = 100
	// MaxPerPage is the largest page size any listing accepts.
	MaxPerPage = 1000
	// DefaultMaxLinks caps the numbered links emitted for one render.
	DefaultMaxLinks = 100
	// DefaultPageParam is the query-string key carrying the page offset.
	DefaultPageParam = "page"
)

var validate = validator.New()

// Request describes one render's pagination input.
// CurrentOffset is a zero-based page index, not a row offset.
type Request struct {
	TotalItems    int `validate:"gte=0"`
	PerPage       int `validate:"gt=0"`
	CurrentOffset int `validate:"gte=0"`
	BaseURL       string
	PageParam     string
	MaxLinks      int `validate:"gt=0"`
}

// NewRequest returns a Request with default page size, link cap and page parameter.
func NewRequest(totalItems, currentOffset int, baseURL string) Request {
	return Request{
		TotalItems:    totalItems,
		PerPage:       DefaultPerPage,
		CurrentOffset: currentOffset,
		BaseURL:       baseURL,
		PageParam:     DefaultPageParam,
		MaxLinks:      DefaultMaxLinks,
	}
}

// Validate reports an error wrapping ErrInvalidArgument when the request is
// outside the builder's input domain.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s must be %s %s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return strings.Join(parts, "; ")
}
