package calendar

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCalendar is listed when the request names none.
const DefaultCalendar = "default"

// Event is a calendar occurrence.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Calendar  string     `json:"calendar"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListEventsRequest selects one page of a calendar. Offset is a row offset.
// The limit bound mirrors pagination.MaxPerPage.
type ListEventsRequest struct {
	Calendar string `validate:"required,max=64"`
	Limit    int    `validate:"gt=0,lte=1000"`
	Offset   int    `validate:"gte=0"`
	// From hides events starting earlier. Zero lists everything.
	From time.Time
}

// CreateEventRequest is the payload for scheduling an event.
type CreateEventRequest struct {
	Calendar string     `validate:"required,max=64"`
	Title    string     `validate:"required,max=200"`
	Location string     `validate:"max=200"`
	StartsAt time.Time  `validate:"required"`
	EndsAt   *time.Time `validate:"omitempty,gtfield=StartsAt"`
}
