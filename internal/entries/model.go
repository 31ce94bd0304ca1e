package entries

import (
	"time"

	"github.com/google/uuid"
)

// Status values of an entry. Only open entries are listed.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Entry is a channel entry.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Channel   string    `json:"channel"`
	Title     string    `json:"title"`
	URLTitle  string    `json:"url_title"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status"`
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}
