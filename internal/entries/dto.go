package entries

import "time"

// ListEntriesRequest selects one page of a channel. Offset is a row offset.
// The limit bound mirrors pagination.MaxPerPage.
type ListEntriesRequest struct {
	Channel string `validate:"required,max=64"`
	Limit   int    `validate:"gt=0,lte=1000"`
	Offset  int    `validate:"gte=0"`
}

// CreateEntryRequest is the payload for publishing an entry.
type CreateEntryRequest struct {
	Channel   string    `validate:"required,max=64"`
	Title     string    `validate:"required,max=200"`
	URLTitle  string    `validate:"required,max=200"`
	Body      string    `validate:"max=65535"`
	Status    string    `validate:"omitempty,oneof=open closed"`
	EntryDate time.Time `validate:"required"`
}
