// Package models defines the records flowing through the ingestion pipeline.
package models

import "time"

// RawRecord holds the untyped field values extracted from one repeated page
// element before any normalization. It never leaves a single pipeline run.
type RawRecord struct {
	Title      string
	Date       string
	Time       string
	Location   string
	ImageURL   string
	DetailsURL string
	HTML       string
}

// Event is a fully normalized, source-tagged listing ready for persistence.
// Start and End are always both set; records whose date text could not be
// parsed are dropped before an Event is built.
type Event struct {
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	DetailsURL string    `json:"detailsUrl,omitempty"`
	SourceName string    `json:"sourceName"`
	SourceURL  string    `json:"sourceUrl"`
}

// IdentityKey reports which identity policy applies to the event: the
// details URL when present, otherwise the (title, location) composite.
func (e Event) IdentityKey() (key string, byDetailsURL bool) {
	if e.DetailsURL != "" {
		return e.DetailsURL, true
	}

	return e.Title + "|" + e.Location, false
}

// StoredEvent is an Event persisted with its system-assigned identity.
// The ID is assigned at first insert and never changes.
type StoredEvent struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Event
}
