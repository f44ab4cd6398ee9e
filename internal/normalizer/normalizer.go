// Package normalizer assembles canonical events from raw extracted records:
// trimming, relative-URL resolution, source tagging and invalid-record
// filtering.
package normalizer

import (
	"net/url"
	"strings"

	"gigradar/internal/dates"
	"gigradar/internal/models"
)

// Source identifies where a batch of raw records came from and how to
// absolutize its relative URLs.
type Source struct {
	// Name is the constant source label, e.g. a domain.
	Name string
	// PageURL is the page the batch was fetched from.
	PageURL string
	// Origin is the base origin for resolving /-prefixed URLs.
	Origin string
}

// ParseFunc turns one raw record into its canonical date pair. Each adapter
// supplies its own assembly of the record's date/time fields on top of the
// source's registered normalizer.
type ParseFunc func(rec models.RawRecord) (dates.Range, error)

// Outcome is the result of normalizing one batch.
type Outcome struct {
	Events  []models.Event
	Dropped int
}

// Normalize builds one canonical Event per raw record. Records whose date
// text fails every candidate format, or whose title is empty after
// trimming, are excluded and counted — never defaulted, never persisted.
func Normalize(src Source, recs []models.RawRecord, parse ParseFunc) Outcome {
	var out Outcome

	for _, rec := range recs {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			out.Dropped++

			continue
		}

		rng, err := parse(rec)
		if err != nil {
			out.Dropped++

			continue
		}

		out.Events = append(out.Events, models.Event{
			Title:      title,
			Start:      rng.Start,
			End:        rng.End,
			Location:   strings.TrimSpace(rec.Location),
			ImageURL:   ResolveURL(src.Origin, rec.ImageURL),
			DetailsURL: ResolveURL(src.Origin, rec.DetailsURL),
			SourceName: src.Name,
			SourceURL:  src.PageURL,
		})
	}

	return out
}

// ResolveURL absolutizes a /-prefixed URL against the source origin.
// Already-absolute URLs (and anything else) pass through unchanged apart
// from trimming.
func ResolveURL(origin, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return raw
	}

	base, err := url.Parse(origin)
	if err != nil {
		return raw
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return base.ResolveReference(ref).String()
}
