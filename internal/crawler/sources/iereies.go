package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gigradar/internal/crawler"
	"gigradar/internal/dates"
	"gigradar/internal/logger"
	"gigradar/internal/models"
	"gigradar/internal/normalizer"
)

const (
	iereiesPageURL = "https://iereiestisnychtas.com/musicevents"
	iereiesOrigin  = "https://iereiestisnychtas.com"
)

var iereiesSchema = crawler.Schema{
	BaseSelector: "a.flex-events-a",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Selector: "div.flex-eventsinfo-h h2", Kind: crawler.FieldText},
		{Name: crawler.FieldNameDate, Selector: "div.flex-eventsinfo-p", Kind: crawler.FieldText},
		{Name: crawler.FieldNameLocation, Selector: "div.flex-eventsinfo-more-details", Kind: crawler.FieldText},
		{Name: crawler.FieldNameImageURL, Selector: "div.flex-eventsimg img", Kind: crawler.FieldAttr, Attr: "src"},
		{Name: crawler.FieldNameDetailsURL, Selector: "div.btn", Kind: crawler.FieldAttr, Attr: "href"},
	},
}

// The site writes the start time as a bare "HH:MM" prefix of the venue text.
var iereiesClockPrefix = regexp.MustCompile(`^(\d{1,2}:\d{2})(.+)$`)

// Iereies crawls the iereiestisnychtas.com music-events listing: a static
// page with weekday-prefixed "DD/MM" dates and the clock embedded in the
// venue field.
type Iereies struct {
	fetcher crawler.Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewIereies creates the adapter.
func NewIereies(d Deps) *Iereies {
	return &Iereies{fetcher: d.Fetcher, log: d.Log, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Iereies) Name() string { return dates.SourceIereies }

// Crawl implements crawler.Adapter.
func (a *Iereies) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", iereiesPageURL)

	doc, err := a.fetcher.Document(ctx, iereiesPageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	recs := iereiesSchema.Extract(doc)

	// Peel the clock off the venue text before normalization; a venue with
	// no clock prefix is all clock in this layout (the venue line is blank).
	for i := range recs {
		if m := iereiesClockPrefix.FindStringSubmatch(recs[i].Location); m != nil {
			recs[i].Time = m[1]
			recs[i].Location = strings.TrimSpace(m[2])
		} else {
			recs[i].Time = recs[i].Location
			recs[i].Location = ""
		}
	}

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: iereiesPageURL, Origin: iereiesOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			return norm.Parse(rec.Date+" "+rec.Time, ref)
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}
