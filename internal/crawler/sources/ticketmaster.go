package sources

import (
	"context"
	"fmt"
	"time"

	"gigradar/internal/crawler"
	"gigradar/internal/dates"
	"gigradar/internal/logger"
	"gigradar/internal/models"
	"gigradar/internal/normalizer"
)

const (
	ticketmasterPageURL = "https://www.ticketmaster.gr/_sce_category_s_Music.html"
	ticketmasterOrigin  = "https://www.ticketmaster.gr"
)

// Everything rides on data attributes of the repeated event element; only
// the title and link need child selectors.
var ticketmasterSchema = crawler.Schema{
	BaseSelector: "div.event",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Selector: "h3.evTitle", Kind: crawler.FieldText},
		{Name: crawler.FieldNameDetailsURL, Selector: "a", Kind: crawler.FieldAttr, Attr: "href"},
		{Name: crawler.FieldNameLocation, Kind: crawler.FieldAttr, Attr: "data-venue"},
		{Name: crawler.FieldNameDate, Kind: crawler.FieldAttr, Attr: "data-start-date"},
		{Name: crawler.FieldNameTime, Kind: crawler.FieldAttr, Attr: "data-end-date"},
		{Name: crawler.FieldNameImageURL, Kind: crawler.FieldAttr, Attr: "data-image"},
	},
}

// Ticketmaster crawls the ticketmaster.gr music category. Start and end
// timestamps arrive as separate "YYYY-MM-DD HH:MM:SS[.ffffff]" attributes;
// a record without a valid start is dropped, a missing end falls back to
// the start.
type Ticketmaster struct {
	fetcher crawler.Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewTicketmaster creates the adapter.
func NewTicketmaster(d Deps) *Ticketmaster {
	return &Ticketmaster{fetcher: d.Fetcher, log: d.Log, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Ticketmaster) Name() string { return dates.SourceTicketmaster }

// Crawl implements crawler.Adapter.
func (a *Ticketmaster) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", ticketmasterPageURL)

	doc, err := a.fetcher.Document(ctx, ticketmasterPageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	recs := ticketmasterSchema.Extract(doc)

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: ticketmasterPageURL, Origin: ticketmasterOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			start, err := norm.Parse(rec.Date, ref)
			if err != nil {
				return dates.Range{}, err
			}

			end, err := norm.Parse(rec.Time, ref)
			if err != nil {
				return dates.Range{Start: start.Start, End: start.Start}, nil
			}

			return dates.Range{Start: start.Start, End: end.Start}, nil
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}
