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
	ticketservicesPageURL = "https://www.ticketservices.gr/en/LiveConcerts/"
	ticketservicesOrigin  = "https://www.ticketservices.gr"
)

var ticketservicesSchema = crawler.Schema{
	BaseSelector: "li.event",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Kind: crawler.FieldAttr, Attr: "data-title"},
		{Name: crawler.FieldNameDetailsURL, Selector: "a", Kind: crawler.FieldAttr, Attr: "href"},
		{Name: crawler.FieldNameLocation, Kind: crawler.FieldAttr, Attr: "data-venues"},
		{Name: crawler.FieldNameDate, Kind: crawler.FieldAttr, Attr: "data-dates"},
		{Name: crawler.FieldNameImageURL, Selector: "img", Kind: crawler.FieldAttr, Attr: "src"},
	},
}

// Ticketservices crawls the ticketservices.gr live-concerts listing.
// Multi-day runs arrive as a pipe-delimited list of "YYYY-MM-DD" tokens,
// and titles come HTML-encoded inside a data attribute.
type Ticketservices struct {
	fetcher crawler.Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewTicketservices creates the adapter.
func NewTicketservices(d Deps) *Ticketservices {
	return &Ticketservices{fetcher: d.Fetcher, log: d.Log, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Ticketservices) Name() string { return dates.SourceTicketservices }

// Crawl implements crawler.Adapter.
func (a *Ticketservices) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", ticketservicesPageURL)

	doc, err := a.fetcher.Document(ctx, ticketservicesPageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	recs := ticketservicesSchema.Extract(doc)

	// Titles carry markup (<br> between headliners); flatten to plain text.
	for i := range recs {
		recs[i].Title = htmlToText(recs[i].Title)
	}

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: ticketservicesPageURL, Origin: ticketservicesOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			return norm.Parse(rec.Date, ref)
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}
