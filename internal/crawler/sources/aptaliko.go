package sources

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gigradar/internal/crawler"
	"gigradar/internal/dates"
	"gigradar/internal/logger"
	"gigradar/internal/models"
	"gigradar/internal/normalizer"
)

const (
	aptalikoPageBase = "https://aptaliko.gr/search?contentType=EVENTS&groupPage=1&eventPage="
	aptalikoOrigin   = "https://aptaliko.gr"

	aptalikoNextSelector = "button.o-pag__link.pagination-link.o-pag__next"
)

// Class names marking the "next page" control as disabled.
var aptalikoDisabledClasses = []string{"o-pag__link--disabled", "pagination-link-disabled"}

var aptalikoSchema = crawler.Schema{
	BaseSelector: "a.mbz-card",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Selector: "h2.text-2xl", Kind: crawler.FieldText},
		{Name: crawler.FieldNameDate, Selector: "span.text-gray-700", Kind: crawler.FieldText},
		{Name: crawler.FieldNameLocation, Selector: "div.truncate", Kind: crawler.FieldText},
		{Name: crawler.FieldNameImageURL, Selector: "img.transition-opacity", Kind: crawler.FieldAttr, Attr: "src"},
		{Name: crawler.FieldNameDetailsURL, Kind: crawler.FieldAttr, Attr: "href"},
	},
}

// Aptaliko crawls the aptaliko.gr event search, the one pagination-aware
// source: it walks numbered pages starting at 1 and stops on an empty
// result set, on a missing or disabled "next" control, or on the MaxPages
// guard — the site's own pagination signal is not trusted to terminate.
type Aptaliko struct {
	fetcher  crawler.Fetcher
	log      *logger.Logger
	maxPages int
	now      func() time.Time
}

// NewAptaliko creates the adapter.
func NewAptaliko(d Deps) *Aptaliko {
	return &Aptaliko{fetcher: d.Fetcher, log: d.Log, maxPages: d.MaxPages, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Aptaliko) Name() string { return dates.SourceAptaliko }

// Crawl implements crawler.Adapter.
func (a *Aptaliko) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", aptalikoPageBase+"1")

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	src := normalizer.Source{Name: a.Name(), PageURL: aptalikoPageBase + "1", Origin: aptalikoOrigin}
	parse := func(rec models.RawRecord) (dates.Range, error) {
		return norm.Parse(rec.Date, ref)
	}

	var (
		events  []models.Event
		dropped int
	)

	for page := 1; ; page++ {
		if page > a.maxPages {
			a.log.Warn("page guard reached, stopping", "source", a.Name(), "max_pages", a.maxPages)

			break
		}

		pageURL := aptalikoPageBase + strconv.Itoa(page)

		doc, err := a.fetcher.Document(ctx, pageURL)
		if err != nil {
			return events, fmt.Errorf("%s page %d: %w", a.Name(), page, err)
		}

		recs := aptalikoSchema.Extract(doc)
		if len(recs) == 0 {
			a.log.Debug("empty page, stopping", "source", a.Name(), "page", page)

			break
		}

		out := normalizer.Normalize(src, recs, parse)
		events = append(events, out.Events...)
		dropped += out.Dropped

		next := doc.Find(aptalikoNextSelector).First()
		if next.Length() == 0 {
			a.log.Debug("next control absent, stopping", "source", a.Name(), "page", page)

			break
		}

		if nextDisabled(next.AttrOr("class", "")) {
			a.log.Debug("next control disabled, stopping", "source", a.Name(), "page", page)

			break
		}
	}

	a.log.Info("completed", "source", a.Name(), "events", len(events), "dropped", dropped)

	return events, nil
}

func nextDisabled(class string) bool {
	classes := strings.Fields(class)

	for _, c := range classes {
		for _, disabled := range aptalikoDisabledClasses {
			if c == disabled {
				return true
			}
		}
	}

	return false
}
