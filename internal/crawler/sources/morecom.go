package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gigradar/internal/crawler"
	"gigradar/internal/dates"
	"gigradar/internal/logger"
	"gigradar/internal/models"
	"gigradar/internal/normalizer"
)

const (
	moreComPageURL = "https://www.more.com/gr-el/tickets/music/"
	moreComOrigin  = "https://www.more.com"

	moreComFooterSelector = "div.footer__copyright"
	moreComCookieSelector = "a.cc-btn.cc-btn--accept"
	moreComWaitSelector   = "aside.playimage img[src*='/getattachment/']"
)

var moreComSchema = crawler.Schema{
	BaseSelector: "a.play-template__main",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Selector: "h3.playinfo__title", Kind: crawler.FieldText},
		{Name: crawler.FieldNameLocation, Selector: "div.playinfo__venue", Kind: crawler.FieldText},
		{Name: crawler.FieldNameDate, Selector: "time.playinfo__date", Kind: crawler.FieldText},
		{Name: crawler.FieldNameImageURL, Selector: "aside.playimage img", Kind: crawler.FieldAttr, Attr: "src"},
		{Name: crawler.FieldNameDetailsURL, Kind: crawler.FieldAttr, Attr: "href"},
	},
}

// MoreCom crawls the more.com music tickets listing, the one browser-driven
// source: the page lazy-loads cards while scrolling, so the renderer scrolls
// until the footer landmark is in the viewport before the DOM is read.
// Dates use the Greek day/month-name grammar, including cross-month ranges.
type MoreCom struct {
	renderer crawler.Renderer
	log      *logger.Logger
	scroll   crawler.ScrollOptions
	now      func() time.Time
}

// NewMoreCom creates the adapter.
func NewMoreCom(d Deps) *MoreCom {
	scroll := d.Scroll
	scroll.FooterSelector = moreComFooterSelector
	scroll.CookieSelector = moreComCookieSelector
	scroll.WaitSelector = moreComWaitSelector

	return &MoreCom{renderer: d.Renderer, log: d.Log, scroll: scroll, now: d.now}
}

// Name implements crawler.Adapter.
func (a *MoreCom) Name() string { return dates.SourceMoreCom }

// Crawl implements crawler.Adapter.
func (a *MoreCom) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", moreComPageURL)

	markup, err := a.renderer.RenderScrolled(ctx, moreComPageURL, a.scroll)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%s: parse markup: %w", a.Name(), err)
	}

	recs := moreComSchema.Extract(doc)

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: moreComPageURL, Origin: moreComOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			return norm.Parse(rec.Date, ref)
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}
