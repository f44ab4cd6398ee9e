package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"gigradar/internal/crawler"
	"gigradar/internal/dates"
	"gigradar/internal/logger"
	"gigradar/internal/models"
	"gigradar/internal/normalizer"
)

const (
	athinoramaPageURL = "https://www.athinorama.gr/music/guide"
	athinoramaOrigin  = "https://www.athinorama.gr"
)

var athinoramaSchema = crawler.Schema{
	BaseSelector: "div.guide-list div.item",
	Fields: []crawler.Field{
		{Name: crawler.FieldNameTitle, Selector: "h2.item-title", Kind: crawler.FieldText},
		{Name: crawler.FieldNameHTML, Selector: "div.item-content", Kind: crawler.FieldHTML},
		{Name: crawler.FieldNameLocation, Selector: "div.item-description h4 a", Kind: crawler.FieldText},
		{Name: crawler.FieldNameDetailsURL, Selector: "h2.item-title a", Kind: crawler.FieldAttr, Attr: "href"},
	},
}

// Athinorama crawls the athinorama.gr music guide. The date lives inside an
// HTML summary fragment: a styled <p class="summary"> whose <strong> holds
// "DD/MM" and whose trailing text may carry a Greek-meridiem clock.
type Athinorama struct {
	fetcher crawler.Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewAthinorama creates the adapter.
func NewAthinorama(d Deps) *Athinorama {
	return &Athinorama{fetcher: d.Fetcher, log: d.Log, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Athinorama) Name() string { return dates.SourceAthinorama }

// Crawl implements crawler.Adapter.
func (a *Athinorama) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", athinoramaPageURL)

	doc, err := a.fetcher.Document(ctx, athinoramaPageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	recs := athinoramaSchema.Extract(doc)

	// Pull the date expression out of each summary fragment. Records whose
	// fragment carries no visible dated summary end up with empty date text
	// and are dropped downstream.
	for i := range recs {
		recs[i].Date = summaryDateText(recs[i].HTML)
		recs[i].HTML = ""
	}

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: athinoramaPageURL, Origin: athinoramaOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			return norm.Parse(rec.Date, ref)
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}

// summaryDateText finds the block-displayed summary paragraph in an item
// fragment and returns its date expression: the <strong> text plus any text
// following it (where the clock lives). Returns "" when the fragment has no
// such paragraph.
func summaryDateText(fragment string) string {
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var summary *goquery.Selection

	frag.Find("p.summary").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style := strings.ReplaceAll(s.AttrOr("style", ""), " ", "")
		if strings.Contains(style, "display:block") {
			summary = s

			return false
		}

		return true
	})

	if summary == nil {
		return ""
	}

	strong := summary.Find("strong").First()
	if strong.Length() == 0 {
		return ""
	}

	var trailing strings.Builder

	for n := strong.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			trailing.WriteString(n.Data)
		}
	}

	dateStr := strings.TrimSpace(strong.Text())
	if dateStr == "" {
		return ""
	}

	return strings.TrimSpace(dateStr + " " + strings.TrimSpace(trailing.String()))
}
