package sources

import (
	"context"
	"fmt"
	"regexp"
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
	clubberPageURL = "https://www.clubber.gr/events"
	clubberOrigin  = "https://www.clubber.gr"
)

var clubberTimeRange = regexp.MustCompile(`\d{1,2}:\d{2}\s*[–-]\s*\d{1,2}:\d{2}`)

// Clubber crawls the clubber.gr events page: a grouped list where <h2>
// headers carry the date ("Thu, 28 August") and the flex-styled rows under
// each header carry title, venue and an opening-hours range. Events that
// close past midnight get their end date advanced by a day.
type Clubber struct {
	fetcher crawler.Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// NewClubber creates the adapter.
func NewClubber(d Deps) *Clubber {
	return &Clubber{fetcher: d.Fetcher, log: d.Log, now: d.now}
}

// Name implements crawler.Adapter.
func (a *Clubber) Name() string { return dates.SourceClubber }

// Crawl implements crawler.Adapter.
func (a *Clubber) Crawl(ctx context.Context) ([]models.Event, error) {
	a.log.Info("crawling", "source", a.Name(), "url", clubberPageURL)

	doc, err := a.fetcher.Document(ctx, clubberPageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	recs := extractClubberRecords(doc)

	norm, err := dates.For(a.Name())
	if err != nil {
		return nil, err
	}

	ref := a.now()
	out := normalizer.Normalize(
		normalizer.Source{Name: a.Name(), PageURL: clubberPageURL, Origin: clubberOrigin},
		recs,
		func(rec models.RawRecord) (dates.Range, error) {
			return norm.Parse(rec.Date+" "+rec.Time, ref)
		},
	)

	a.log.Info("completed", "source", a.Name(), "events", len(out.Events), "dropped", out.Dropped)

	return out.Events, nil
}

// extractClubberRecords walks the grouped list in document order, tracking
// the current date header and emitting one record per event row.
func extractClubberRecords(doc *goquery.Document) []models.RawRecord {
	var (
		recs        []models.RawRecord
		currentDate string
	)

	doc.Find(".em-events-list-grouped > *").Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "h2":
			currentDate = strings.TrimSpace(el.Text())
		case "div":
			if !strings.Contains(el.AttrOr("style", ""), "display: flex") {
				return
			}

			rec := models.RawRecord{
				Date:     currentDate,
				Title:    strings.TrimSpace(el.Find("b").First().Text()),
				Time:     clubberTimeRange.FindString(el.Text()),
				ImageURL: el.Find("img").First().AttrOr("src", ""),
			}

			// Venue text is everything except the title markup and the
			// opening hours.
			stripped := el.Clone()
			stripped.Find("b").Remove()
			locText := strings.Join(strings.Fields(stripped.Text()), " ")
			rec.Location = strings.TrimSpace(clubberTimeRange.ReplaceAllString(locText, ""))

			recs = append(recs, rec)
		}
	})

	return recs
}
