package sources

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gigradar/internal/logger"
)

// stubFetcher serves canned HTML keyed by URL.
type stubFetcher struct {
	pages map[string]string
	calls []string
}

func (f *stubFetcher) Document(_ context.Context, url string) (*goquery.Document, error) {
	f.calls = append(f.calls, url)

	return goquery.NewDocumentFromReader(strings.NewReader(f.pages[url]))
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func aptalikoCard(title, date string) string {
	return `<a class="mbz-card" href="/events/` + strings.ToLower(title) + `">` +
		`<h2 class="text-2xl">` + title + `</h2>` +
		`<span class="text-gray-700">` + date + `</span>` +
		`<div class="truncate">Gagarin 205</div>` +
		`</a>`
}

const aptalikoNextEnabled = `<button class="o-pag__link pagination-link o-pag__next">Next</button>`

func TestAptalikoStopsOnEmptyPage(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		aptalikoPageBase + "1": aptalikoCard("Alpha", "2025-09-12T21:00") + aptalikoNextEnabled,
		aptalikoPageBase + "2": aptalikoCard("Beta", "2025-09-13T21:00") + aptalikoNextEnabled,
		aptalikoPageBase + "3": `<div class="results"></div>` + aptalikoNextEnabled,
	}}

	adapter := NewAptaliko(Deps{Fetcher: fetcher, Log: logger.NewNop(), MaxPages: 50, Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(fetcher.calls) != 3 {
		t.Fatalf("fetched %d pages, want 3 (stop right after the empty page)", len(fetcher.calls))
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	if events[0].Title != "Alpha" || events[1].Title != "Beta" {
		t.Errorf("events out of page order: %q, %q", events[0].Title, events[1].Title)
	}

	if events[0].DetailsURL != aptalikoOrigin+"/events/alpha" {
		t.Errorf("DetailsURL = %q, want origin-resolved", events[0].DetailsURL)
	}
}

func TestAptalikoStopsOnDisabledNext(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		aptalikoPageBase + "1": aptalikoCard("Alpha", "2025-09-12T21:00") +
			`<button class="o-pag__link pagination-link o-pag__next o-pag__link--disabled">Next</button>`,
	}}

	adapter := NewAptaliko(Deps{Fetcher: fetcher, Log: logger.NewNop(), MaxPages: 50, Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(fetcher.calls) != 1 {
		t.Fatalf("fetched %d pages, want 1", len(fetcher.calls))
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestAptalikoHonorsPageGuard(t *testing.T) {
	page := aptalikoCard("Loop", "2025-09-12T21:00") + aptalikoNextEnabled

	fetcher := &stubFetcher{pages: map[string]string{
		aptalikoPageBase + "1": page,
		aptalikoPageBase + "2": page,
		aptalikoPageBase + "3": page,
	}}

	adapter := NewAptaliko(Deps{Fetcher: fetcher, Log: logger.NewNop(), MaxPages: 2, Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(fetcher.calls) != 2 {
		t.Fatalf("fetched %d pages, want 2 (guard)", len(fetcher.calls))
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestIereiesPeelsClockFromVenue(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		iereiesPageURL: `
			<a class="flex-events-a">
				<div class="flex-eventsimg"><img src="/img/one.jpg"></div>
				<div class="flex-eventsinfo-h"><h2>Night Shift</h2></div>
				<div class="flex-eventsinfo-p">ΠΑΡ 27/6</div>
				<div class="flex-eventsinfo-more-details">21:30Death Disco</div>
				<div class="btn" href="/events/night-shift"></div>
			</a>
			<a class="flex-events-a">
				<div class="flex-eventsinfo-h"><h2>Open Air</h2></div>
				<div class="flex-eventsinfo-p">ΣΑΒ 28/6</div>
				<div class="flex-eventsinfo-more-details">22:00</div>
				<div class="btn" href="/events/open-air"></div>
			</a>`,
	}}

	adapter := NewIereies(Deps{Fetcher: fetcher, Log: logger.NewNop(), Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.Location != "Death Disco" {
		t.Errorf("Location = %q, want %q", first.Location, "Death Disco")
	}

	wantStart := time.Date(2025, time.June, 27, 21, 30, 0, 0, time.UTC)
	if !first.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", first.Start, wantStart)
	}

	if first.ImageURL != iereiesOrigin+"/img/one.jpg" {
		t.Errorf("ImageURL = %q, want origin-resolved", first.ImageURL)
	}

	// Venue text that is all clock leaves the location empty.
	if events[1].Location != "" {
		t.Errorf("Location = %q, want empty", events[1].Location)
	}
}

func TestClubberGroupedExtraction(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		clubberPageURL: `
			<div class="em-events-list-grouped">
				<h2>Thu, 28 August</h2>
				<div style="display: flex;">
					<img src="/media/afterdark.jpg">
					<span><b>Afterdark</b> Six D.O.G.S 23:30 – 05:00</span>
				</div>
				<h2>Fri, 29 August</h2>
				<div style="display: flex;">
					<span><b>Rooftop Session</b> Romantso 20:00 – 23:00</span>
				</div>
				<div class="ad-slot">not an event row</div>
			</div>`,
	}}

	adapter := NewClubber(Deps{Fetcher: fetcher, Log: logger.NewNop(), Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.Title != "Afterdark" {
		t.Errorf("Title = %q, want %q", first.Title, "Afterdark")
	}

	if first.Location != "Six D.O.G.S" {
		t.Errorf("Location = %q, want %q", first.Location, "Six D.O.G.S")
	}

	wantStart := time.Date(2025, time.August, 28, 23, 30, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.August, 29, 5, 0, 0, 0, time.UTC)

	if !first.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", first.Start, wantStart)
	}

	if !first.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v (past-midnight rollover)", first.End, wantEnd)
	}

	second := events[1]
	if !second.End.After(second.Start) || !second.End.Equal(time.Date(2025, time.August, 29, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v, want same-day 23:00", second.End)
	}
}

func TestSummaryDateText(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name: "date with clock",
			fragment: `<div><p class="summary" style="display: block;">` +
				`<strong>27/07</strong> στις 9.30 μ.μ.</p></div>`,
			want: "27/07 στις 9.30 μ.μ.",
		},
		{
			name: "date only",
			fragment: `<p class="summary" style="display:block">` +
				`<strong>3/8</strong></p>`,
			want: "3/8",
		},
		{
			name:     "hidden summary ignored",
			fragment: `<p class="summary" style="display: none;"><strong>27/07</strong></p>`,
			want:     "",
		},
		{
			name:     "no summary",
			fragment: `<p>plain prose, nothing dated</p>`,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryDateText(tt.fragment); got != tt.want {
				t.Errorf("summaryDateText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTicketmasterEndFallsBackToStart(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		ticketmasterPageURL: `
			<div class="event" data-venue="Technopolis" data-start-date="2025-07-04 21:00:00.000000" data-end-date="2025-07-04 23:30:00">
				<h3 class="evTitle">Full Range</h3>
				<a href="/tickets/full-range.html"></a>
			</div>
			<div class="event" data-venue="Lycabettus" data-start-date="2025-07-05 20:00:00" data-end-date="">
				<h3 class="evTitle">No End Given</h3>
				<a href="/tickets/no-end.html"></a>
			</div>
			<div class="event" data-venue="Nowhere" data-start-date="someday" data-end-date="">
				<h3 class="evTitle">Bad Start</h3>
				<a href="/tickets/bad.html"></a>
			</div>`,
	}}

	adapter := NewTicketmaster(Deps{Fetcher: fetcher, Log: logger.NewNop(), Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (unparseable start dropped)", len(events))
	}

	first := events[0]
	wantStart := time.Date(2025, time.July, 4, 21, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.July, 4, 23, 30, 0, 0, time.UTC)

	if !first.Start.Equal(wantStart) || !first.End.Equal(wantEnd) {
		t.Errorf("range = [%v, %v], want [%v, %v]", first.Start, first.End, wantStart, wantEnd)
	}

	second := events[1]
	if !second.End.Equal(second.Start) {
		t.Errorf("End = %v, want fallback to Start %v", second.End, second.Start)
	}
}

func TestTicketservicesFlattensTitleMarkup(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		ticketservicesPageURL: `
			<li class="event" data-title="The National &lt;br&gt; Special Guests" data-venues="Release Athens Park" data-dates="2025-06-20|2025-06-21|2025-06-22">
				<a href="/en/music/the-national/"></a>
				<img src="/images/national.jpg">
			</li>`,
	}}

	adapter := NewTicketservices(Deps{Fetcher: fetcher, Log: logger.NewNop(), Now: fixedNow})

	events, err := adapter.Crawl(context.Background())
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.Title != "The National Special Guests" {
		t.Errorf("Title = %q, want markup flattened", ev.Title)
	}

	wantStart := time.Date(2025, time.June, 20, 21, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.June, 22, 21, 0, 0, 0, time.UTC)

	if !ev.Start.Equal(wantStart) || !ev.End.Equal(wantEnd) {
		t.Errorf("range = [%v, %v], want [%v, %v]", ev.Start, ev.End, wantStart, wantEnd)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A<br>B", "A B"},
		{"  plain   text ", "plain text"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
	}

	for _, tt := range tests {
		if got := htmlToText(tt.in); got != tt.want {
			t.Errorf("htmlToText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnabledFiltersAdapters(t *testing.T) {
	d := Deps{Log: logger.NewNop()}

	on := map[string]bool{"clubber.gr": true, "more.com": true}

	adapters := Enabled(d, func(name string) bool { return on[name] })

	if len(adapters) != 2 {
		t.Fatalf("got %d adapters, want 2", len(adapters))
	}

	if adapters[0].Name() != "clubber.gr" || adapters[1].Name() != "more.com" {
		t.Errorf("adapter order = %q, %q; want canonical order preserved", adapters[0].Name(), adapters[1].Name())
	}
}
