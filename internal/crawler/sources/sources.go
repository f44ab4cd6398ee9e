// Package sources contains one extraction adapter per listing site. Every
// adapter owns its field-mapping schema and assembles raw date/time text
// for its registered normalizer; everything downstream of extraction is
// shared machinery.
package sources

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"gigradar/internal/crawler"
	"gigradar/internal/logger"
)

// Deps carries the collaborators and limits shared by all adapters.
type Deps struct {
	Fetcher  crawler.Fetcher
	Renderer crawler.Renderer
	Log      *logger.Logger
	// MaxPages bounds the pagination loop of page-numbered sources.
	MaxPages int
	// Scroll tunes the scroll-until-footer loop of browser-driven sources.
	// Landmark selectors are fixed per adapter.
	Scroll crawler.ScrollOptions
	// Now supplies the reference time for year injection. Defaults to the
	// wall clock.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}

// All returns the fixed adapter list in its canonical run order.
func All(d Deps) []crawler.Adapter {
	return []crawler.Adapter{
		NewIereies(d),
		NewAptaliko(d),
		NewAthinorama(d),
		NewClubber(d),
		NewMoreCom(d),
		NewTicketmaster(d),
		NewTicketservices(d),
	}
}

// Enabled filters the fixed list down to the sources the configuration
// has switched on.
func Enabled(d Deps, enabled func(name string) bool) []crawler.Adapter {
	var out []crawler.Adapter

	for _, a := range All(d) {
		if enabled(a.Name()) {
			out = append(out, a)
		}
	}

	return out
}

// htmlToText flattens an HTML fragment to its visible text, separating
// element boundaries with spaces and collapsing runs of whitespace.
func htmlToText(fragment string) string {
	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var parts []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
