package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"gigradar/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Several sources block default Go user agents.
const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"

// Fetcher turns a URL into a parsed document. Adapters depend only on this
// contract, never on how pages are actually fetched.
type Fetcher interface {
	Document(ctx context.Context, url string) (*goquery.Document, error)
}

// HTTPFetcher fetches static pages over plain HTTP with bounded retry.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher from the HTTP configuration.
func NewHTTPFetcher(cfg config.HTTPConfig) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.HTTPTimeout()).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait()).
		SetHeader("User-Agent", desktopUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return &HTTPFetcher{client: client}
}

// HTML fetches the raw markup of the given URL.
func (f *HTTPFetcher) HTML(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("fetch %s: %w: %d", url, ErrUnexpectedStatusCode, resp.StatusCode())
	}

	return resp.String(), nil
}

// Document fetches and parses the given URL.
func (f *HTTPFetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := f.HTML(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	return doc, nil
}
