package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"gigradar/internal/config"
)

// ErrFooterNotReached reports that the footer landmark never entered the
// viewport within the scroll-step budget.
var ErrFooterNotReached = errors.New("footer not reached within scroll budget")

// ScrollOptions drives the scroll-until-footer loop that forces
// lazy-loaded content to materialize before the DOM is read.
type ScrollOptions struct {
	FooterSelector string
	WaitSelector   string
	CookieSelector string
	StepPx         int
	Pause          time.Duration
	MaxSteps       int
}

// Renderer renders a JavaScript-driven page to markup. Like Fetcher it is
// an external collaborator contract; adapters never see the browser.
type Renderer interface {
	RenderScrolled(ctx context.Context, url string, opts ScrollOptions) (string, error)
}

// ChromeRenderer renders pages in a headless browser.
type ChromeRenderer struct {
	timeout  time.Duration
	headless bool
}

// NewChromeRenderer creates a renderer from the browser configuration.
func NewChromeRenderer(cfg config.BrowserConfig) *ChromeRenderer {
	return &ChromeRenderer{
		timeout:  cfg.Timeout(),
		headless: cfg.Headless,
	}
}

// RenderScrolled navigates to url, scrolls until the footer landmark is in
// the viewport, then returns the rendered markup. The polling loop is
// bounded by opts.MaxSteps and the renderer's timeout; the external page
// signal alone is never trusted to arrive.
func (r *ChromeRenderer) RenderScrolled(ctx context.Context, url string, opts ScrollOptions) (string, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", r.headless),
		chromedp.Flag("disable-http2", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}

	if opts.CookieSelector != "" {
		// Best effort: not every visitor sees the consent banner.
		clickJS := fmt.Sprintf(
			`(() => { const el = document.querySelector(%q); if (el) el.click(); return true; })()`,
			opts.CookieSelector,
		)
		_ = chromedp.Run(tabCtx, chromedp.Evaluate(clickJS, nil))
	}

	if err := r.scrollUntilFooter(tabCtx, opts); err != nil {
		return "", err
	}

	if opts.WaitSelector != "" {
		if err := chromedp.Run(tabCtx, chromedp.WaitReady(opts.WaitSelector, chromedp.ByQuery)); err != nil {
			return "", fmt.Errorf("wait for %s: %w", opts.WaitSelector, err)
		}
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}

	return html, nil
}

func (r *ChromeRenderer) scrollUntilFooter(ctx context.Context, opts ScrollOptions) error {
	visibleJS := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			return el.getBoundingClientRect().top <= window.innerHeight;
		})()`,
		opts.FooterSelector,
	)
	scrollJS := fmt.Sprintf("window.scrollBy(0, %d)", opts.StepPx)

	for step := 0; step < opts.MaxSteps; step++ {
		var visible bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(visibleJS, &visible)); err != nil {
			return fmt.Errorf("footer check: %w", err)
		}

		if visible {
			return nil
		}

		if err := chromedp.Run(ctx,
			chromedp.Evaluate(scrollJS, nil),
			chromedp.Sleep(opts.Pause),
		); err != nil {
			return fmt.Errorf("scroll step: %w", err)
		}
	}

	return fmt.Errorf("%w: %s after %d steps", ErrFooterNotReached, opts.FooterSelector, opts.MaxSteps)
}
