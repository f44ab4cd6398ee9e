package crawler

import (
	"context"

	"gigradar/internal/models"
)

// Adapter is the shared capability every source implements: crawl one site
// and return its normalized events. A fetch, render or decode failure is
// returned as an error with zero events; the orchestrator decides what
// survives it (everything — a single source never aborts the batch).
type Adapter interface {
	Name() string
	Crawl(ctx context.Context) ([]models.Event, error)
}
