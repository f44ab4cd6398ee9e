// Package pipeline runs the configured source adapters in sequence and
// persists whatever each one yields.
package pipeline

import (
	"context"

	"gigradar/internal/crawler"
	"gigradar/internal/database"
	"gigradar/internal/logger"
	"gigradar/internal/models"
)

// Store persists normalized events. *database.Repository satisfies it.
type Store interface {
	UpsertEvents(ctx context.Context, events []models.Event) (database.UpsertStats, error)
}

// SourceResult is one adapter's outcome within a run.
type SourceResult struct {
	Source   string
	Found    int
	Inserted int
	Updated  int
	Skipped  int
	Err      error
}

// Runner executes a crawl-and-persist cycle over a fixed adapter list.
type Runner struct {
	adapters []crawler.Adapter
	store    Store
	log      *logger.Logger
}

// NewRunner creates a runner.
func NewRunner(adapters []crawler.Adapter, store Store, log *logger.Logger) *Runner {
	return &Runner{adapters: adapters, store: store, log: log}
}

// Run crawls every adapter in order. A failing or empty source never stops
// the run; its result records what happened and the next source proceeds.
// Each source's batch is persisted before the next source starts.
func (r *Runner) Run(ctx context.Context) []SourceResult {
	results := make([]SourceResult, 0, len(r.adapters))

	for _, adapter := range r.adapters {
		res := SourceResult{Source: adapter.Name()}

		events, err := adapter.Crawl(ctx)
		if err != nil {
			r.log.Error("source failed", "source", res.Source, "error", err)

			res.Err = err
			results = append(results, res)

			continue
		}

		res.Found = len(events)

		if len(events) == 0 {
			r.log.Warn("source yielded no events", "source", res.Source)

			results = append(results, res)

			continue
		}

		stats, err := r.store.UpsertEvents(ctx, events)
		if err != nil {
			r.log.Error("persist failed", "source", res.Source, "error", err)

			res.Err = err
			results = append(results, res)

			continue
		}

		res.Inserted = stats.Inserted
		res.Updated = stats.Updated
		res.Skipped = stats.Skipped

		r.log.Info("source persisted",
			"source", res.Source,
			"found", res.Found,
			"inserted", res.Inserted,
			"updated", res.Updated,
			"skipped", res.Skipped)

		results = append(results, res)
	}

	return results
}
