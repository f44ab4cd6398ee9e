// Package main runs one full crawl-and-persist cycle over the configured
// event sources and prints a per-source summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gigradar/internal/config"
	"gigradar/internal/crawler"
	"gigradar/internal/crawler/sources"
	"gigradar/internal/database"
	"gigradar/internal/logger"
	"gigradar/internal/pipeline"
	"gigradar/internal/report"
)

func main() {
	configPath := flag.String("config", "configs/crawler.yaml", "Path to the YAML configuration file")
	flag.Parse()

	// Optional; configuration may also come entirely from the YAML file.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStderr(cfg.Crawler.Logging.Level)

	log.Info("🚀 starting crawl", "config", cfg.String())

	db, err := database.Open(cfg.Crawler.Database.Path)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := sources.Deps{
		Fetcher:  crawler.NewHTTPFetcher(cfg.Crawler.HTTP),
		Renderer: crawler.NewChromeRenderer(cfg.Crawler.Browser),
		Log:      log,
		MaxPages: cfg.Crawler.Limits.MaxPages,
		Scroll: crawler.ScrollOptions{
			StepPx:   cfg.Crawler.Browser.ScrollStepPx,
			Pause:    cfg.Crawler.Browser.ScrollPause(),
			MaxSteps: cfg.Crawler.Browser.MaxScrollSteps,
		},
	}

	adapters := sources.Enabled(deps, cfg.SourceEnabled)
	if len(adapters) == 0 {
		log.Error("no enabled source matches a known adapter", "enabled", cfg.EnabledSources())
		os.Exit(1)
	}

	start := time.Now()

	runner := pipeline.NewRunner(adapters, database.NewRepository(db), log)
	results := runner.Run(ctx)

	fmt.Println()
	fmt.Print(report.Summary(results))
	fmt.Println()

	found, inserted, updated, skipped, failed := report.Totals(results)

	fmt.Printf("✅ %d found, %d inserted, %d updated, %d skipped in %v\n",
		found, inserted, updated, skipped, time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		fmt.Printf("⚠️  %d of %d sources failed\n", failed, len(results))
	}

	if failed == len(results) {
		os.Exit(1)
	}
}
