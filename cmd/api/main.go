// Package main serves the stored events over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"gigradar/internal/api"
	"gigradar/internal/config"
	"gigradar/internal/database"
	"gigradar/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/crawler.yaml", "Path to the YAML configuration file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStderr(cfg.Crawler.Logging.Level)

	db, err := database.Open(cfg.Crawler.Database.Path)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := api.NewServer(database.NewRepository(db), log)

	log.Info("🚀 serving events", "addr", cfg.API.ListenAddr)

	if err := srv.Router().Run(cfg.API.ListenAddr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
