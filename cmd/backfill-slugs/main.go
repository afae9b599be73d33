// Command backfill-slugs assigns slugs to articles stored before slugs existed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/database"
	"github.com/news-cms-api/internal/repository"
	"github.com/news-cms-api/internal/service"
	"github.com/news-cms-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens
func run() int {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Options{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Env: cfg.Env})

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	services, err := service.NewServices(repository.New(db), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := services.Article.BackfillSlugs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Slug backfill interrupted")
	}
	if report == nil {
		return 1
	}

	for _, assigned := range report.Assigned {
		log.Info().
			Int64("article_id", assigned.ID).
			Str("title", assigned.Title).
			Str("slug", assigned.Slug).
			Msg("Assigned slug")
	}

	log.Info().
		Int("total", report.Total).
		Int("missing", report.Missing).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Strs("errors", report.Errors).
		Msg("Backfill report")

	if err != nil || report.Failed > 0 {
		return 1
	}
	return 0
}
