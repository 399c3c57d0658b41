// @title Exam Paper Engine API
// @version 1.0
// @description Question paper import, transformation and answer grading service.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/app"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/config"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/configwatcher"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	// Hot-reload the import/rate-limit tuning on config file edits. Server
	// and database settings keep requiring a restart.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(next interface{}) {
		if updated, ok := next.(*config.Config); ok {
			cfg.Import = updated.Import
			cfg.RateLimit = updated.RateLimit
			logger.Log.Info("Configuration reloaded")
		}
	})

	application.Run()
}
