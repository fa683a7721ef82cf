package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"cadetboard/internal/api/routes"
	"cadetboard/internal/config"
	"cadetboard/internal/events"
	"cadetboard/internal/logging"
	"cadetboard/internal/models"
	"cadetboard/internal/notify"
	"cadetboard/internal/rbac"
	"cadetboard/internal/services"
	"cadetboard/internal/store"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level)

	// Initialize the tabular store
	ctx := context.Background()
	var st store.Store
	switch cfg.Store.Backend {
	case "sheets":
		st, err = store.NewSheets(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize sheets store: %v", err)
		}
	case "local":
		db, err := models.InitDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		local := store.NewLocal(db)
		for sheet, header := range map[string][]string{
			cfg.Store.RecordsSheet: models.RecordsHeader,
			cfg.Store.RosterSheet:  models.RosterHeader,
			cfg.Store.CadetsSheet:  models.CadetsHeader,
		} {
			if err := local.EnsureSheet(ctx, sheet, header); err != nil {
				log.Fatalf("Failed to seed sheet %q: %v", sheet, err)
			}
		}
		st = local
	}

	// Access policy state: injected, never global
	tracker := rbac.NewTracker()
	cache := rbac.NewRoleCache(cfg.RoleCacheTTL())
	engine := rbac.NewEngine(tracker, cfg.Access.EditLimitMinutes, cfg.Access.EditLimitCount)

	notifier := notify.NewWebhook(cfg.Notify.WebhookURL, cfg.NotifyTimeout())

	var publisher services.EventPublisher
	if len(cfg.Events.Brokers) > 0 {
		p := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		defer p.Close()
		publisher = p
		logger.Info("event stream enabled", "topic", cfg.Events.Topic)
	}

	authService := services.NewAuthService(cfg, st, cache, engine, logger)
	recordService := services.NewRecordService(cfg, st, notifier, publisher, logger)
	cadetService := services.NewCadetService(cfg, st)

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, cfg, routes.Deps{
		Auth:    authService,
		Records: recordService,
		Cadets:  cadetService,
		Log:     logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting CadetBoard server", "addr", addr, "store", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
