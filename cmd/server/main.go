package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/config"
	"github.com/glscharan9/ai-health-companion/internal/handler"
	"github.com/glscharan9/ai-health-companion/internal/llm"
	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/middleware"
	"github.com/glscharan9/ai-health-companion/internal/prompt"
	"github.com/glscharan9/ai-health-companion/internal/service"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		logger.Error("db connect failed", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	if err := store.Migrate(db); err != nil {
		logger.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	middleware.JWTSecret = []byte(cfg.Auth.JWTSecret)
	middleware.TokenTTL = cfg.TokenTTL()

	client := llm.NewClient(llm.Options{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		RecipeModel: cfg.LLM.RecipeModel,
		Timeout:     cfg.LLMTimeout(),
	})
	if !client.Configured() {
		logger.Warn("model api key not set; plan, swap and recipe requests will fail")
	}

	users := store.NewUserStore(db)
	plans := store.NewPlanStore(db)
	progress := store.NewProgressStore(db)

	authSvc := service.NewAuthService(users)
	planSvc := service.NewPlanService(users, plans, client, prompt.NewBuilder(cfg.Plans.CuisineRegion))
	progressSvc := service.NewProgressService(progress, plans, cfg.Plans.HistoryLimit)

	if cfg.MOI.Catalog.Enabled {
		raw, err := cfg.NewRawClient()
		if err != nil {
			logger.Warn("sdk client init failed, catalog mirror disabled", "err", err)
		} else {
			progressSvc.WithMirror(service.NewCatalogSync(raw, cfg.MOI.Catalog.DatabaseID, cfg.MOI.Catalog.ProgressTableID))
			logger.Info("catalog mirror enabled", "table_id", cfg.MOI.Catalog.ProgressTableID)
		}
	}

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"X-New-Token", middleware.HeaderRequestID, "Content-Disposition"},
	}))

	handler.Routes(r,
		handler.NewAuthHandler(authSvc),
		handler.NewPlanHandler(planSvc, service.NewExportService()),
		handler.NewProgressHandler(progressSvc),
	)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		logger.Info("server starting", "addr", cfg.Addr(), "driver", cfg.Database.Driver, "model", cfg.LLM.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	// pending catalog mirror writes
	progressSvc.Wait()
	logger.Info("server stopped")
}
