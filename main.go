package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"summaryplus/internal/api"
	"summaryplus/internal/config"
	"summaryplus/internal/logging"
	rediswrap "summaryplus/internal/redis"
	"summaryplus/internal/service/ai"
	"summaryplus/internal/service/study"
	"summaryplus/internal/service/websearch"
	"summaryplus/internal/session"
)

func main() {
	// Credentials may live in a local .env file, like they always have.
	_ = godotenv.Load()

	cfgPath := os.Getenv("SUMMARYPLUS_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(gin.Mode() != gin.ReleaseMode)
	defer logger.Sync()

	ttl := time.Duration(cfg.BasicConfig.SessionTTLMinutes) * time.Minute
	var store session.Store
	switch cfg.BasicConfig.SessionStore {
	case "redis":
		rdb, err := rediswrap.NewClient(cfg)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, ttl)
	default:
		store = session.NewMemoryStore(ttl)
	}

	// A missing API key is surfaced per request as a configuration error
	// instead of refusing to start, so the rest of the app stays usable.
	var generator ai.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := ai.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("init gemini service: %v", err)
		}
		generator = gemini
	} else {
		logger.Warn("GOOGLE_API_KEY no configurada; las peticiones devolverán un error de configuración")
	}

	var search study.Searcher
	if cfg.BasicConfig.EnableWebSearch {
		if ws := websearch.New(logger); ws != nil {
			search = ws
		}
	}

	service := study.NewService(study.Config{
		Store:            store,
		Generator:        generator,
		Search:           search,
		Logger:           logger,
		AllowTextUploads: cfg.BasicConfig.AllowTextUploads,
		AITimeout:        time.Duration(cfg.BasicConfig.AITimeoutSeconds) * time.Second,
	})
	handlers := api.NewHandler(service, logger)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	logger.Info("servidor iniciado", zap.String("addr", cfg.BasicConfig.ServerAddress))
	if err := router.Run(cfg.BasicConfig.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
