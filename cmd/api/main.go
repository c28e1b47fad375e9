package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/WCLondon/Optimiser-sub001/internal/api/handlers"
	"github.com/WCLondon/Optimiser-sub001/internal/api/middleware"
	"github.com/WCLondon/Optimiser-sub001/internal/config"
	"github.com/WCLondon/Optimiser-sub001/internal/data"
)

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := cfg.Format
	if format == "" {
		format = "json"
	}
	var zc zap.Config
	switch format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zc.Level = zap.NewAtomicLevelAt(zapLevel)
	return zc.Build()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration at %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	logger, err := buildLogger(conf.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	store := data.NewStore(conf.Snapshot, snapshotTTL())
	// Load once at startup so a broken snapshot fails fast, not on the
	// first quote.
	snap, err := store.Current()
	if err != nil {
		logger.Fatal("failed to load reference snapshot", zap.Error(err))
	}
	logger.Info("reference snapshot loaded",
		zap.String("hash", snap.Hash),
		zap.Int("inventory_rows", len(snap.Inventory)),
		zap.Int("pricing_rows", len(snap.Pricing)),
		zap.Int("catalog_rows", len(snap.Catalog)),
	)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())

	quoteHandler := handlers.NewQuoteHandler(store, conf.Optimiser)
	banksHandler := handlers.NewBanksHandler(store, conf.Optimiser)
	refDataHandler := handlers.NewRefDataHandler(store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/quote", quoteHandler.RunQuote)
		api.GET("/banks", banksHandler.ListBanks)
		api.GET("/refdata", refDataHandler.GetRefData)
		api.POST("/refdata/reload", refDataHandler.ReloadRefData)
	}

	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func snapshotTTL() time.Duration {
	if s := os.Getenv("SNAPSHOT_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 0 // store default
}
