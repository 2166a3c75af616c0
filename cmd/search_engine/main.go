package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gcbaptista/go-ranking-engine/api"
	"github.com/gcbaptista/go-ranking-engine/config"
	"github.com/gcbaptista/go-ranking-engine/internal/engine"
	internalErrors "github.com/gcbaptista/go-ranking-engine/internal/errors"
	"github.com/gcbaptista/go-ranking-engine/internal/logging"
	"github.com/gcbaptista/go-ranking-engine/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", os.Getenv("RANKING_CONFIG"), "Path to a YAML configuration file")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Go Ranking Engine - query execution with typo tolerance, filters and hybrid ranking\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment:\n")
		fmt.Printf("  RANKING_PORT, RANKING_DATA_DIR, RANKING_LOG_LEVEL, RANKING_LOG_FORMAT override the file values\n")
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                               # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --config ranking.yaml         # Load settings and startup indexes from a file\n", os.Args[0])
		fmt.Printf("  RANKING_PORT=9000 %s             # Start server on port 9000\n", os.Args[0])
		return
	}
	if *version {
		fmt.Printf("Go Ranking Engine v1.0.0\n")
		return
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger := logging.WithComponent("main")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	logger.Info("using data directory", "dir", cfg.DataDir)
	rankingEngine := engine.NewEngine(cfg.DataDir, engine.WithMetrics(m))
	for _, settings := range cfg.Indexes {
		err := rankingEngine.CreateIndex(settings)
		switch {
		case err == nil:
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			logger.Debug("startup index already present", "index", settings.Name)
		default:
			logger.Error("failed to create startup index", "index", settings.Name, "error", err)
			os.Exit(1)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, rankingEngine, m)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	for _, name := range rankingEngine.ListIndexes() {
		if err := rankingEngine.PersistIndexData(name); err != nil {
			logger.Error("failed to persist index on shutdown", "index", name, "error", err)
		}
	}
	logger.Info("stopped")
}
