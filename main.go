package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/faturamento/backend/src/config"
	"github.com/username/faturamento/backend/src/handlers"
	"github.com/username/faturamento/backend/src/logger"
	"github.com/username/faturamento/backend/src/processors"
	"github.com/username/faturamento/backend/src/services"
	"golang.org/x/time/rate"
)

func loadSynonyms(path string) map[string][]string {
	if path == "" {
		return processors.ColumnSynonyms
	}
	extra, err := processors.LoadSynonymsFile(path)
	if err != nil {
		logger.L.Error("Failed to load column synonyms, using built-in table", "path", path, "error", err)
		return processors.ColumnSynonyms
	}
	logger.L.Info("Column synonyms loaded", "path", path, "fields", len(extra))
	return processors.MergeSynonyms(processors.ColumnSynonyms, extra)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Faturamento backend server starting...")

	logger.L.Info("Initializing dataset store...")
	datasetCache := cache.New(config.Cfg.DatasetExpiration, config.Cfg.DatasetCleanupInterval)
	logger.L.Info("Dataset store initialized.", "expiration", config.Cfg.DatasetExpiration)

	logger.L.Info("Initializing services and handlers...")
	reportService := services.NewReportService(
		processors.NewSchemaNormalizer(loadSynonyms(config.Cfg.ColumnSynonymsPath)),
		processors.NewValueCoercer(),
		processors.NewMarginEngine(),
		processors.NewFilterEngine(),
		processors.NewAggregator(),
		datasetCache,
	)
	datasetHandler := handlers.NewDatasetHandler(reportService)
	reportHandler := handlers.NewReportHandler(reportService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()
	handlers.RegisterRoutes(apiRouter, datasetHandler, reportHandler)
	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Faturamento backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	finalHandler := handlers.CORSMiddleware(config.Cfg.AllowedOrigins)(handlers.RateLimitMiddleware(limiter)(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
