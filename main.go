package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"bizsaver/internal/catalog"
	"bizsaver/internal/config"
	"bizsaver/internal/extractor"
	"bizsaver/internal/handlers"
	"bizsaver/internal/logger"
	"bizsaver/internal/middleware"
	"bizsaver/internal/monitor"
	"bizsaver/internal/notifier"
	sentryutil "bizsaver/internal/sentry"
	"bizsaver/internal/store"
)

func main() {
	// Load configuration from .env and environment variables
	config.Load()

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init()
	defer sentryutil.Flush()

	// Initialize persistent counter
	handlers.InitCounter()

	st, err := store.Open(config.Cfg.DatabasePath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer st.Close()

	cat := catalog.New()

	// Extractor is optional: without GEMINI_API_KEY the analyze endpoint
	// answers 503 but the rest of the API works.
	var ext *extractor.Extractor
	if config.Cfg.GeminiAPIKey != "" {
		client, err := extractor.NewClient(context.Background(), config.Cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("gemini: %v", err)
		}
		ext = extractor.New(client, config.Cfg.GeminiModel)
	} else {
		logger.Warn("GEMINI_API_KEY mancante: analisi documenti disabilitata", nil)
	}

	var notif monitor.Notifier
	if n := notifier.New(config.Cfg.ResendAPIKey, config.Cfg.NotifyFrom, config.Cfg.NotifyTo); n != nil {
		notif = n
	}
	runner := monitor.NewRunner(st, cat, notif, config.Cfg.MonitorThreshold)

	api := &handlers.API{Store: st, Extractor: ext, Catalog: cat, Monitor: runner}

	// Rate limiter from config
	limiter := handlers.NewRateLimiter(config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst)

	mux := http.NewServeMux()

	// API routes
	mux.HandleFunc("/api/analyze", api.AnalyzeHandler)
	mux.HandleFunc("/api/suggest", api.SuggestHandler)
	mux.HandleFunc("/api/monitor", api.MonitorHandler)
	mux.HandleFunc("/api/analyses", api.AnalysesHandler)
	mux.HandleFunc("/api/analyses/", api.AnalysesHandler)
	mux.HandleFunc("/api/report", api.ReportHandler)
	mux.HandleFunc("/api/health", api.HealthHandler)

	// Admin routes (protected by ADMIN_API_KEY)
	mux.HandleFunc("/api/admin/improvements", monitor.AdminImprovementsHandler)

	// Wrap with middleware: Recovery → SecurityHeaders → Gzip (if enabled) → Rate Limiter
	var handler http.Handler = limiter.Middleware(mux)
	if config.Cfg.GzipEnabled {
		handler = middleware.Gzip(handler)
	}
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Recovery(handler)

	// Monitor pass at boot + daily at midnight (respects config)
	if config.Cfg.MonitorEnabled {
		go func() {
			time.Sleep(config.Cfg.MonitorDelay)
			if _, err := runner.Run(context.Background()); err != nil {
				logger.Error("monitor: boot run failed", map[string]interface{}{"error": err.Error()})
			}
		}()

		go func() {
			for {
				now := time.Now()
				next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
				time.Sleep(time.Until(next))
				if _, err := runner.Run(context.Background()); err != nil {
					logger.Error("monitor: scheduled run failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}()
	}

	logger.Info("server starting", map[string]interface{}{"port": config.Cfg.Port})
	fmt.Printf("BizSaver running on http://localhost:%s\n", config.Cfg.Port)
	log.Fatal(http.ListenAndServe(":"+config.Cfg.Port, handler))
}
