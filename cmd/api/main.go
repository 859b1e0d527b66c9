package main

import (
	"context"
	"net/http"
	"time"

	"lingobridge/internal/config"
	"lingobridge/internal/httpapi"
	"lingobridge/internal/jobs"
	"lingobridge/internal/pkg/logger"
	"lingobridge/internal/pkg/shutdown"
	"lingobridge/internal/poller"
	"lingobridge/internal/renamer"
	"lingobridge/internal/storage"
	"lingobridge/internal/storage/urlsign"
	"lingobridge/internal/translator"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "lingobridge-api",
		AddSource:   cfg.LogSource,
	})

	log.Info("starting lingobridge API",
		"version", "0.1.0",
	)

	if cfg.TranslatorEndpoint == "" || cfg.TranslatorKey == "" {
		log.Error("missing required environment variable",
			"keys", "AZURE_TRANSLATOR_ENDPOINT, AZURE_TRANSLATOR_KEY")
		log.LogFatal("translator not configured", nil)
	}
	if cfg.StorageProvider != "azureblob" && cfg.URLSigningSecret == "" {
		log.LogFatal("URL_SIGNING_SECRET is required for the "+cfg.StorageProvider+" provider", nil)
	}

	ctx := context.Background()

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Job table backend
	log.Info("initializing job store", "backend", cfg.JobStore)
	jobStore, err := jobs.NewStore(ctx, cfg)
	if err != nil {
		log.LogFatal("failed to initialize job store", err)
	}
	shutdownMgr.Register("job-store", func(ctx context.Context) error {
		return jobStore.Close()
	})

	// Blob storage provider
	log.Info("initializing storage provider")
	signer := urlsign.New(cfg.URLSigningSecret, cfg.PublicBaseURL)
	blobStore, err := storage.NewBlobStore(cfg, signer)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider initialized", "provider", blobStore.Provider())

	// Translator client + background poller
	tc := translator.NewHTTPClient(cfg.TranslatorEndpoint, cfg.TranslatorKey)
	rn := renamer.New(blobStore, cfg.RenamePrefix, log)
	pl := poller.New(poller.Deps{
		Translator:    tc,
		Jobs:          jobStore,
		Renamer:       rn,
		Log:           log,
		Interval:      cfg.PollInterval,
		MaxWait:       cfg.PollMaxWait,
		MaxConcurrent: cfg.PollMaxConcurrent,
	})

	// Create HTTP router
	router := httpapi.NewRouter(handlersDeps(cfg, log, jobStore, blobStore, tc, pl, signer, shutdownMgr))

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Stop the server first, then give in-flight polling loops a moment to
	// record their last observation.
	shutdownMgr.Register("poller", func(ctx context.Context) error {
		return pl.Drain(ctx)
	})
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	// Start server in goroutine
	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", cfg.HTTPPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	// Wait for shutdown signal
	shutdownMgr.Wait()
}

func handlersDeps(
	cfg *config.Config,
	log *logger.Logger,
	jobStore jobs.Store,
	blobStore storage.BlobStore,
	tc translator.Client,
	pl *poller.Poller,
	signer *urlsign.Signer,
	shutdownMgr *shutdown.Manager,
) httpapi.Deps {
	return httpapi.Deps{
		Jobs:       jobStore,
		Blobs:      blobStore,
		Translator: tc,
		Poller:     pl,
		Signer:     signer,
		Cfg:        cfg,
		Log:        log,
		PollCtx:    shutdownMgr.Context(),
	}
}
