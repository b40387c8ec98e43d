package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/api"
	"github.com/lysyi3m/podcast-feeds/app/cfg"
	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/shows"
	"github.com/lysyi3m/podcast-feeds/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting Podcast Feeds", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	configCache := shows.NewConfigCache(appCfg.ShowsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load show definitions", "dir", appCfg.ShowsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Show definitions loaded", "count", configCache.GetConfigCount(), "dir", appCfg.ShowsDir)

	authorRepo := database.NewAuthorRepository(db)
	showRepo := database.NewShowRepository(db)
	episodeRepo := database.NewEpisodeRepository(db)
	catalog := database.NewCatalog(showRepo, episodeRepo)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	scheduler := tasks.NewScheduler(configCache, authorRepo, showRepo, episodeRepo, httpClient, shows.NewImporter())
	scheduler.Start()

	handler := api.NewHandler(catalog, showRepo, episodeRepo, configCache, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "example_feed", appCfg.FeedURL("<show>", "apple"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()

	slog.Info("Podcast Feeds shutdown complete")
}
