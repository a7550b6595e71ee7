package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/scriptura/internal/config"
	"github.com/mrlokans/scriptura/internal/database"
	"github.com/mrlokans/scriptura/internal/database/annotations"
	"github.com/mrlokans/scriptura/internal/database/metadata"
	"github.com/mrlokans/scriptura/internal/database/readingprogress"
	http_controllers "github.com/mrlokans/scriptura/internal/http"
	"github.com/mrlokans/scriptura/internal/remote"
	"github.com/mrlokans/scriptura/internal/scheduler"
	"github.com/mrlokans/scriptura/internal/services"
)

// Run wires the storage engine, services, and HTTP surface, then serves until
// interrupted.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Scriptura v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	client := remote.NewClient(cfg.Content.BaseURL, cfg.Content.DownloadCacheDir)

	translationService := services.NewTranslationService(db.DB, client, cfg.CatalogRefresh.Interval)
	readingService := services.NewReadingService(db.DB)
	strongNumberService := services.NewStrongNumberService(db.DB, client)

	var refresher *scheduler.CatalogRefresher
	if cfg.CatalogRefresh.Enabled {
		refresher = scheduler.NewCatalogRefresher(translationService, cfg.CatalogRefresh.Schedule)
		if err := refresher.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start catalog refresher: %v", err)
		}
	}

	metadataRepo := metadata.NewRepository(db.DB)
	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Health:       http_controllers.NewHealthController(db, version),
		Translations: http_controllers.NewTranslationsController(translationService),
		Verses:       http_controllers.NewVersesController(readingService),
		Annotations:  http_controllers.NewAnnotationsController(annotations.NewRepository(db.DB), metadataRepo),
		Progress:     http_controllers.NewProgressController(readingprogress.NewRepository(db.DB)),
		Strongs:      http_controllers.NewStrongsController(strongNumberService),
		Reading:      http_controllers.NewReadingController(readingService),
	})

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if refresher != nil {
		refresher.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}
