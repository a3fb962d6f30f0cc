// Package main is the entry point for the PixelMux server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bbernstein/pixelmux-go/internal/api"
	"github.com/bbernstein/pixelmux-go/internal/config"
	"github.com/bbernstein/pixelmux-go/internal/database"
	"github.com/bbernstein/pixelmux-go/internal/database/models"
	"github.com/bbernstein/pixelmux-go/internal/database/repositories"
	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/services/engine"
	"github.com/bbernstein/pixelmux-go/internal/services/pubsub"
	"github.com/bbernstein/pixelmux-go/internal/services/send"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	printBanner(cfg)

	// Connect to database
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Project{},
		&models.Fixture{},
		&models.OutputDefinition{},
		&models.SegmentDefinition{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	events := pubsub.New()

	// Start the send loop before the first rebuild so senders begin
	// transmitting as soon as they are published.
	sendService := send.NewService(send.Config{
		Enabled:          cfg.OutputEnabled,
		RefreshRateHz:    cfg.SendRefreshRate,
		IdleRateHz:       cfg.SendIdleRate,
		HighRateDuration: cfg.SendHighRateDuration,
	})
	sendService.SetBuffer(make(pixel.Buffer, cfg.PixelCount))
	sendService.Start()

	engineService := engine.NewService(sendService, events, cfg.DefaultAddress)

	// Load the first project's fixture tree, if one exists.
	projectRepo := repositories.NewProjectRepository(db)
	fixtureRepo := repositories.NewFixtureRepository(db)
	if project, err := projectRepo.FindFirst(context.Background()); err != nil {
		log.Printf("Warning: failed to look up projects: %v", err)
	} else if project != nil {
		log.Printf("🎭 Loading project %q", project.Name)
		tree, err := fixtureRepo.LoadTree(context.Background(), project.ID)
		if err != nil {
			log.Printf("Warning: failed to load fixture tree: %v", err)
		} else {
			result := engineService.SetTree(tree)
			if diag := result.DiagnosticsString(); diag != "" {
				log.Printf("⚠️  Output diagnostics:\n%s", diag)
			}
		}
		if project.PixelCount > 0 {
			sendService.SetBuffer(make(pixel.Buffer, project.PixelCount))
		}
	}

	router := api.NewRouter(engineService, sendService, events, api.Repos{
		Projects: projectRepo,
		Fixtures: fixtureRepo,
	}, api.Options{
		CORSOrigin: cfg.CORSOrigin,
		Debug:      cfg.IsDevelopment(),
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	sendService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  PixelMux Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Output:      %v\n", cfg.OutputEnabled)
	fmt.Println("============================================")
}
