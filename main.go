package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/postboard-be/internal/api"
	"github.com/isdelr/postboard-be/internal/auth"
	"github.com/isdelr/postboard-be/internal/config"
	"github.com/isdelr/postboard-be/internal/database"
	"github.com/isdelr/postboard-be/internal/graph"
	"github.com/isdelr/postboard-be/internal/logger"
	"github.com/isdelr/postboard-be/internal/monitoring"
	"github.com/isdelr/postboard-be/internal/services"
	"github.com/isdelr/postboard-be/internal/storage"
	"github.com/isdelr/postboard-be/internal/store"
	"github.com/isdelr/postboard-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// Set up the image store (creates the storage directory)
	images, err := storage.NewImageStore(cfg.ImageDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	st := store.New(db)

	// Set up WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	authenticator := auth.New(cfg.JWTSecret)
	userService := services.NewUserService(st, authenticator)
	postService := services.NewPostService(st, images, hub, cfg.PostsPerPage)

	// Set up and run the background image sweeper
	sweeper, err := monitoring.NewImageSweeper(st, images, cfg.ImageSweepCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image sweeper")
	}
	go sweeper.Run()

	// Build the GraphQL schema and router
	schema, err := graph.NewSchema(userService, postService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
	}
	router := api.NewRouter(authenticator, hub, images, schema, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
