package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/graphql-go/graphql"
	"github.com/isdelr/postboard-be/internal/api/handlers"
	"github.com/isdelr/postboard-be/internal/auth"
	"github.com/isdelr/postboard-be/internal/storage"
	"github.com/isdelr/postboard-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(authenticator *auth.Authenticator, hub *websocket.Hub, images *storage.ImageStore, schema graphql.Schema, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Token verification is non-rejecting: it attaches an identity when a
	// valid token is present and otherwise leaves the request anonymous.
	// Handlers and services decide whether authentication is required.
	r.Use(authenticator.Middleware())

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(images)
	gqlHandler := handlers.NewGraphQLHandler(schema)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// WebSocket connection endpoint
	r.Get("/ws", wsHandler.Serve)

	// REST image upload
	r.Put("/post-image", imageHandler.Upload)

	// GraphQL endpoint for all user/post operations
	r.Get("/graphql", gqlHandler.Serve)
	r.Post("/graphql", gqlHandler.Serve)

	// Static serving of stored images
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(images.Dir()))))

	return r
}
