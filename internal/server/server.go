// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"viralwatch/internal/config"
	"viralwatch/internal/domain/content"
	"viralwatch/internal/server/handlers"
	"viralwatch/internal/service/collect"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	aggregator *collect.Aggregator,
	digestStore content.DigestStore,
	eventsTopic string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	digestHandler := handlers.NewDigestHandler(aggregator, digestStore)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Digest API
			r.Route("/digest", func(r chi.Router) {
				r.Get("/", digestHandler.GetDigest)
				r.Get("/top", digestHandler.GetTopViral)
				r.Get("/cross-platform", digestHandler.GetCrossPlatform)
				r.Get("/category/{category}", digestHandler.GetByCategory)
				r.Get("/platform/{platform}", digestHandler.GetByPlatform)
			})

			// Trend statistics
			r.Get("/stats", digestHandler.GetStats)
		})
	})

	// WebSocket endpoint streaming viral content events
	if natsConn != nil {
		router.Get("/ws/viral", handlers.ViralEventsWebSocketHandler(natsConn, eventsTopic))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
