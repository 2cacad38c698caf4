// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"viralwatch/internal/adapter/source"
	"viralwatch/internal/adapter/storage"
	"viralwatch/internal/config"
	"viralwatch/internal/domain/content"
	"viralwatch/internal/server"
	"viralwatch/internal/service/collect"
	"viralwatch/internal/service/tracker"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or error loading it. Using environment variables.")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize persistence. Without a database the novelty history lives
	// in a local JSON file and digests are kept in memory only.
	var noveltyStore content.NoveltyStore
	var digestStore content.DigestStore

	if cfg.Database.Enabled {
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := storage.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}

		noveltyStore = storage.NewNoveltyStore(db)
		digestStore = storage.NewDigestStore(db)
	} else {
		fileStore, err := storage.NewFileNoveltyStore(cfg.Collect.NoveltyFilePath)
		if err != nil {
			// Degraded start: the store begins empty and everything is
			// treated as new
			log.Printf("Warning: loading novelty history: %v", err)
		}
		noveltyStore = fileStore
	}

	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		natsConn, err = initNATS(cfg.NATS)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsConn.Close()
	}

	// Initialize services
	noveltyTracker := tracker.NewNoveltyTracker(noveltyStore)

	aggregator := collect.NewAggregator(
		noveltyTracker,
		digestStore,
		natsConn,
		collect.AggregatorConfig{
			ScanInterval:     cfg.Collect.ScanInterval,
			TopN:             cfg.Collect.TopN,
			NoveltyThreshold: cfg.Collect.NoveltyThreshold,
			RetentionDays:    cfg.Collect.RetentionDays,
			EventsTopic:      cfg.Collect.EventsTopic,
			DefaultTimeout:   cfg.Collect.DefaultTimeout,
			SourceConfigs:    cfg.SourceConfigs(),
		},
	)

	// Register platform adapters
	aggregator.RegisterAdapter(source.NewHackerNewsClient())
	aggregator.RegisterAdapter(source.NewRedditClient())
	aggregator.RegisterAdapter(source.NewGitHubClient(cfg.Sources.GitHubToken))
	aggregator.RegisterAdapter(source.NewProductHuntClient(cfg.Sources.ProductHuntToken))
	aggregator.RegisterAdapter(source.NewTwitterClient(cfg.Sources.TwitterBearerToken))

	// Start the collection loop
	if err := aggregator.Start(ctx); err != nil {
		log.Fatalf("Failed to start aggregator: %v", err)
	}

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		natsConn,
		aggregator,
		digestStore,
		cfg.Collect.EventsTopic,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Println("Shutting down services...")

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop the collection loop
	if err := aggregator.Stop(shutdownCtx); err != nil {
		log.Printf("Aggregator shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
