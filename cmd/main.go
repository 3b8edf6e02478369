package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
	"github.com/markjakearzadon/rxmate-checkout/internal/config"
	"github.com/markjakearzadon/rxmate-checkout/internal/db"
	"github.com/markjakearzadon/rxmate-checkout/internal/handlers"
	"github.com/markjakearzadon/rxmate-checkout/internal/metrics"
	"github.com/markjakearzadon/rxmate-checkout/internal/services"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithPingTimeout(cfg.APIPingTimeout),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	cache := session.NewCache(store, session.WithLogger(logger), session.WithMetrics(m))
	opts := []services.Option{services.WithLogger(logger), services.WithMetrics(m)}
	directory := services.NewDirectoryService(client, opts...)

	router := handlers.NewRouter(handlers.Deps{
		Directory: directory,
		Checkout: services.NewCheckoutService(client, directory, cache, services.CheckoutConfig{
			Precheck:    cfg.CheckoutPrecheck,
			CallbackURL: cfg.CallbackURL,
		}, opts...),
		Payments:       services.NewPaymentService(client, cache, opts...),
		Accounts:       services.NewAccountService(client, cache, cfg.AccountSetupPath, opts...),
		Contact:        services.NewContactService(client, opts...),
		Cache:          cache,
		Sessions:       session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionCookieSecure, logger),
		Gatherer:       reg,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// outbound calls may take up to APITimeout
		WriteTimeout: cfg.APITimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "backend", client.BaseURL())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore picks where transaction contexts live: Redis when configured,
// else MongoDB, else process memory.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch {
	case cfg.RedisURL != "":
		rdb, err := db.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("transaction cache backed by redis")
		return session.NewRedisStore(rdb, cfg.SessionTTL), func() {
			if err := rdb.Close(); err != nil {
				logger.Error("error closing redis", "error", err)
			}
		}, nil

	case cfg.MongoURI != "":
		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewMongoStore(client.Database(cfg.MongoDB), cfg.SessionTTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to create session indexes", "error", err)
		}
		logger.Info("transaction cache backed by mongodb", "database", cfg.MongoDB)
		return store, disconnectMongo(client, logger), nil

	default:
		logger.Warn("no REDIS_URL or MONGOURI set, transaction cache is in memory")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
}

func disconnectMongo(client *mongo.Client, logger *slog.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx, client); err != nil {
			logger.Error("error disconnecting from MongoDB", "error", err)
		}
	}
}
