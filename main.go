package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"quill/auth"
	"quill/autocom"
	"quill/blogs"
	"quill/config"
	"quill/db"
	"quill/middleware"
	"quill/mq"
	"quill/ratelim"
	"quill/rdx"
	"quill/routes"
	"quill/stats"
	"quill/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := db.Connect(startCtx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	logger.Info("connected to mongodb", "db", cfg.DBName)
	if err := store.EnsureIndexes(startCtx); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = rdx.Connect(startCtx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable; events will not be published there", "error", err)
			redisClient = nil
		}
	}

	events, closeEvents := newEmitter(cfg, redisClient, logger)

	health := routes.HealthDeps{Store: store}
	if redisClient != nil {
		health.Redis = routes.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	blogHandler := blogs.NewHandler(blogs.NewMongoRepository(store.Blogs), events, logger)
	var titles *autocom.Index
	if redisClient != nil {
		titles = autocom.New(redisClient, logger)
		blogHandler.WithTitleIndex(titles)
	}

	router := routes.NewRouter(routes.Handlers{
		Blogs:  blogHandler,
		Users:  users.NewHandler(users.NewMongoRepository(store.Users), events, logger),
		Stats:  stats.NewHandler(stats.NewMongoRepository(store.Users, store.Blogs), logger),
		Tokens: auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, logger),
		Health: health,
		Titles: titles,
	}, ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// CORS → security headers → request id → auth → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	handler := corsHandler.Handler(
		middleware.SecurityHeaders(
			middleware.RequestID(
				middleware.OptionalAuth([]byte(cfg.JWTSecret))(
					middleware.Logging(logger)(router)))))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	steps := []closeStep{
		{"event emitter", func(context.Context) error { return closeEvents.Close() }},
	}
	if redisClient != nil {
		steps = append(steps, closeStep{"redis", func(context.Context) error { return redisClient.Close() }})
	}
	steps = append(steps, closeStep{"mongodb", store.Close})
	shutdown(ctx, server, logger, steps...)

	logger.Info("server stopped cleanly")
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

type closeStep struct {
	name  string
	close func(ctx context.Context) error
}

// shutdown drains the server before releasing anything handlers use, so
// in-flight requests can still emit events and reach the stores.
func shutdown(ctx context.Context, srv shutdowner, logger *slog.Logger, steps ...closeStep) {
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	for _, step := range steps {
		if err := step.close(ctx); err != nil {
			logger.Warn("close "+step.name, "error", err)
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newEmitter prefers RabbitMQ, then Redis pub/sub, then drops events.
func newEmitter(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) (mq.Emitter, io.Closer) {
	if cfg.RabbitMQURL != "" {
		rabbit, err := mq.NewRabbitEmitter(cfg.RabbitMQURL)
		if err == nil {
			logger.Info("publishing events to rabbitmq", "exchange", mq.Channel)
			return rabbit, rabbit
		}
		logger.Warn("rabbitmq unavailable", "error", err)
	}
	if redisClient != nil {
		logger.Info("publishing events to redis", "channel", mq.Channel)
		return mq.NewRedisEmitter(redisClient), nopCloser{}
	}
	logger.Info("no event broker configured; events are dropped")
	return mq.Noop{}, nopCloser{}
}
