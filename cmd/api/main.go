package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"chat-exchange/internal/config"
	"chat-exchange/internal/db"
	apihttp "chat-exchange/internal/http"
	"chat-exchange/internal/llm"
	"chat-exchange/internal/repository"
	"chat-exchange/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	exchangeRepo, cleanup, err := newExchangeRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage init", zap.Error(err))
	}
	defer cleanup()

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		cfg.LLMMaxTokens,
		time.Duration(cfg.LLMTimeoutSecs)*time.Second,
	)

	exchangeSvc := service.NewExchangeService(llmClient, exchangeRepo, cfg.OwnerScoping)
	exchangeHandler := apihttp.NewExchangeHandler(logger, exchangeSvc)
	router := apihttp.NewRouter(logger, exchangeHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("owner_scoping", cfg.OwnerScoping),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// newExchangeRepository selecciona el backend de storage según configuración.
func newExchangeRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ExchangeRepository, func(), error) {
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPgExchangeRepository(pool), pool.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(ctxPing).Err()
		cancel()
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repository.NewRedisExchangeRepository(client), func() { _ = client.Close() }, nil
	case "memory":
		// Solo para desarrollo local: los exchanges no sobreviven al proceso.
		logger.Warn("using in-memory storage backend")
		return repository.NewMemoryExchangeRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
}
