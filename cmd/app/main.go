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

	"github.com/asquebay/pizzaria-carrinho/internal/config"
	"github.com/asquebay/pizzaria-carrinho/internal/lib/logger"
	"github.com/asquebay/pizzaria-carrinho/internal/metrics"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/cache"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/postgres"
	"github.com/asquebay/pizzaria-carrinho/internal/service"
	httptransport "github.com/asquebay/pizzaria-carrinho/internal/transport/http"
	"github.com/asquebay/pizzaria-carrinho/internal/transport/kafka"
)

func main() {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path())

	// 2. Инициализация логгера
	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("starting pizzaria order backend", slog.String("log_level", cfg.Logger.Level))

	// 3. Инициализация репозитория (БД)
	initCtx := context.Background()
	dbpool, err := postgres.New(initCtx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbpool.Close()
	log.Info("successfully connected to postgres")

	if err := postgres.EnsureSchema(initCtx, dbpool); err != nil {
		log.Error("failed to prepare schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderRepo := postgres.NewOrderRepository(dbpool)

	// 4. Инициализация кэша и метрик
	orderCache := cache.NewOrderCache()
	registry := metrics.NewRegistry()
	log.Info("order cache initialized")

	// 5. Инициализация сервисного слоя
	orderSvc := service.NewOrderService(orderRepo, orderCache, registry, log)

	// 6. Восстановление кэша из БД при старте
	err = orderSvc.RestoreCache(context.Background())
	if err != nil {
		// не фатальная ошибка, сервис может работать и с пустым кэшем
		log.Error("failed to restore cache", slog.String("error", err.Error()))
	}
	log.Info("order cache ready", slog.Int("orders", orderCache.Len()))

	// 7. Инициализация и запуск Kafka-консьюмера, если он включён
	ctx, cancel := context.WithCancel(context.Background())
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, orderSvc, registry, log)
		go consumer.Run(ctx)
		log.Info("kafka consumer started", slog.String("topic", cfg.Kafka.Topic))
	}

	// 8. Инициализация и запуск HTTP-сервера
	handler := httptransport.NewHandler(orderSvc, registry.Handler(), log)
	httpServer := httptransport.NewServer(cfg.HTTPServer.Port, handler, cfg.HTTPServer.Timeout)
	log.Info("starting http server", slog.String("port", cfg.HTTPServer.Port))

	go func() {
		if err := httpServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed to start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// 9. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down application")
	cancel() // сигнал для консьюмера на завершение

	// создаем контекст с таймаутом для шатдауна сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error("error closing kafka consumer", slog.String("error", err.Error()))
		}
	}

	log.Info("application stopped")
}
