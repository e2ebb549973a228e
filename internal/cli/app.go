package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
	"github.com/asquebay/pizzaria-carrinho/internal/client/order"
	"github.com/asquebay/pizzaria-carrinho/internal/config"
	"github.com/asquebay/pizzaria-carrinho/internal/metrics"
	"github.com/asquebay/pizzaria-carrinho/internal/repository/local"
	"github.com/asquebay/pizzaria-carrinho/internal/transport/kafka"
)

// cartApp собирает корзину со всеми зависимостями: хранилище, отправку заказа и метрики
type cartApp struct {
	view    *cart.View
	metrics *metrics.Registry
	closers []io.Closer
}

// openCart открывает хранилище корзины и загружает её содержимое
// при inMemory корзина живёт только до остановки процесса
// фатальна только ошибка открытия хранилища, ошибки чтения корзины оставляют её пустой
func openCart(ctx context.Context, cfg *config.Config, log *slog.Logger, inMemory bool) (*cartApp, error) {
	const op = "cli.openCart"

	if inMemory {
		return newCartApp(ctx, cfg, log, local.NewMemoryStore(), nil), nil
	}

	store, err := local.NewPebbleStore(cfg.Cart.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return newCartApp(ctx, cfg, log, store, store), nil
}

// newCartApp собирает корзину поверх kv; kvCloser закрывается вместе с приложением, может быть nil
func newCartApp(ctx context.Context, cfg *config.Config, log *slog.Logger, kv local.KV, kvCloser io.Closer) *cartApp {
	app := &cartApp{metrics: metrics.NewRegistry()}
	if kvCloser != nil {
		app.closers = append(app.closers, kvCloser)
	}

	submitter, closer := newSubmitter(cfg, log)
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	app.view = cart.NewView(
		local.NewCartStorage(kv, cfg.Cart.StorageKey),
		submitter,
		log,
		cart.WithRecorder(app.metrics),
	)
	if err := app.view.Load(ctx); err != nil {
		log.Warn("failed to read stored cart, starting with an empty cart", slog.String("error", err.Error()))
	}
	return app
}

func newSubmitter(cfg *config.Config, log *slog.Logger) (cart.Submitter, io.Closer) {
	if cfg.Cart.Transport == config.TransportKafka {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		return producer, producer
	}
	return order.New(cfg.Cart.OrderEndpoint, cfg.Cart.RequestTimeout, log), nil
}

// Close закрывает ресурсы в обратном порядке открытия
func (a *cartApp) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
