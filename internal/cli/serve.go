package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httptransport "github.com/asquebay/pizzaria-carrinho/internal/transport/http"
	"github.com/asquebay/pizzaria-carrinho/internal/transport/web"
)

func newServeCmd(opts *options) *cobra.Command {
	var inMemory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cart page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := opts.cfg, opts.log
			log.Info("starting pizzaria cart", slog.String("transport", cfg.Cart.Transport))

			// 1. Корзина: хранилище на устройстве и отправка заказа
			app, err := openCart(cmd.Context(), cfg, log, inMemory)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Error("failed to close cart storage", slog.String("error", err.Error()))
				}
			}()
			log.Info("cart loaded", slog.Int("items", len(app.view.Items())))

			// 2. Страница корзины
			handler := web.NewHandler(app.view, cfg.Cart.RequestTimeout, app.metrics.Handler(), log)
			server := httptransport.NewServer(cfg.CartServer.Port, handler, cfg.CartServer.Timeout)
			log.Info("starting cart page server", slog.String("port", cfg.CartServer.Port))

			serverErr := make(chan error, 1)
			go func() {
				if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// 3. Graceful shutdown
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case <-stop:
			case err := <-serverErr:
				log.Error("cart page server failed", slog.String("error", err.Error()))
				return err
			}

			log.Info("shutting down cart")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("cart page server shutdown failed", slog.String("error", err.Error()))
			}
			log.Info("cart stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Keep the cart in memory instead of on disk")
	return cmd
}
