package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/asquebay/pizzaria-carrinho/internal/config"
	"github.com/asquebay/pizzaria-carrinho/internal/lib/logger"
)

// options общие для всех подкоманд, заполняются в PersistentPreRunE
type options struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "carrinho",
		Short:         "Pizzeria shopping cart",
		Long:          "Keeps the pizza cart on this device, shows it and turns it into an order for the pizzeria backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			// логи идут в stderr, чтобы не смешиваться с выводом корзины
			opts.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logger.Level, cfg.Logger.Format)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.Path(), "Path to the YAML config")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newRemoveCmd(opts))
	cmd.AddCommand(newSubmitCmd(opts))
	return cmd
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}
