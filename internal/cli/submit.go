package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
)

func newSubmitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Send the cart to the pizzeria as an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openCart(cmd.Context(), opts.cfg, opts.log, false)
			if err != nil {
				return err
			}
			defer app.Close()

			err = app.view.Submit(cmd.Context())
			if errors.Is(err, cart.ErrEmptyCart) {
				fmt.Fprintln(cmd.OutOrStdout(), cart.EmptyMessage)
				return nil
			}
			// при ошибке отправки корзина остаётся на месте, показываем её вместе с текстом ошибки
			fmt.Fprint(cmd.OutOrStdout(), RenderCart(app.view.State()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Pedido enviado com sucesso!")
			return nil
		},
	}
}
