package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asquebay/pizzaria-carrinho/internal/model"
)

func newListCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openCart(cmd.Context(), opts.cfg, opts.log, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if jsonOutput {
				return renderJSON(cmd, app.view.Items())
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderCart(app.view.State()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the stored cart as JSON")
	return cmd
}

func newAddCmd(opts *options) *cobra.Command {
	var (
		size    string
		flavors []string
		price   float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a pizza to the cart",
		Long:  "Add a pizza to the cart. Flavors are given as id:name, one --flavor per flavor.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			item := model.CartItem{Size: size}
			for _, f := range flavors {
				flavor, err := parseFlavor(f)
				if err != nil {
					return err
				}
				item.Flavors = append(item.Flavors, flavor)
			}
			// без --price цена остаётся недоступной, как и в корзине из браузера
			if cmd.Flags().Changed("price") {
				item.Price = model.NewPrice(price)
				if err := item.Price.Validate(); err != nil {
					return err
				}
			}

			app, err := openCart(cmd.Context(), opts.cfg, opts.log, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.view.Add(cmd.Context(), item); err != nil {
				return fmt.Errorf("adding pizza: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pizza %s adicionada (%s)\n", item.Size, item.Price)
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "Pizza size, e.g. P, M, G")
	cmd.Flags().StringArrayVar(&flavors, "flavor", nil, "Flavor as id:name, repeatable")
	cmd.Flags().Float64Var(&price, "price", 0, "Pizza price")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("flavor")
	return cmd
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a pizza by its position in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}

			app, err := openCart(cmd.Context(), opts.cfg, opts.log, false)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.view.Remove(cmd.Context(), index); err != nil {
				return fmt.Errorf("removing pizza: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), RenderCart(app.view.State()))
			return nil
		},
	}
}

// parseFlavor разбирает вкус в формате id:name
func parseFlavor(s string) (model.Flavor, error) {
	idStr, name, ok := strings.Cut(s, ":")
	if !ok {
		return model.Flavor{}, fmt.Errorf("invalid flavor %q, want id:name", s)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil || id <= 0 {
		return model.Flavor{}, fmt.Errorf("invalid flavor id in %q", s)
	}
	return model.Flavor{ID: id, Name: strings.TrimSpace(name)}, nil
}
