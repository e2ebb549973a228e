package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asquebay/pizzaria-carrinho/internal/cart"
)

var (
	accent = lipgloss.Color("#C2410C") // томатный
	fg     = lipgloss.Color("#E8E6E3")
	dim    = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#EF4444")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	itemStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle   = lipgloss.NewStyle().Foreground(dim)
	errorStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

// RenderCart рисует корзину для терминала в том же порядке, что и страница
func RenderCart(st cart.State) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Carrinho de Compras"))
	b.WriteString("\n\n")

	if st.Error != "" {
		b.WriteString(errorStyle.Render(st.Error))
		b.WriteString("\n\n")
	}

	if st.Empty {
		b.WriteString(dimStyle.Render(cart.EmptyMessage))
		b.WriteString("\n")
		return b.String()
	}

	for _, item := range st.Items {
		lines := []string{fmt.Sprintf("%s %s", dimStyle.Render(fmt.Sprintf("[%d]", item.Index)), titleStyle.Render(item.Title))}
		lines = append(lines, item.Flavors...)
		lines = append(lines, "Valor: "+item.PriceText)
		b.WriteString(itemStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(totalStyle.Render("Total: " + st.TotalText))
	b.WriteString("\n")
	return b.String()
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
