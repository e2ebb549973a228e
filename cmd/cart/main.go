package main

import (
	"os"

	"github.com/asquebay/pizzaria-carrinho/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
