package main

import (
	"os"

	"github.com/lydakis/homemcp/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
