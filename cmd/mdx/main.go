package main

import (
	"os"

	"github.com/roach88/mdx/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
