package main

import (
	"os"

	"github.com/microlens-data/ulens/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
