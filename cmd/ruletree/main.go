package main

import (
	"os"

	"rgehrsitz/ruletree/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
