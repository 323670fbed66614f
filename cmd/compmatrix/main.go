// Package main provides the CLI for the compmatrix SDK competitive matrix.
package main

import (
	"os"

	"github.com/leapstack-labs/compmatrix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
