// Package main is the entry point for the analytics CLI binary.
package main

import (
	"os"

	cli "sales-analytics/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
