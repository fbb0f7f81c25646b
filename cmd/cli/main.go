// Ascendlog - Progression Journal Analyzer
//
// Ascendlog recovers structured progression entries from a loosely
// formatted journal and computes analytics over them.
package main

import (
	"os"

	"ascendlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
