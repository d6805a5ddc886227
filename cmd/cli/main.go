// Package main is the entry point for the apexcrm admin CLI.
package main

import (
	"os"

	cli "apexcrm/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
