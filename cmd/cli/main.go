// Package main is the entry point for the tenantctl binary.
package main

import (
	"os"

	cli "tenantcore/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
