// Command rumm is the thin executable wrapper around pkg/cli.
package main

import (
	"os"

	"github.com/funvibe/rumm/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
