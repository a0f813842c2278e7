package main

import (
	"os"

	"github.com/temirov/gitcare/cmd/cli"
)

func main() {
	os.Exit(cli.Execute())
}
