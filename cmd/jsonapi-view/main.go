package main

import (
	"os"

	"github.com/conduit-lang/jsonapi-view/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
