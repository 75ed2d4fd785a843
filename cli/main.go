package main

import (
	"os"

	"github.com/photoapp/photoapp/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
