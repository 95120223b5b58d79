package main

import (
	"os"

	"github.com/rustyeddy/roboquant/cmd/roboquant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
