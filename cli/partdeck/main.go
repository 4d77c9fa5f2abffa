package main

import (
	"os"

	partdeckcmder "github.com/partdeck/partdeck/cmd/partdeck"
)

func main() {
	cmd := partdeckcmder.NewPartdeckCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
