package main

import (
	"os"

	"github.com/abhisek/studydeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
