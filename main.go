package main

import (
	"os"

	"github.com/gati-ai/gati/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
