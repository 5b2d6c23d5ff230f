package main

import (
	"os"

	"github.com/echoflaresat/jpleph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
