package main

import (
	"os"

	"github.com/ziyi127/TimeNest-sub002/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
