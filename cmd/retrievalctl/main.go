package main

import (
	"os"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
