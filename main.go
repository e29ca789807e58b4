package main

import (
	"os"

	"github.com/ekoksal/vidrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
