package main

import (
	"os"

	"github.com/lukasm/checksums/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// The command already reported the failure; the exit code is the
		// caller-facing signal.
		os.Exit(1)
	}
}
