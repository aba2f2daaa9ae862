// Package main is the entry point for locatorctl, the locator registry CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tomodakengo/kensa-sub001"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A missing .env is fine; KENSA_ variables may come from the environment.
	_ = godotenv.Load()

	if version != "dev" {
		kensa.Version = version
	}
	kensa.GitCommit = commit
	kensa.BuildDate = date

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
