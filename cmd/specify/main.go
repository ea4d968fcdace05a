// Package main provides the entry point for the specify CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/specify/internal/cli"
	"github.com/mrz1836/specify/internal/signal"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // Build metadata
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	handler := signal.NewHandler(context.Background())
	err := cli.Execute(handler.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	handler.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
