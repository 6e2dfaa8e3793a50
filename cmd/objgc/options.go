package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kolkov/objgc/internal/gc/collector"
)

// envOptions is the name of the environment variable holding collector
// options.
const envOptions = "OBJGC"

// loadOptions reads OBJGC and attaches a logger. verbose enables debug
// logging of cycle transitions to logOut.
func loadOptions(verbose bool, logOut io.Writer) (collector.Options, error) {
	opts, err := collector.ParseOptions(os.Getenv(envOptions))
	if err != nil {
		return opts, fmt.Errorf("%s: %w", envOptions, err)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	return opts, nil
}
