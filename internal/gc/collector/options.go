package collector

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

const (
	// DefaultPause waits until live bytes grow by half before the next cycle.
	DefaultPause = 150

	// DefaultStepMul makes the collector work at twice the allocation rate.
	// Zero means every step finishes the whole cycle.
	DefaultStepMul = 200

	// DefaultThreshold is the allocation level that starts the first cycle.
	DefaultThreshold = 256 << 10
)

// Options configures a Collector.
//
// Usage:
//
//	// Defaults
//	c := New(DefaultOptions())
//
//	// Aggressive collection with invariant checks
//	opts := DefaultOptions()
//	opts.StepMul = 0
//	opts.Verify = true
//	c := New(opts)
type Options struct {
	// Pause is the percentage of the post-sweep estimate live bytes must
	// reach before the next cycle starts.
	Pause int

	// StepMul is the collection speed relative to allocation, in percent.
	StepMul int

	// Threshold is the initial allocation threshold in bytes.
	Threshold uint64

	// Verify checks the tri-color invariant after every propagate step and
	// panics on violation. Slow; meant for tests and debugging.
	Verify bool

	// TrackSites records the allocation stack of every object.
	TrackSites bool

	// Logger receives cycle transitions at debug level. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Pause:     DefaultPause,
		StepMul:   DefaultStepMul,
		Threshold: DefaultThreshold,
	}
}

// ParseOptions parses a comma-separated key=value list on top of the
// defaults, the format of the OBJGC environment variable:
//
//	pause=150,stepmul=200,threshold=262144,verify=1,sites=1
//
// An empty string yields DefaultOptions.
func ParseOptions(s string) (Options, error) {
	opts := DefaultOptions()
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return opts, fmt.Errorf("option %q: missing '='", field)
		}
		var err error
		switch strings.ToLower(key) {
		case "pause":
			opts.Pause, err = strconv.Atoi(value)
		case "stepmul":
			opts.StepMul, err = strconv.Atoi(value)
		case "threshold":
			opts.Threshold, err = strconv.ParseUint(value, 10, 64)
		case "verify":
			opts.Verify, err = strconv.ParseBool(value)
		case "sites":
			opts.TrackSites, err = strconv.ParseBool(value)
		default:
			return opts, fmt.Errorf("option %q: unknown key", key)
		}
		if err != nil {
			return opts, fmt.Errorf("option %q: %w", key, err)
		}
	}
	if opts.Pause < 1 {
		return opts, fmt.Errorf("option pause: %d is below 1", opts.Pause)
	}
	if opts.StepMul < 0 {
		return opts, fmt.Errorf("option stepmul: %d is negative", opts.StepMul)
	}
	return opts, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
