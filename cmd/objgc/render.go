// render.go implements the 'objgc render' command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kolkov/objgc/internal/render"
)

// renderConfig holds the parsed 'objgc render' arguments.
type renderConfig struct {
	scenario      string
	steps         int
	output        string
	width, height int
}

// renderCommand implements the 'objgc render' command: load a scenario, run
// the requested number of single steps and write the heap picture.
//
// Example:
//
//	objgc render -steps 12 -o heap.png scenario.json
func renderCommand(args []string) {
	cfg, err := parseRenderArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := renderScenario(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseRenderArgs(args []string) (*renderConfig, error) {
	cfg := &renderConfig{}
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.steps, "steps", 0, "single steps to run before drawing")
	fs.StringVar(&cfg.output, "o", "heap.png", "output PNG file")
	fs.IntVar(&cfg.width, "width", 1920, "picture width")
	fs.IntVar(&cfg.height, "height", 1080, "picture height")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one scenario file")
	}
	if cfg.steps < 0 {
		return nil, errors.New("-steps must not be negative")
	}
	cfg.scenario = fs.Arg(0)
	return cfg, nil
}

func renderScenario(cfg *renderConfig, out io.Writer) error {
	opts, err := loadOptions(false, io.Discard)
	if err != nil {
		return err
	}
	s, err := newSession(cfg.scenario, opts, 0, 0)
	if err != nil {
		return err
	}
	for range cfg.steps {
		s.c.SingleStep()
	}

	ropts := render.DefaultOptions()
	ropts.Width, ropts.Height = cfg.width, cfg.height
	ropts.Label = s.g.Label
	ropts.Title = fmt.Sprintf("%s after %d steps", cfg.scenario, cfg.steps)
	if err := render.SavePNG(cfg.output, s.c, ropts); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%s)\n", cfg.output, s.c.Phase())
	return nil
}
