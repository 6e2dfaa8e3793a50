// run.go implements the 'objgc run' command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/kolkov/objgc/internal/gc/heap"
	"github.com/kolkov/objgc/internal/level"
)

// runConfig holds the parsed 'objgc run' arguments.
type runConfig struct {
	scenario string
	ticks    int
	churn    int
	frame    uint64
	verbose  bool
	sectors  int
	sides    int
	actors   int
	seed     uint64

	// Overrides of OBJGC; negative means unset.
	pause   int
	stepMul int
}

// runCommand implements the 'objgc run' command.
//
// It simulates a host loop: every tick allocates churn garbage objects,
// lets the demo level spawn and kill actors, and calls CheckGC with the
// tick time. The run ends with a full collection.
//
// Example:
//
//	objgc run -ticks 600 -churn 50 scenario.json
func runCommand(args []string) {
	cfg, err := parseRunArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := simulate(cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseRunArgs parses flags followed by exactly one scenario file.
func parseRunArgs(args []string) (*runConfig, error) {
	cfg := &runConfig{}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.ticks, "ticks", 300, "number of host ticks")
	fs.IntVar(&cfg.churn, "churn", 20, "garbage objects allocated per tick")
	fs.Uint64Var(&cfg.frame, "frame", 16, "milliseconds per tick")
	fs.BoolVar(&cfg.verbose, "v", false, "print the status line every tick")
	fs.IntVar(&cfg.sectors, "sectors", 128, "demo level sectors")
	fs.IntVar(&cfg.sides, "sides", 512, "demo level sides")
	fs.IntVar(&cfg.actors, "actors", 32, "demo level actors")
	fs.Uint64Var(&cfg.seed, "seed", 1, "random seed for level activity")
	fs.IntVar(&cfg.pause, "pause", -1, "pause percentage (overrides OBJGC)")
	fs.IntVar(&cfg.stepMul, "stepmul", -1, "step multiplier (overrides OBJGC)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one scenario file")
	}
	cfg.scenario = fs.Arg(0)
	if cfg.ticks < 0 || cfg.churn < 0 || cfg.actors < 0 || cfg.sectors < 0 || cfg.sides < 0 {
		return nil, errors.New("counts must not be negative")
	}
	return cfg, nil
}

// simulate runs the host loop described by cfg, reporting to out.
func simulate(cfg *runConfig, out, logOut io.Writer) error {
	opts, err := loadOptions(cfg.verbose, logOut)
	if err != nil {
		return err
	}
	if cfg.pause >= 0 {
		opts.Pause = max(1, cfg.pause)
	}
	if cfg.stepMul >= 0 {
		opts.StepMul = cfg.stepMul
	}

	s, err := newSession(cfg.scenario, opts, cfg.sectors, cfg.sides)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15))
	for i := 0; i < cfg.actors; i++ {
		s.l.Spawn(fmt.Sprintf("actor%d", i))
	}

	for tick := 1; tick <= cfg.ticks; tick++ {
		churn(s, cfg.churn)
		levelActivity(s, rng)

		s.c.CheckGC(uint64(tick) * cfg.frame)
		if cfg.verbose {
			fmt.Fprintf(out, "%5d %s\n", tick, s.c.Stats())
		}
	}

	s.c.FullGC()
	st := s.c.Stats()
	fmt.Fprintf(out, "%d ticks, %d cycles, %d objects reclaimed\n", cfg.ticks, st.Cycles, st.Reclaimed)
	fmt.Fprintf(out, "%d active objects counted\n", s.c.Count())
	fmt.Fprintf(out, "%s, scenario live %d\n", s.l, len(s.g.Live()))
	return nil
}

// churn allocates n unreachable nodes, every second pair linked into a
// cycle.
func churn(s *session, n int) {
	prev := heap.Nil
	for i := 0; i < n; i++ {
		h := s.g.NewObject("garbage", 0)
		if i%2 == 1 {
			s.g.Link(prev, h)
			s.g.Link(h, prev)
		}
		prev = h
	}
}

// levelActivity kills and respawns an actor, retargets one and moves a
// random sector plane.
func levelActivity(s *session, rng *rand.Rand) {
	actors := s.l.Actors()
	if len(actors) > 0 {
		s.l.Kill(actors[rng.IntN(len(actors))])
		s.l.Spawn("respawn")
	}
	actors = s.l.Actors()
	if len(actors) > 1 {
		s.l.SetTarget(actors[rng.IntN(len(actors))], actors[rng.IntN(len(actors))])
	}
	if n := len(s.l.Sectors); n > 0 {
		i := rng.IntN(n)
		if rng.IntN(4) == 0 {
			s.l.StopInterpolation(i, level.Floor)
		} else if in := s.l.Interpolation(s.l.Interpolate(i, level.Floor)); in != nil {
			in.Update(float64(rng.IntN(256)))
		}
	}
}
