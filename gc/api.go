package gc

import (
	"io"

	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/gc/console"
	"github.com/kolkov/objgc/internal/gc/heap"
	"github.com/kolkov/objgc/internal/snapshot"
)

// Version is the objgc release.
const Version = "0.1.0"

type (
	// Collector is the incremental collector.
	Collector = collector.Collector

	// Options configures a Collector.
	Options = collector.Options

	// Stats is a snapshot of the collector counters.
	Stats = collector.Stats

	// Phase is the state of the collection cycle.
	Phase = collector.Phase

	// SweepResult reports one sweep batch.
	SweepResult = collector.SweepResult

	// InvariantError is the panic value for collector invariant violations.
	InvariantError = collector.InvariantError

	// RootSource is a subsystem holding references from outside the graph.
	RootSource = collector.RootSource

	// Bulk is a large collection marked a batch at a time.
	Bulk = collector.Bulk

	// Handle is a generation-checked reference to a collectible object.
	Handle = heap.Handle

	// Object is implemented by every collectible object.
	Object = heap.Object

	// Marker is passed to TraceChildren and RootSource.MarkRoots.
	Marker = heap.Marker

	// Color is the tri-color state of an object.
	Color = heap.Color
)

// Nil is the null handle.
const Nil = heap.Nil

// Phases.
const (
	PhasePause     = collector.PhasePause
	PhasePropagate = collector.PhasePropagate
	PhaseSweep     = collector.PhaseSweep
	PhaseFinalize  = collector.PhaseFinalize
)

// Tunables and accounting constants.
const (
	DefaultPause   = collector.DefaultPause
	DefaultStepMul = collector.DefaultStepMul
	ObjectOverhead = collector.ObjectOverhead
	StepSize       = collector.StepSize
	SweepMax       = collector.SweepMax
)

// New creates a collector.
func New(opts Options) *Collector {
	return collector.New(opts)
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return collector.DefaultOptions()
}

// ParseOptions parses the OBJGC environment variable format.
func ParseOptions(s string) (Options, error) {
	return collector.ParseOptions(s)
}

// Console runs one operator "gc" command against c. args excludes the
// leading "gc".
//
// Example:
//
//	gc.Console(c, []string{"pause", "200"}, os.Stdout)
func Console(c *Collector, args []string, w io.Writer) error {
	return console.Run(c, args, w)
}

// Info is what `objgc version` prints: the release, the newest scenario
// file the loader accepts, and the pacing a default collector starts with.
type Info struct {
	Version        string
	ScenarioFormat string
	Pause          int
	StepMul        int
	StepSize       uint64
	SweepMax       int
}

// GetInfo reports the release and the collector defaults.
func GetInfo() Info {
	return Info{
		Version:        Version,
		ScenarioFormat: snapshot.SupportedVersion,
		Pause:          DefaultPause,
		StepMul:        DefaultStepMul,
		StepSize:       StepSize,
		SweepMax:       SweepMax,
	}
}
