// Package console implements the operator "gc" command.
//
// Sub-commands:
//
//	gc stop            disable automatic collection
//	gc now             start a cycle on the next tick
//	gc full            run a full collection now
//	gc count           count objects in the object list
//	gc pause [pct]     get or set the pause percentage (minimum 1)
//	gc stepmul [pct]   get or set the step multiplier (minimum 100)
//	gc stat            print the status line
//	gc sites [n]       list the top allocation sites of live objects
package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kolkov/objgc/internal/gc/collector"
)

// Usage is printed when the command is given no sub-command.
const Usage = "Usage: gc stop|now|full|count|pause [size]|stepmul [size]|stat|sites [n]"

// Minimum values accepted from the console.
const (
	MinPause   = 1
	MinStepMul = 100
)

var (
	// ErrUnknownCommand is returned for an unrecognised sub-command.
	ErrUnknownCommand = errors.New("unknown gc command")

	// ErrNoSiteTracking is returned by "sites" when the collector does not
	// record allocation sites.
	ErrNoSiteTracking = errors.New("allocation site tracking is disabled")
)

// CommandError describes a rejected console command.
type CommandError struct {
	Command string
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("gc %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes one gc command. args excludes the leading "gc". Output goes
// to w.
func Run(c *collector.Collector, args []string, w io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(w, Usage)
		return nil
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "stop":
		c.Stop()
	case "now":
		c.Now()
	case "full":
		c.FullGC()
	case "count":
		fmt.Fprintf(w, "%d active objects counted\n", c.Count())
	case "pause":
		if len(args) == 1 {
			fmt.Fprintf(w, "Current GC pause is %d\n", c.Pause())
			return nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return &CommandError{Command: cmd, Err: err}
		}
		c.SetPause(max(MinPause, n))
	case "stepmul":
		if len(args) == 1 {
			fmt.Fprintf(w, "Current GC stepmul is %d\n", c.StepMul())
			return nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return &CommandError{Command: cmd, Err: err}
		}
		c.SetStepMul(max(MinStepMul, n))
	case "stat":
		fmt.Fprintln(w, c.Stats())
	case "sites":
		return sites(c, cmd, args[1:], w)
	default:
		return &CommandError{Command: cmd, Err: ErrUnknownCommand}
	}
	return nil
}

func sites(c *collector.Collector, cmd string, args []string, w io.Writer) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return &CommandError{Command: cmd, Err: err}
		}
		limit = max(1, n)
	}
	counts, ok := c.SiteCounts()
	if !ok {
		return &CommandError{Command: cmd, Err: ErrNoSiteTracking}
	}
	for i, sc := range counts {
		if i == limit {
			break
		}
		fmt.Fprintf(w, "%6d objects %8dK  %s\n", sc.Count, (sc.Bytes+1023)>>10, sc.Site.Top())
	}
	return nil
}
