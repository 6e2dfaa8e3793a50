// Package allocsite records where collectible objects were allocated.
//
// A Depot deduplicates call stacks by hash so each live object only carries an
// 8-byte site id. The collector captures a site on every Alloc when
// allocation-site tracking is enabled; the console "sites" command groups the
// live objects by site to find what keeps the heap growing.
//
// Design:
//   - Fixed-size stacks (8 frames)
//   - FNV-1a hash of program counters as the site id
//   - Per-collector depot (no package state)
//
// Usage:
//
//	d := allocsite.NewDepot()
//	id := d.Capture(1)
//	fmt.Print(d.Get(id).Format())
package allocsite

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
)

// MaxFrames is the maximum number of frames kept per site.
const MaxFrames = 8

// Site is a captured allocation stack.
type Site struct {
	PC [MaxFrames]uintptr
}

// Depot stores deduplicated sites. It is not safe for concurrent use.
type Depot struct {
	sites map[uint64]*Site
}

// NewDepot creates an empty depot.
func NewDepot() *Depot {
	return &Depot{sites: make(map[uint64]*Site)}
}

// Capture records the caller's stack and returns its id.
//
// skip is the number of frames above Capture's caller to omit, so a wrapper
// such as Collector.Alloc passes 1 to attribute the site to its own caller.
// Returns 0 if no stack is available.
func (d *Depot) Capture(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	// runtime.Callers, Capture, then skip more.
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	id := hashStack(pcs[:n])
	if _, ok := d.sites[id]; ok {
		return id
	}
	d.sites[id] = &Site{PC: pcs}
	return id
}

// Get returns the site for id, or nil.
func (d *Depot) Get(id uint64) *Site {
	if id == 0 {
		return nil
	}
	return d.sites[id]
}

// Len returns the number of distinct sites.
func (d *Depot) Len() int {
	return len(d.sites)
}

func hashStack(pcs []uintptr) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, pc := range pcs {
		binary.LittleEndian.PutUint64(buf[:], uint64(pc))
		_, _ = h.Write(buf[:]) // hash.Hash never fails
	}
	return h.Sum64()
}

// Format renders the site as indented function/file:line pairs, skipping
// runtime frames.
func (s *Site) Format() string {
	if s == nil {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(s.PC[:])
	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}
		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}

// Top returns the Format of the first frame only, as "function file:line".
func (s *Site) Top() string {
	if s == nil {
		return "<unknown>"
	}
	frames := runtime.CallersFrames(s.PC[:])
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s %s:%d", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return "<runtime internal>"
}
