package collector

import (
	"fmt"
	"sort"

	"github.com/kolkov/objgc/internal/gc/allocsite"
)

// Stats is a snapshot of the collector counters.
type Stats struct {
	Phase       Phase
	AllocBytes  uint64
	Threshold   uint64
	Estimate    uint64
	StepCount   int
	MinStepSize uint64
	Cycles      uint64
	Reclaimed   uint64
	Objects     int
}

// Stats returns the current counters. Objects is the number of arena
// entries, including released ones.
func (c *Collector) Stats() Stats {
	return Stats{
		Phase:       c.phase,
		AllocBytes:  c.allocBytes,
		Threshold:   c.threshold,
		Estimate:    c.estimate,
		StepCount:   c.stepCount,
		MinStepSize: c.minStepSize,
		Cycles:      c.cycles,
		Reclaimed:   c.reclaimed,
		Objects:     c.arena.Len(),
	}
}

var phaseLabels = [...]string{
	PhasePause:     "  Pause  ",
	PhasePropagate: "Propagate",
	PhaseSweep:     "  Sweep  ",
	PhaseFinalize:  "Finalize ",
}

func kib(n uint64) uint64 {
	return (n + 1023) >> 10
}

// String formats the status line shown by the console:
//
//	[  Pause  ] Alloc:    12K  Thresh:    18K  Est:    12K  Steps: 3  1K
func (s Stats) String() string {
	label := "Unknown"
	if int(s.Phase) < len(phaseLabels) {
		label = phaseLabels[s.Phase]
	}
	return fmt.Sprintf("[%s] Alloc:%6dK  Thresh:%6dK  Est:%6dK  Steps: %d  %dK",
		label, kib(s.AllocBytes), kib(s.Threshold), kib(s.Estimate), s.StepCount, kib(s.MinStepSize))
}

// SiteCount is the number of live objects allocated at one site.
type SiteCount struct {
	Site  *allocsite.Site
	Count int
	Bytes uint64
}

// SiteCounts groups the object list by allocation site, largest count
// first. ok is false when site tracking is disabled.
func (c *Collector) SiteCounts() (counts []SiteCount, ok bool) {
	if c.sites == nil {
		return nil, false
	}
	byID := make(map[uint64]*SiteCount)
	var order []uint64
	for h := range c.Objects() {
		e := c.arena.Get(h)
		if e.Site == 0 {
			continue
		}
		sc, seen := byID[e.Site]
		if !seen {
			sc = &SiteCount{Site: c.sites.Get(e.Site)}
			byID[e.Site] = sc
			order = append(order, e.Site)
		}
		sc.Count++
		sc.Bytes += e.Size
	}
	for _, id := range order {
		counts = append(counts, *byID[id])
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts, true
}
