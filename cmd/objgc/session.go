package main

import (
	"github.com/kolkov/objgc/internal/gc/collector"
	"github.com/kolkov/objgc/internal/level"
	"github.com/kolkov/objgc/internal/snapshot"
)

// session is a collector with a scenario graph and a demo level loaded.
type session struct {
	c *collector.Collector
	g *snapshot.Graph
	l *level.Level
}

// newSession loads the scenario at path into a new collector. A level with
// the given number of sectors and sides is registered next to it.
func newSession(path string, opts collector.Options, sectors, sides int) (*session, error) {
	s, err := snapshot.LoadFile(path)
	if err != nil {
		return nil, err
	}
	c := collector.New(opts)
	return &session{
		c: c,
		g: snapshot.Build(c, s),
		l: level.New(c, sectors, sides),
	}, nil
}
