package collector

import (
	"fmt"

	"github.com/kolkov/objgc/internal/gc/heap"
)

// InvariantError describes a broken collector invariant.
//
// It is raised with panic: a corrupted tri-color state cannot be continued
// from. Tests and debug tooling may recover it to assert on the details.
//
// Fields:
//   - Op: Operation that detected the violation (e.g. "Mark", "Barrier")
//   - Handle: Object involved, Nil if none
//   - Detail: Human-readable description
type InvariantError struct {
	Op     string
	Handle heap.Handle
	Detail string
}

// Error implements the error interface.
//
// Format: "gc: Op(handle): detail"
func (e *InvariantError) Error() string {
	return fmt.Sprintf("gc: %s(%s): %s", e.Op, e.Handle, e.Detail)
}

func invariant(op string, h heap.Handle, format string, args ...any) {
	panic(&InvariantError{Op: op, Handle: h, Detail: fmt.Sprintf(format, args...)})
}
