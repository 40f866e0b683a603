// Package host abstracts the application that owns the live board model.
// Scripts never parse or serialize board files themselves: they acquire the
// board from a Host, mutate it in place, and request a redraw. The simulator
// host synthesizes a board in memory so every operation can run and be
// tested without a running CAD application.
package host

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

// Kind categorizes host families.
type Kind string

const (
	KindSim     Kind = "sim"
	KindUnknown Kind = "unknown"
)

// Host provides access to a live board owned by a CAD application.
type Host interface {
	// Name returns a user-friendly host description.
	Name() string

	// Board returns the live board model. The same board is returned on
	// every call; mutations are visible to subsequent callers.
	Board() (*pcb.Board, error)

	// Refresh requests a redraw of the board in the host application.
	Refresh() error
}

// New creates a host of the given kind. Only the simulator is built in;
// connecting to a real CAD session is host-application specific and out of
// scope here.
func New(kind string, cfg SimConfig) (Host, error) {
	switch Kind(kind) {
	case KindSim, "simulator":
		return NewSimHost(cfg), nil
	default:
		return nil, fmt.Errorf("host: unknown host kind %q (try \"sim\")", kind)
	}
}
