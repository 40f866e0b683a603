// Package place writes grid positions and rotations into the board's LED
// footprints. It is a single pass: collect the chain, map every index
// through the shared grid mapper, mutate the board in place.
package place

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

// ErrAborted is returned when the operator declines the count-mismatch
// confirmation.
var ErrAborted = errors.New("place: aborted by operator")

// progressEvery controls how often the progress callback fires.
const progressEvery = 100

// Options configures a placement run.
type Options struct {
	Pattern      grid.Pattern
	BaseRotation pcb.Angle // added to the pattern rotation

	// Confirm is consulted when the discovered LED count differs from
	// cols×rows. Nil means proceed.
	Confirm func(prompt string) bool

	// Progress receives (placed, total) every 100 placements. May be nil.
	Progress func(placed, total int)

	// Warn receives non-fatal findings (unparseable references). May be nil.
	Warn func(msg string)
}

// Report summarizes a placement run.
type Report struct {
	Found    int
	Expected int
	Placed   int
	Skipped  []string // references that did not parse

	Width  float64 // (cols-1)*pitchX, mm
	Height float64 // (rows-1)*pitchY, mm
	End    pcb.Position
}

// Run places every LED footprint on the board according to the profile
// and pattern. The board is mutated in place; the caller owns the redraw.
func Run(board *pcb.Board, profile *config.Profile, opts Options) (*Report, error) {
	mapper, err := profile.Mapper(opts.Pattern)
	if err != nil {
		return nil, err
	}

	leds, skipped := chain.Collect(board, profile.LEDPrefix)
	for _, ref := range skipped {
		warn(opts, "could not parse number from %s", ref)
	}

	expected := profile.Cols * profile.Rows
	if len(leds) != expected && opts.Confirm != nil {
		prompt := fmt.Sprintf("Found %d LEDs, expected %d. Continue anyway?", len(leds), expected)
		if !opts.Confirm(prompt) {
			return nil, ErrAborted
		}
	}

	for idx, led := range leds {
		cell := mapper.Map(idx)
		led.Footprint.SetPosition(mapper.Position(cell))
		led.Footprint.SetOrientation(opts.BaseRotation + mapper.Rotation(cell))

		if opts.Progress != nil && (idx+1)%progressEvery == 0 {
			opts.Progress(idx+1, len(leds))
		}
	}

	geo := profile.Geometry()
	return &Report{
		Found:    len(leds),
		Expected: expected,
		Placed:   len(leds),
		Skipped:  skipped,
		Width:    float64(geo.Cols-1) * geo.PitchX,
		Height:   float64(geo.Rows-1) * geo.PitchY,
		End: pcb.Position{
			X: geo.OriginX + float64(geo.Cols-1)*geo.PitchX,
			Y: geo.OriginY + float64(geo.Rows-1)*geo.PitchY,
		},
	}, nil
}

func warn(opts Options, format string, args ...any) {
	if opts.Warn != nil {
		opts.Warn(fmt.Sprintf(format, args...))
	}
}
