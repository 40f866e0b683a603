// Package viagen inserts the shared power vias of a via-optimized matrix:
// one via at the center of every 2×2 LED block. Re-running appends a
// second set on top of the first; it does not deduplicate against vias
// already on the board.
package viagen

import (
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

const progressEvery = 100

// Options configures a via generation run.
type Options struct {
	// Progress receives (placed, total) every 100 vias. May be nil.
	Progress func(placed, total int)

	// Warn receives non-fatal findings (default net missing). May be nil.
	Warn func(msg string)
}

// Report summarizes a via generation run.
type Report struct {
	Placed    int
	BlockRows int
	BlockCols int
	Net       string  // net assigned, "" when unassigned
	Width     float64 // via grid width in mm
	Height    float64 // via grid height in mm
	SpacingX  float64 // via pitch in mm
	SpacingY  float64
}

// Run stages one via per 2×2 block into a change set and commits it.
// Vias default to the profile's power net (GND) when that net exists on
// the board; otherwise they are left unassigned for manual net wiring.
func Run(board *pcb.Board, profile *config.Profile, opts Options) (*Report, error) {
	// The mapper is only used for block geometry; traversal pattern is
	// irrelevant to a plain block scan.
	mapper, err := profile.Mapper(grid.RowMajor)
	if err != nil {
		return nil, err
	}

	net := board.GetNet(profile.Via.Net)
	if net == nil && opts.Warn != nil {
		opts.Warn("net '" + profile.Via.Net + "' not found, vias will be created without net assignment")
	}

	blockRows, blockCols := mapper.BlockGrid()
	total := blockRows * blockCols

	cs := pcb.NewChangeSet(board)
	placed := 0
	for blockRow := 0; blockRow < blockRows; blockRow++ {
		for blockCol := 0; blockCol < blockCols; blockCol++ {
			cs.AddVia(&pcb.Via{
				Position: mapper.BlockCenter(blockRow, blockCol),
				Size:     profile.Via.Size,
				Drill:    profile.Via.Drill,
				Layers:   pcb.LayerSet{pcb.LayerFrontCu, pcb.LayerBackCu},
				Net:      net,
			})
			placed++
			if opts.Progress != nil && placed%progressEvery == 0 {
				opts.Progress(placed, total)
			}
		}
	}
	cs.Commit()

	report := &Report{
		Placed:    placed,
		BlockRows: blockRows,
		BlockCols: blockCols,
		Width:     float64(blockCols-1) * 2 * profile.PitchX,
		Height:    float64(blockRows-1) * 2 * profile.PitchY,
		SpacingX:  2 * profile.PitchX,
		SpacingY:  2 * profile.PitchY,
	}
	if net != nil {
		report.Net = net.Name
	}
	return report, nil
}
