package place

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

// BlockPlacement records one LED of the check block.
type BlockPlacement struct {
	Reference string
	Col, Row  int
	Position  pcb.Position
	Rotation  pcb.Angle
	Found     bool
}

// CheckBlock places only the first 2×2 block with via-optimized rotations
// so the operator can zoom in and verify that VDD and GND pads face the
// block center before committing to a full placement. The references are
// the row-major occupants of the block: D1, D2, D(cols+1), D(cols+2).
func CheckBlock(board *pcb.Board, profile *config.Profile) []BlockPlacement {
	cells := []struct{ col, row int }{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	}

	results := make([]BlockPlacement, 0, len(cells))
	for _, c := range cells {
		ref := fmt.Sprintf("%s%d", profile.LEDPrefix, c.row*profile.Cols+c.col+1)
		rotation := grid.BlockRotation(c.col, c.row)
		pos := pcb.Position{
			X: profile.OriginX + float64(c.col)*profile.PitchX,
			Y: profile.OriginY + float64(c.row)*profile.PitchY,
		}

		result := BlockPlacement{
			Reference: ref,
			Col:       c.col,
			Row:       c.row,
			Position:  pos,
			Rotation:  rotation,
		}

		if fp := board.FindFootprint(ref); fp != nil {
			fp.SetPosition(pos)
			fp.SetOrientation(rotation)
			result.Found = true
		}
		results = append(results, result)
	}

	return results
}
