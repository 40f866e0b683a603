// Package grid maps linear chain indices onto matrix coordinates.
//
// A chained LED matrix is electrically a single sequence D1..Dn, but
// physically a COLS×ROWS grid, optionally split into parallel lanes to
// bound chain length. Placement, via generation, and routing all need the
// same index→(lane,row,col) arithmetic; this package is the one
// parameterized implementation they share.
package grid

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

// Pattern selects the traversal order of the chain across the grid.
type Pattern string

const (
	// RowMajor walks left-to-right, top-to-bottom.
	RowMajor Pattern = "row-major"

	// Serpentine alternates direction every row.
	Serpentine Pattern = "serpentine"

	// LaneSerpentine partitions the index space into Lanes contiguous
	// blocks of (Cols/Lanes)×Rows pixels, each serpentining over its own
	// column band. Global column = lane offset + local column.
	LaneSerpentine Pattern = "lane-serpentine"

	// ViaOptimized partitions the index space into Lanes contiguous
	// blocks of (Rows/Lanes)×Cols pixels, serpentining over full rows,
	// with rotations chosen per 2×2 block so VDD/GND pads of four
	// neighbors face a shared center via.
	ViaOptimized Pattern = "via-optimized"
)

func (p Pattern) String() string { return string(p) }

// ParsePattern resolves a pattern name, accepting the short spellings used
// on the command line.
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "row-major", "rowmajor":
		return RowMajor, nil
	case "serpentine":
		return Serpentine, nil
	case "lanes", "lane-serpentine":
		return LaneSerpentine, nil
	case "via-optimized", "viaopt":
		return ViaOptimized, nil
	default:
		return "", fmt.Errorf("grid: unknown pattern %q", s)
	}
}

// Geometry describes the matrix dimensions and physical pitch.
type Geometry struct {
	Cols    int     // Matrix columns
	Rows    int     // Matrix rows
	Lanes   int     // Parallel data lanes (lane patterns only)
	PitchX  float64 // Horizontal pitch in mm
	PitchY  float64 // Vertical pitch in mm
	OriginX float64 // X of column 0 in mm
	OriginY float64 // Y of row 0 in mm
}

// Count returns the number of grid cells.
func (g Geometry) Count() int { return g.Cols * g.Rows }

// Cell is a resolved grid coordinate. Lane is 0 for non-lane patterns.
type Cell struct {
	Lane int
	Row  int
	Col  int
}

// Block returns the 2×2 block coordinate containing the cell.
func (c Cell) Block() (blockRow, blockCol int) {
	return c.Row / 2, c.Col / 2
}

// Mapper converts linear chain indices to grid cells, physical positions,
// and rotations for one pattern over one geometry.
type Mapper struct {
	Geometry Geometry
	Pattern  Pattern
}

// NewMapper validates the geometry against the pattern and returns a
// mapper. Lane patterns require the partitioned axis to divide evenly.
func NewMapper(geo Geometry, pattern Pattern) (*Mapper, error) {
	if geo.Cols <= 0 || geo.Rows <= 0 {
		return nil, fmt.Errorf("grid: invalid geometry %d×%d", geo.Cols, geo.Rows)
	}
	switch pattern {
	case RowMajor, Serpentine:
	case LaneSerpentine:
		if geo.Lanes <= 0 || geo.Cols%geo.Lanes != 0 {
			return nil, fmt.Errorf("grid: %d columns not divisible into %d lanes", geo.Cols, geo.Lanes)
		}
	case ViaOptimized:
		if geo.Lanes <= 0 || geo.Rows%geo.Lanes != 0 {
			return nil, fmt.Errorf("grid: %d rows not divisible into %d lanes", geo.Rows, geo.Lanes)
		}
	default:
		return nil, fmt.Errorf("grid: unknown pattern %q", pattern)
	}
	return &Mapper{Geometry: geo, Pattern: pattern}, nil
}

// Map converts a linear chain index to its grid cell. Indices outside
// [0, Count) are a caller contract violation and are not validated.
func (m *Mapper) Map(i int) Cell {
	g := m.Geometry

	switch m.Pattern {
	case RowMajor:
		return Cell{Row: i / g.Cols, Col: i % g.Cols}

	case Serpentine:
		row := i / g.Cols
		col := i % g.Cols
		if row%2 == 1 {
			col = g.Cols - 1 - col
		}
		return Cell{Row: row, Col: col}

	case LaneSerpentine:
		colsPerLane := g.Cols / g.Lanes
		perLane := colsPerLane * g.Rows
		lane := (i / perLane) % g.Lanes
		pixel := i % perLane

		row := pixel / colsPerLane
		col := pixel % colsPerLane
		if row%2 == 1 {
			col = colsPerLane - 1 - col
		}
		return Cell{Lane: lane, Row: row, Col: lane*colsPerLane + col}

	case ViaOptimized:
		rowsPerLane := g.Rows / g.Lanes
		perLane := rowsPerLane * g.Cols
		lane := i / perLane
		pixel := i % perLane

		rowInLane := pixel / g.Cols
		col := pixel % g.Cols
		if rowInLane%2 == 1 {
			col = g.Cols - 1 - col
		}
		return Cell{Lane: lane, Row: lane*rowsPerLane + rowInLane, Col: col}
	}

	return Cell{}
}

// Rotation returns the footprint rotation for a cell under this pattern.
// Serpentine patterns flip odd rows 180° so DOUT→DIN runs stay short; the
// via-optimized pattern orients each 2×2 block so power pads face the
// shared center via.
func (m *Mapper) Rotation(c Cell) pcb.Angle {
	switch m.Pattern {
	case Serpentine, LaneSerpentine:
		if c.Row%2 == 1 {
			return 180
		}
		return 0
	case ViaOptimized:
		return BlockRotation(c.Col, c.Row)
	}
	return 0
}

// BlockRotation returns the via-optimized rotation for a grid position,
// keyed by (column parity, row parity) within its 2×2 block:
//
//	even,even → 270   odd,even → 180
//	even,odd  →   0   odd,odd  →  90
//
// At these angles the VDD and GND pads of all four block members face the
// block center.
func BlockRotation(col, row int) pcb.Angle {
	switch {
	case col%2 == 0 && row%2 == 0:
		return 270
	case col%2 == 1 && row%2 == 0:
		return 180
	case col%2 == 0 && row%2 == 1:
		return 0
	default:
		return 90
	}
}

// Position converts a cell to its physical board position in mm.
func (m *Mapper) Position(c Cell) pcb.Position {
	g := m.Geometry
	return pcb.Position{
		X: g.OriginX + float64(c.Col)*g.PitchX,
		Y: g.OriginY + float64(c.Row)*g.PitchY,
	}
}

// BlockCenter returns the physical center of a 2×2 block: the midpoint of
// the four member positions, where the shared power via sits.
func (m *Mapper) BlockCenter(blockRow, blockCol int) pcb.Position {
	g := m.Geometry
	return pcb.Position{
		X: g.OriginX + float64(blockCol)*2*g.PitchX + g.PitchX/2,
		Y: g.OriginY + float64(blockRow)*2*g.PitchY + g.PitchY/2,
	}
}

// BlockGrid returns the block grid dimensions (one block per 2×2 cells).
func (m *Mapper) BlockGrid() (blockRows, blockCols int) {
	return m.Geometry.Rows / 2, m.Geometry.Cols / 2
}
