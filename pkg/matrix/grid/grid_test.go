package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

func mustMapper(t *testing.T, geo Geometry, pattern Pattern) *Mapper {
	t.Helper()
	m, err := NewMapper(geo, pattern)
	require.NoError(t, err)
	return m
}

func TestRowMajorMapping(t *testing.T) {
	geo := Geometry{Cols: 8, Rows: 5}
	m := mustMapper(t, geo, RowMajor)

	for i := 0; i < geo.Count(); i++ {
		cell := m.Map(i)
		assert.Equal(t, i/geo.Cols, cell.Row, "index %d row", i)
		assert.Equal(t, i%geo.Cols, cell.Col, "index %d col", i)
		assert.Equal(t, 0, cell.Lane, "index %d lane", i)
	}
}

func TestSerpentineMapping(t *testing.T) {
	geo := Geometry{Cols: 6, Rows: 4}
	m := mustMapper(t, geo, Serpentine)

	// Odd rows reverse: col = Cols-1-(i mod Cols).
	for i := 0; i < geo.Count(); i++ {
		cell := m.Map(i)
		row := i / geo.Cols
		want := i % geo.Cols
		if row%2 == 1 {
			want = geo.Cols - 1 - want
		}
		assert.Equal(t, row, cell.Row, "index %d", i)
		assert.Equal(t, want, cell.Col, "index %d", i)
	}

	// Consecutive rows alternate direction.
	assert.Equal(t, 0, m.Map(0).Col)
	assert.Equal(t, geo.Cols-1, m.Map(geo.Cols-1).Col)
	assert.Equal(t, geo.Cols-1, m.Map(geo.Cols).Col)
	assert.Equal(t, 0, m.Map(2*geo.Cols-1).Col)
}

// Every pattern must visit every grid cell exactly once.
func TestMappingBijection(t *testing.T) {
	tests := []struct {
		name    string
		geo     Geometry
		pattern Pattern
	}{
		{"row-major", Geometry{Cols: 8, Rows: 5}, RowMajor},
		{"serpentine", Geometry{Cols: 8, Rows: 5}, Serpentine},
		{"lane-serpentine", Geometry{Cols: 8, Rows: 4, Lanes: 2}, LaneSerpentine},
		{"via-optimized", Geometry{Cols: 6, Rows: 8, Lanes: 2}, ViaOptimized},
		{"full-size-lanes", Geometry{Cols: 64, Rows: 40, Lanes: 8}, LaneSerpentine},
		{"full-size-viaopt", Geometry{Cols: 40, Rows: 64, Lanes: 8}, ViaOptimized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMapper(t, tt.geo, tt.pattern)

			seen := make(map[[2]int]int)
			for i := 0; i < tt.geo.Count(); i++ {
				cell := m.Map(i)
				require.GreaterOrEqual(t, cell.Row, 0)
				require.Less(t, cell.Row, tt.geo.Rows)
				require.GreaterOrEqual(t, cell.Col, 0)
				require.Less(t, cell.Col, tt.geo.Cols)
				seen[[2]int{cell.Row, cell.Col}]++
			}

			require.Len(t, seen, tt.geo.Count())
			for key, count := range seen {
				assert.Equal(t, 1, count, "cell %v visited %d times", key, count)
			}
		})
	}
}

func TestLaneSerpentineStructure(t *testing.T) {
	// 64×40 in 8 lanes: each lane is 8 columns × 40 rows = 320 pixels.
	geo := Geometry{Cols: 64, Rows: 40, Lanes: 8}
	m := mustMapper(t, geo, LaneSerpentine)

	colsPerLane := geo.Cols / geo.Lanes
	perLane := colsPerLane * geo.Rows
	require.Equal(t, 320, perLane)

	// First pixel of lane 1 lands at row 0, col 8 (the lane offset).
	cell := m.Map(320)
	assert.Equal(t, 1, cell.Lane)
	assert.Equal(t, 0, cell.Row)
	assert.Equal(t, 8, cell.Col)

	// Each lane's internal sequence is a serpentine over its own band:
	// global col = lane offset + local col.
	for lane := 0; lane < geo.Lanes; lane++ {
		for pixel := 0; pixel < perLane; pixel++ {
			cell := m.Map(lane*perLane + pixel)
			require.Equal(t, lane, cell.Lane)

			row := pixel / colsPerLane
			local := pixel % colsPerLane
			if row%2 == 1 {
				local = colsPerLane - 1 - local
			}
			require.Equal(t, row, cell.Row, "lane %d pixel %d", lane, pixel)
			require.Equal(t, lane*colsPerLane+local, cell.Col, "lane %d pixel %d", lane, pixel)
		}
	}
}

func TestViaOptimizedStructure(t *testing.T) {
	// 40×64 in 8 lanes: each lane is 8 rows × 40 columns = 320 pixels.
	geo := Geometry{Cols: 40, Rows: 64, Lanes: 8}
	m := mustMapper(t, geo, ViaOptimized)

	rowsPerLane := geo.Rows / geo.Lanes
	perLane := rowsPerLane * geo.Cols
	require.Equal(t, 320, perLane)

	// Lane 1 starts at row 8, col 0.
	cell := m.Map(perLane)
	assert.Equal(t, 1, cell.Lane)
	assert.Equal(t, rowsPerLane, cell.Row)
	assert.Equal(t, 0, cell.Col)

	// Second row of each lane runs right to left.
	cell = m.Map(geo.Cols)
	assert.Equal(t, 1, cell.Row)
	assert.Equal(t, geo.Cols-1, cell.Col)
}

func TestBlockRotation(t *testing.T) {
	tests := []struct {
		col, row int
		want     pcb.Angle
	}{
		{0, 0, 270}, // col even, row even
		{1, 0, 180}, // col odd, row even
		{0, 1, 0},   // col even, row odd
		{1, 1, 90},  // col odd, row odd
	}

	for _, tt := range tests {
		got := BlockRotation(tt.col, tt.row)
		assert.Equal(t, tt.want, got, "col %d row %d", tt.col, tt.row)

		// Parity is all that matters.
		assert.Equal(t, tt.want, BlockRotation(tt.col+2, tt.row+4))
	}
}

func TestRotation(t *testing.T) {
	serp := mustMapper(t, Geometry{Cols: 4, Rows: 4}, Serpentine)
	assert.Equal(t, pcb.Angle(0), serp.Rotation(Cell{Row: 0, Col: 2}))
	assert.Equal(t, pcb.Angle(180), serp.Rotation(Cell{Row: 1, Col: 2}))

	rm := mustMapper(t, Geometry{Cols: 4, Rows: 4}, RowMajor)
	assert.Equal(t, pcb.Angle(0), rm.Rotation(Cell{Row: 3, Col: 3}))

	vo := mustMapper(t, Geometry{Cols: 4, Rows: 4, Lanes: 2}, ViaOptimized)
	assert.Equal(t, pcb.Angle(270), vo.Rotation(Cell{Row: 0, Col: 0}))
	assert.Equal(t, pcb.Angle(90), vo.Rotation(Cell{Row: 1, Col: 1}))
}

func TestPosition(t *testing.T) {
	geo := Geometry{
		Cols: 4, Rows: 4,
		PitchX: 1.5625, PitchY: 1.625,
		OriginX: 10, OriginY: 10,
	}
	m := mustMapper(t, geo, RowMajor)

	pos := m.Position(Cell{Row: 0, Col: 0})
	assert.InDelta(t, 10.0, pos.X, 1e-9)
	assert.InDelta(t, 10.0, pos.Y, 1e-9)

	pos = m.Position(Cell{Row: 2, Col: 3})
	assert.InDelta(t, 10+3*1.5625, pos.X, 1e-9)
	assert.InDelta(t, 10+2*1.625, pos.Y, 1e-9)
}

func TestBlockCenter(t *testing.T) {
	geo := Geometry{
		Cols: 4, Rows: 4,
		PitchX: 1.5625, PitchY: 1.625,
		OriginX: 10, OriginY: 10,
	}
	m := mustMapper(t, geo, RowMajor)

	// The block center is the midpoint of its four member positions.
	center := m.BlockCenter(0, 0)
	assert.InDelta(t, 10+1.5625/2, center.X, 1e-9)
	assert.InDelta(t, 10+1.625/2, center.Y, 1e-9)

	center = m.BlockCenter(1, 1)
	assert.InDelta(t, 10+2*1.5625+1.5625/2, center.X, 1e-9)
	assert.InDelta(t, 10+2*1.625+1.625/2, center.Y, 1e-9)

	// Member cells agree on their block.
	for _, cell := range []Cell{{Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 3, Col: 2}, {Row: 3, Col: 3}} {
		br, bc := cell.Block()
		assert.Equal(t, 1, br)
		assert.Equal(t, 1, bc)
	}
}

func TestNewMapperValidation(t *testing.T) {
	tests := []struct {
		name    string
		geo     Geometry
		pattern Pattern
		wantErr bool
	}{
		{"valid row-major", Geometry{Cols: 4, Rows: 4}, RowMajor, false},
		{"zero cols", Geometry{Cols: 0, Rows: 4}, RowMajor, true},
		{"lanes divide cols", Geometry{Cols: 8, Rows: 4, Lanes: 2}, LaneSerpentine, false},
		{"lanes do not divide cols", Geometry{Cols: 9, Rows: 4, Lanes: 2}, LaneSerpentine, true},
		{"zero lanes", Geometry{Cols: 8, Rows: 4}, LaneSerpentine, true},
		{"lanes divide rows", Geometry{Cols: 4, Rows: 8, Lanes: 2}, ViaOptimized, false},
		{"lanes do not divide rows", Geometry{Cols: 4, Rows: 9, Lanes: 2}, ViaOptimized, true},
		{"unknown pattern", Geometry{Cols: 4, Rows: 4}, Pattern("spiral"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper(tt.geo, tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePattern(t *testing.T) {
	for input, want := range map[string]Pattern{
		"row-major":     RowMajor,
		"serpentine":    Serpentine,
		"lanes":         LaneSerpentine,
		"via-optimized": ViaOptimized,
	} {
		got, err := ParsePattern(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParsePattern("zigzag")
	assert.Error(t, err)
}
