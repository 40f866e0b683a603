package bom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

func fp(ref, value, name, part string) *pcb.Footprint {
	f := &pcb.Footprint{Reference: ref, Value: value, Name: name}
	if part != "" {
		f.SetField("LCSC", part)
	}
	return f
}

func testBoard() *pcb.Board {
	b := &pcb.Board{}
	b.AddFootprint(fp("D2", "WS2812B", "LED_1010", "C5349953"))
	b.AddFootprint(fp("D10", "WS2812B", "LED_1010", "C5349953"))
	b.AddFootprint(fp("D1", "WS2812B", "LED_1010", "C5349953"))
	b.AddFootprint(fp("C1", "100nF", "C_0402", "C1525"))
	b.AddFootprint(fp("C2", "100nF", "C_0402", "C1525"))
	b.AddFootprint(fp("R1", "10k", "R_0402", ""))
	b.AddFootprint(fp("TP1", "TestPoint", "TP_1mm", ""))
	b.AddFootprint(fp("H1", "MountingHole", "MH_M2", ""))
	b.AddFootprint(fp("FID1", "Fiducial", "Fid_1mm", ""))
	b.AddFootprint(fp("LOGO1", "Logo", "OSHW", ""))
	return b
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"D1", false},
		{"C3", false},
		{"R42", false},
		{"TP1", true},
		{"H2", true},
		{"MH1", true},
		{"FID1", true},
		{"LOGO1", true},
		{"", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Excluded(tt.ref), "ref %q", tt.ref)
	}
}

func TestBuild(t *testing.T) {
	groups := Build(testBoard())
	require.Len(t, groups, 3)

	// Ordered by first designator's leading character: C, D, R.
	assert.Equal(t, "100nF", groups[0].Value)
	assert.Equal(t, []string{"C1", "C2"}, groups[0].Refs)
	assert.Equal(t, "C1525", groups[0].Part)

	assert.Equal(t, "WS2812B", groups[1].Value)
	assert.Equal(t, []string{"D1", "D2", "D10"}, groups[1].Refs)
	assert.Equal(t, 3, groups[1].Quantity())
	assert.Equal(t, "D1,D2,D10", groups[1].Designators())

	assert.Equal(t, "10k", groups[2].Value)
	assert.Equal(t, "", groups[2].Part)

	assert.Equal(t, 6, TotalComponents(groups))
}

func TestBuildIdempotent(t *testing.T) {
	board := testBoard()
	first := Build(board)
	second := Build(board)
	assert.Equal(t, first, second)
}

func TestBuildSplitsOnPartNumber(t *testing.T) {
	b := &pcb.Board{}
	b.AddFootprint(fp("C1", "100nF", "C_0402", "C1525"))
	b.AddFootprint(fp("C2", "100nF", "C_0402", "C9999"))

	groups := Build(b)
	assert.Len(t, groups, 2)
}

func TestSortRefs(t *testing.T) {
	refs := []string{"D10", "D2", "D1", "D100", "C3", "C20"}
	SortRefs(refs)
	assert.Equal(t, []string{"C3", "C20", "D1", "D2", "D10", "D100"}, refs)
}

func TestPartNumberAliases(t *testing.T) {
	for _, field := range []string{"LCSC", "lcsc part", "LCSC_PART", "LCSC Part #", "JLCPCB"} {
		f := &pcb.Footprint{Reference: "C1", Fields: map[string]string{field: "C1525"}}
		assert.Equal(t, "C1525", PartNumber(f), "field %q", field)
	}

	assert.Equal(t, "", PartNumber(&pcb.Footprint{Reference: "C1"}))
}

func TestWriteCSV(t *testing.T) {
	groups := Build(testBoard())

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, groups))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Comment,Designator,Footprint,LCSC Part #", lines[0])
	assert.Equal(t, `100nF,"C1,C2",C_0402,C1525`, lines[1])
	assert.Equal(t, `WS2812B,"D1,D2,D10",LED_1010,C5349953`, lines[2])
}

func TestMissingParts(t *testing.T) {
	groups := Build(testBoard())
	missing := MissingParts(groups)
	require.Len(t, missing, 1)
	assert.Equal(t, "10k", missing[0].Value)
}
