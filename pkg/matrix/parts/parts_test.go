package parts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

func TestLoadMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.yaml")
	content := `
by_value:
  100nF: C1525
by_footprint:
  LED_WS2812B-1010: C5349953
by_prefix:
  D: C2843785
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, "C1525", m.ByValue["100nF"])
	assert.Equal(t, "C5349953", m.ByFootprint["LED_WS2812B-1010"])
	assert.Equal(t, "C2843785", m.ByPrefix["D"])
}

func TestLoadMappingErrors(t *testing.T) {
	_, err := LoadMapping(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("by_value: ["), 0644))
	_, err = LoadMapping(bad)
	assert.Error(t, err)
}

func TestLookupPrecedence(t *testing.T) {
	m := &Mapping{
		ByValue:     map[string]string{"100nF": "BY_VALUE"},
		ByFootprint: map[string]string{"C_0402": "BY_FOOTPRINT"},
		ByPrefix:    map[string]string{"C": "BY_PREFIX"},
	}

	// Value wins over footprint, footprint over prefix.
	fp := &pcb.Footprint{Reference: "C1", Value: "100nF", Name: "C_0402"}
	assert.Equal(t, "BY_VALUE", m.Lookup(fp))

	fp = &pcb.Footprint{Reference: "C1", Value: "1uF", Name: "C_0402"}
	assert.Equal(t, "BY_FOOTPRINT", m.Lookup(fp))

	fp = &pcb.Footprint{Reference: "C1", Value: "1uF", Name: "C_0603"}
	assert.Equal(t, "BY_PREFIX", m.Lookup(fp))

	fp = &pcb.Footprint{Reference: "R1", Value: "10k", Name: "R_0402"}
	assert.Equal(t, "", m.Lookup(fp))
}

func TestLookupPrefixCase(t *testing.T) {
	m := &Mapping{ByPrefix: map[string]string{"D": "C123"}}
	assert.Equal(t, "C123", m.Lookup(&pcb.Footprint{Reference: "d4"}))
}

func TestApply(t *testing.T) {
	board := &pcb.Board{}
	board.AddFootprint(&pcb.Footprint{Reference: "D1", Value: "WS2812B", Name: "LED_1010"})
	board.AddFootprint(&pcb.Footprint{Reference: "D2", Value: "WS2812B", Name: "LED_1010"})
	board.AddFootprint(&pcb.Footprint{Reference: "R1", Value: "10k", Name: "R_0402"})
	board.AddFootprint(&pcb.Footprint{Reference: "TP1", Value: "TestPoint", Name: "TP_1mm"})

	m := &Mapping{ByValue: map[string]string{"WS2812B": "C5349953"}}

	report := Apply(board, m)
	assert.Equal(t, 2, report.Assigned)
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "R1", report.Unmatched[0].Reference)

	assert.Equal(t, "C5349953", board.FindFootprint("D1").Field(FieldName))
	assert.Equal(t, "C5349953", board.FindFootprint("D2").Field(FieldName))

	// Excluded footprints are neither tagged nor reported.
	assert.Equal(t, "", board.FindFootprint("TP1").Field(FieldName))
}

func TestApplyOverwrites(t *testing.T) {
	board := &pcb.Board{}
	fp := &pcb.Footprint{Reference: "C1", Value: "100nF"}
	fp.SetField("LCSC", "C_OLD")
	board.AddFootprint(fp)

	m := &Mapping{ByValue: map[string]string{"100nF": "C_NEW"}}
	report := Apply(board, m)

	assert.Equal(t, 1, report.Assigned)
	assert.Equal(t, "C_NEW", fp.Field("LCSC"))
}
