package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Equal(t, 64, p.Cols)
	assert.Equal(t, 40, p.Rows)
	assert.Equal(t, 8, p.Lanes)
	assert.Equal(t, 1.5625, p.PitchX)
	assert.Equal(t, 1.625, p.PitchY)
	assert.Equal(t, 10.0, p.OriginX)
	assert.Equal(t, 10.0, p.OriginY)
	assert.Equal(t, "D", p.LEDPrefix)

	assert.Equal(t, "1", p.Pads.DOUT)
	assert.Equal(t, "2", p.Pads.VDD)
	assert.Equal(t, "3", p.Pads.GND)
	assert.Equal(t, "4", p.Pads.DIN)

	assert.Equal(t, 0.1, p.Route.DataTraceWidth)
	assert.Equal(t, 0.2, p.Route.PowerTraceWidth)
	assert.Equal(t, 0.6, p.Route.ViaSize)
	assert.Equal(t, 0.3, p.Route.ViaDrill)
	assert.Equal(t, 2.5, p.Route.SearchRadius)

	assert.Equal(t, 0.4, p.Via.Size)
	assert.Equal(t, 0.2, p.Via.Drill)
	assert.Equal(t, "GND", p.Via.Net)

	require.NoError(t, p.Validate())
}

func TestViaOptimizedProfile(t *testing.T) {
	p := ViaOptimizedProfile()

	assert.Equal(t, 40, p.Cols)
	assert.Equal(t, 64, p.Rows)
	assert.Equal(t, 8, p.Lanes)

	// The via-optimized pattern partitions rows, so the mapper must accept
	// this geometry.
	_, err := p.Mapper(grid.ViaOptimized)
	require.NoError(t, err)
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matrix.yaml")

	content := `
name: test-board
cols: 16
rows: 8
lanes: 2
pitch_x: 2.0
led_prefix: LED
pads:
  dout: "3"
route:
  data_trace_width: 0.15
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "test-board", p.Name)
	assert.Equal(t, 16, p.Cols)
	assert.Equal(t, 8, p.Rows)
	assert.Equal(t, 2, p.Lanes)
	assert.Equal(t, "LED", p.LEDPrefix)

	// Explicit values stick, the rest falls back to defaults.
	assert.Equal(t, 2.0, p.PitchX)
	assert.Equal(t, 1.625, p.PitchY)
	assert.Equal(t, "3", p.Pads.DOUT)
	assert.Equal(t, "2", p.Pads.VDD)
	assert.Equal(t, 0.15, p.Route.DataTraceWidth)
	assert.Equal(t, 0.2, p.Route.PowerTraceWidth)
}

func TestLoadFromPathErrors(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cols: [not a number"), 0644))
	_, err = LoadFromPath(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("cols: -4\nrows: 8\n"), 0644))
	_, err = LoadFromPath(invalid)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	p := DefaultProfile()
	p.Name = "saved"
	p.Cols = 32

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, p.Save(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"zero cols", func(p *Profile) { p.Cols = 0 }},
		{"negative rows", func(p *Profile) { p.Rows = -1 }},
		{"negative lanes", func(p *Profile) { p.Lanes = -2 }},
		{"zero pitch", func(p *Profile) { p.PitchX = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestGeometry(t *testing.T) {
	p := DefaultProfile()
	geo := p.Geometry()

	assert.Equal(t, p.Cols, geo.Cols)
	assert.Equal(t, p.Rows, geo.Rows)
	assert.Equal(t, p.Lanes, geo.Lanes)
	assert.Equal(t, 2560, geo.Count())
}
