// Package config loads matrix profiles: the per-board constants every
// operation shares (matrix dimensions, pitch, origin, pad roles, trace and
// via dimensions). A profile is loaded once at startup and never reloaded.
//
// Profile lookup order:
//  1. --profile flag
//  2. ./matrix.yaml
//  3. built-in defaults
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

// PadRoles maps electrical functions to pad numbers. The numbers are
// footprint-specific; the defaults match the WS2812B-1010.
type PadRoles struct {
	DOUT string `yaml:"dout"`
	VDD  string `yaml:"vdd"`
	GND  string `yaml:"gnd"`
	DIN  string `yaml:"din"`
}

// RouteConfig holds trace and via dimensions used by the routers.
type RouteConfig struct {
	DataTraceWidth  float64 `yaml:"data_trace_width"`  // mm
	PowerTraceWidth float64 `yaml:"power_trace_width"` // mm
	ViaDrill        float64 `yaml:"via_drill"`         // mm, signal vias
	ViaSize         float64 `yaml:"via_size"`          // mm, signal vias
	SearchRadius    float64 `yaml:"search_radius"`     // mm, nearest-via power routing
}

// ViaConfig holds the shared power via dimensions.
type ViaConfig struct {
	Drill float64 `yaml:"drill"` // mm, finished hole
	Size  float64 `yaml:"size"`  // mm, pad diameter
	Net   string  `yaml:"net"`   // default net for generated vias
}

// Profile is the full per-board configuration.
type Profile struct {
	Name string `yaml:"name"`

	Cols    int     `yaml:"cols"`
	Rows    int     `yaml:"rows"`
	Lanes   int     `yaml:"lanes"`
	PitchX  float64 `yaml:"pitch_x"`  // mm
	PitchY  float64 `yaml:"pitch_y"`  // mm
	OriginX float64 `yaml:"origin_x"` // mm
	OriginY float64 `yaml:"origin_y"` // mm

	LEDPrefix string `yaml:"led_prefix"`

	Pads  PadRoles    `yaml:"pads"`
	Route RouteConfig `yaml:"route"`
	Via   ViaConfig   `yaml:"via"`
}

// DefaultProfile returns the 64×40 eight-lane matrix the tooling was built
// around: 8 lanes of 8 columns × 40 rows, 1.5625×1.625 mm pitch.
func DefaultProfile() *Profile {
	p := &Profile{
		Name:  "led-matrix-64x40",
		Cols:  64,
		Rows:  40,
		Lanes: 8,
	}
	p.applyDefaults()
	return p
}

// ViaOptimizedProfile returns the 40×64 variant used with the
// via-optimized placement pattern: 8 lanes of 8 rows × 40 columns.
func ViaOptimizedProfile() *Profile {
	p := &Profile{
		Name:  "led-matrix-40x64-viaopt",
		Cols:  40,
		Rows:  64,
		Lanes: 8,
	}
	p.applyDefaults()
	return p
}

// Load finds and loads a profile, or returns defaults when no file exists.
// The returned path is empty when defaults were used.
func Load() (*Profile, string, error) {
	if _, err := os.Stat("matrix.yaml"); err == nil {
		p, err := LoadFromPath("matrix.yaml")
		return p, "matrix.yaml", err
	}
	return DefaultProfile(), "", nil
}

// LoadFromPath loads a profile from a specific path.
func LoadFromPath(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse profile: %w", err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the profile to the given path.
func (p *Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: marshal profile: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills in missing values with defaults
func (p *Profile) applyDefaults() {
	if p.PitchX == 0 {
		p.PitchX = 1.5625
	}
	if p.PitchY == 0 {
		p.PitchY = 1.625
	}
	if p.OriginX == 0 {
		p.OriginX = 10.0
	}
	if p.OriginY == 0 {
		p.OriginY = 10.0
	}
	if p.LEDPrefix == "" {
		p.LEDPrefix = "D"
	}
	if p.Pads.DOUT == "" {
		p.Pads.DOUT = "1"
	}
	if p.Pads.VDD == "" {
		p.Pads.VDD = "2"
	}
	if p.Pads.GND == "" {
		p.Pads.GND = "3"
	}
	if p.Pads.DIN == "" {
		p.Pads.DIN = "4"
	}
	if p.Route.DataTraceWidth == 0 {
		p.Route.DataTraceWidth = 0.1
	}
	if p.Route.PowerTraceWidth == 0 {
		p.Route.PowerTraceWidth = 0.2
	}
	if p.Route.ViaDrill == 0 {
		p.Route.ViaDrill = 0.3
	}
	if p.Route.ViaSize == 0 {
		p.Route.ViaSize = 0.6
	}
	if p.Route.SearchRadius == 0 {
		p.Route.SearchRadius = 2.5
	}
	if p.Via.Drill == 0 {
		p.Via.Drill = 0.2
	}
	if p.Via.Size == 0 {
		p.Via.Size = 0.4
	}
	if p.Via.Net == "" {
		p.Via.Net = "GND"
	}
}

// Validate checks the profile for values no pattern can work with.
// Pattern-specific divisibility is checked by grid.NewMapper.
func (p *Profile) Validate() error {
	if p.Cols <= 0 || p.Rows <= 0 {
		return fmt.Errorf("config: invalid matrix size %d×%d", p.Cols, p.Rows)
	}
	if p.Lanes < 0 {
		return fmt.Errorf("config: negative lane count %d", p.Lanes)
	}
	if p.PitchX <= 0 || p.PitchY <= 0 {
		return fmt.Errorf("config: invalid pitch %g×%g", p.PitchX, p.PitchY)
	}
	return nil
}

// Geometry converts the profile to the mapper geometry.
func (p *Profile) Geometry() grid.Geometry {
	return grid.Geometry{
		Cols:    p.Cols,
		Rows:    p.Rows,
		Lanes:   p.Lanes,
		PitchX:  p.PitchX,
		PitchY:  p.PitchY,
		OriginX: p.OriginX,
		OriginY: p.OriginY,
	}
}

// Mapper builds the shared index mapper for this profile and pattern.
func (p *Profile) Mapper(pattern grid.Pattern) (*grid.Mapper, error) {
	return grid.NewMapper(p.Geometry(), pattern)
}
