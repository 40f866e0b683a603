package host

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

// SimConfig controls the synthetic board the simulator host builds.
type SimConfig struct {
	LEDCount     int    // Number of chained LED footprints (D1..Dn)
	LEDPrefix    string // Reference prefix for LEDs
	LEDValue     string // Value string for LEDs
	LEDFootprint string // Footprint name for LEDs
	WithSupport  bool   // Include caps, test points, mounting holes, fiducials
}

// DefaultSimConfig returns a small board useful for smoke runs and tests.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		LEDCount:     2560,
		LEDPrefix:    "D",
		LEDValue:     "WS2812B-1010",
		LEDFootprint: "LED_WS2812B-1010",
		WithSupport:  true,
	}
}

// SimHost is an in-memory host useful for unit tests and dry runs. It
// synthesizes a board with a chained LED matrix and records how many
// redraws have been requested.
type SimHost struct {
	cfg       SimConfig
	board     *pcb.Board
	refreshes int
}

// NewSimHost constructs a simulator host. The board is built lazily on the
// first Board call.
func NewSimHost(cfg SimConfig) *SimHost {
	if cfg.LEDPrefix == "" {
		cfg.LEDPrefix = "D"
	}
	if cfg.LEDValue == "" {
		cfg.LEDValue = "WS2812B-1010"
	}
	if cfg.LEDFootprint == "" {
		cfg.LEDFootprint = "LED_WS2812B-1010"
	}
	return &SimHost{cfg: cfg}
}

func (s *SimHost) Name() string {
	return fmt.Sprintf("simulator (%d LEDs)", s.cfg.LEDCount)
}

func (s *SimHost) Board() (*pcb.Board, error) {
	if s.board == nil {
		s.board = BuildSimBoard(s.cfg)
	}
	return s.board, nil
}

func (s *SimHost) Refresh() error {
	s.refreshes++
	return nil
}

// RefreshCount reports how many redraws have been requested.
func (s *SimHost) RefreshCount() int {
	return s.refreshes
}

// Pad numbers of the WS2812B-1010 footprint. At 0° the pads sit
//
//	4 3
//	2 1
//
// with 4=DIN, 3=GND, 2=VDD, 1=DOUT.
const (
	simPadDOUT = "1"
	simPadVDD  = "2"
	simPadGND  = "3"
	simPadDIN  = "4"
)

const simPadPitch = 0.325 // mm, pad offset from footprint center

// BuildSimBoard synthesizes a board with the configured LED chain plus,
// optionally, the support parts a real board carries (decoupling caps,
// test points, mounting holes, fiducials, a silkscreen logo placeholder).
// All footprints start at the origin: placement is the matrix tooling's
// job, not the simulator's.
func BuildSimBoard(cfg SimConfig) *pcb.Board {
	board := &pcb.Board{
		Version:   20240108,
		Generator: "simhost",
		General:   pcb.General{Thickness: 1.6, Title: "LED matrix (simulated)"},
		Layers: []pcb.Layer{
			{Number: 0, Name: pcb.LayerFrontCu, Type: "signal"},
			{Number: 1, Name: pcb.LayerInner1Cu, Type: "power"},
			{Number: 2, Name: pcb.LayerInner2Cu, Type: "power"},
			{Number: 31, Name: pcb.LayerBackCu, Type: "signal"},
		},
	}

	// Net 0 is reserved for unconnected pins.
	board.Nets = append(board.Nets,
		pcb.Net{Number: 0, Name: ""},
		pcb.Net{Number: 1, Name: "GND"},
		pcb.Net{Number: 2, Name: "VDD"},
	)

	// One data net per DOUT->DIN link in the chain.
	dataNetBase := len(board.Nets)
	for i := 1; i < cfg.LEDCount; i++ {
		board.Nets = append(board.Nets, pcb.Net{
			Number: dataNetBase + i - 1,
			Name:   fmt.Sprintf("LED_DATA_%d", i),
		})
	}

	gnd := board.GetNet("GND")
	vdd := board.GetNet("VDD")

	for i := 0; i < cfg.LEDCount; i++ {
		var din, dout *pcb.Net
		if i > 0 {
			din = board.GetNet(fmt.Sprintf("LED_DATA_%d", i))
		}
		if i < cfg.LEDCount-1 {
			dout = board.GetNet(fmt.Sprintf("LED_DATA_%d", i+1))
		}

		board.AddFootprint(&pcb.Footprint{
			Library:   "LED_SMD",
			Name:      cfg.LEDFootprint,
			Layer:     pcb.LayerFrontCu,
			Reference: fmt.Sprintf("%s%d", cfg.LEDPrefix, i+1),
			Value:     cfg.LEDValue,
			Pads: []pcb.Pad{
				simPad(simPadDOUT, simPadPitch, simPadPitch, dout),
				simPad(simPadVDD, -simPadPitch, simPadPitch, vdd),
				simPad(simPadGND, simPadPitch, -simPadPitch, gnd),
				simPad(simPadDIN, -simPadPitch, -simPadPitch, din),
			},
		})
	}

	if cfg.WithSupport {
		addSupportParts(board, gnd, vdd)
	}

	return board
}

func simPad(number string, dx, dy float64, net *pcb.Net) pcb.Pad {
	return pcb.Pad{
		Number: number,
		Type:   "smd",
		Shape:  "rect",
		Offset: pcb.Position{X: dx, Y: dy},
		Size:   pcb.Size{Width: 0.25, Height: 0.35},
		Layers: pcb.LayerSet{pcb.LayerFrontCu},
		Net:    net,
	}
}

func addSupportParts(board *pcb.Board, gnd, vdd *pcb.Net) {
	for i := 1; i <= 4; i++ {
		board.AddFootprint(&pcb.Footprint{
			Library:   "Capacitor_SMD",
			Name:      "C_0402_1005Metric",
			Layer:     pcb.LayerBackCu,
			Reference: fmt.Sprintf("C%d", i),
			Value:     "100nF",
			Fields:    map[string]string{"LCSC": "C1525"},
			Pads: []pcb.Pad{
				simPad("1", -0.48, 0, vdd),
				simPad("2", 0.48, 0, gnd),
			},
		})
	}

	for i := 1; i <= 2; i++ {
		board.AddFootprint(&pcb.Footprint{
			Library:   "TestPoint",
			Name:      "TestPoint_Pad_D1.0mm",
			Layer:     pcb.LayerFrontCu,
			Reference: fmt.Sprintf("TP%d", i),
			Value:     "TestPoint",
			Pads:      []pcb.Pad{simPad("1", 0, 0, gnd)},
		})
	}

	for i := 1; i <= 4; i++ {
		board.AddFootprint(&pcb.Footprint{
			Library:   "MountingHole",
			Name:      "MountingHole_2.2mm_M2",
			Layer:     pcb.LayerFrontCu,
			Reference: fmt.Sprintf("H%d", i),
			Value:     "MountingHole",
		})
	}

	for i := 1; i <= 2; i++ {
		board.AddFootprint(&pcb.Footprint{
			Library:   "Fiducial",
			Name:      "Fiducial_1mm_Mask2mm",
			Layer:     pcb.LayerFrontCu,
			Reference: fmt.Sprintf("FID%d", i),
			Value:     "Fiducial",
		})
	}

	board.AddFootprint(&pcb.Footprint{
		Library:   "Symbol",
		Name:      "OSHW-Logo_7.3x6mm_SilkScreen",
		Layer:     pcb.LayerBackCu,
		Reference: "LOGO1",
		Value:     "Logo",
	})
}
