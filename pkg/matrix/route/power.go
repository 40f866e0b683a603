package route

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

// blockViaTolerance is the center-match tolerance for the block strategy.
// Generated via centers are exact arithmetic; 0.01 mm only absorbs float
// noise, it is not a search radius.
const blockViaTolerance = 0.01

// PowerStrategy selects how power pads find their via.
type PowerStrategy string

const (
	// PowerBlock recomputes each LED's 2×2 block center and expects the
	// shared via exactly there (the viagen layout).
	PowerBlock PowerStrategy = "block"

	// PowerNearest searches the board for the nearest via within the
	// profile's search radius, adopting the pad's net when the via has
	// none.
	PowerNearest PowerStrategy = "nearest"
)

// ParsePowerStrategy resolves a power routing strategy name.
func ParsePowerStrategy(s string) (PowerStrategy, error) {
	switch PowerStrategy(s) {
	case PowerBlock, PowerNearest:
		return PowerStrategy(s), nil
	default:
		return "", fmt.Errorf("route: unknown power strategy %q", s)
	}
}

// PowerOptions configures a power routing run.
type PowerOptions struct {
	Strategy PowerStrategy
	Pattern  grid.Pattern // block strategy: the placement pattern in use

	// Progress receives (processed, total) every 100 LEDs. May be nil.
	Progress func(processed, total int)

	// Warn receives per-LED findings; only the first few of each class
	// are forwarded. May be nil.
	Warn func(msg string)
}

// PowerReport summarizes a power routing run.
type PowerReport struct {
	Tracks       int
	VDDRouted    int
	GNDRouted    int
	VDDFailed    int
	GNDFailed    int
	ViasNotFound int
	PadsNotFound int
}

// Failed returns the total failed connection count.
func (r *PowerReport) Failed() int {
	return r.VDDFailed + r.GNDFailed + r.ViasNotFound + r.PadsNotFound
}

const maxWarnPerClass = 5

// Power routes VDD and GND pads to shared power vias. Tracks are staged
// and committed together; via net adoption (nearest strategy) applies
// immediately since it mutates existing vias, not new copper.
func Power(board *pcb.Board, profile *config.Profile, opts PowerOptions) (*PowerReport, error) {
	leds, _ := chain.Collect(board, profile.LEDPrefix)
	if len(leds) == 0 {
		return nil, fmt.Errorf("route: no LED footprints found")
	}

	switch opts.Strategy {
	case PowerNearest:
		return powerNearest(board, profile, leds, opts)
	default:
		return powerBlock(board, profile, leds, opts)
	}
}

// powerBlock routes each LED's power pad to the via at its recomputed
// block center. A via on the GND net takes the GND pad, a via on VDD
// takes the VDD pad; a netless via is skipped so the operator can assign
// nets and re-run.
func powerBlock(board *pcb.Board, profile *config.Profile, leds []chain.LED, opts PowerOptions) (*PowerReport, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = grid.ViaOptimized
	}
	mapper, err := profile.Mapper(pattern)
	if err != nil {
		return nil, err
	}

	cs := pcb.NewChangeSet(board)
	report := &PowerReport{}

	for idx, led := range leds {
		cell := mapper.Map(idx)
		blockRow, blockCol := cell.Block()
		center := mapper.BlockCenter(blockRow, blockCol)

		via := board.FindViaAt(center, blockViaTolerance)
		if via == nil {
			report.ViasNotFound++
			if report.ViasNotFound <= maxWarnPerClass {
				warnPower(opts, "via not found for %s at (%.3f, %.3f)",
					led.Footprint.Reference, center.X, center.Y)
			}
			continue
		}

		vddPad := led.Footprint.Pad(profile.Pads.VDD)
		gndPad := led.Footprint.Pad(profile.Pads.GND)
		if vddPad == nil || gndPad == nil {
			report.PadsNotFound++
			if report.PadsNotFound <= maxWarnPerClass {
				warnPower(opts, "VDD or GND pad not found for %s", led.Footprint.Reference)
			}
			continue
		}

		switch netName(via.Net) {
		case "GND":
			cs.AddTrack(newTrack(gndPad.Position(), via.Position,
				profile.Route.PowerTraceWidth, pcb.LayerFrontCu, via.Net))
			report.Tracks++
			report.GNDRouted++
		case "VDD":
			cs.AddTrack(newTrack(vddPad.Position(), via.Position,
				profile.Route.PowerTraceWidth, pcb.LayerFrontCu, via.Net))
			report.Tracks++
			report.VDDRouted++
		default:
			// Netless or foreign net: leave for the operator.
		}

		if opts.Progress != nil && (idx+1)%progressEvery == 0 {
			opts.Progress(idx+1, len(leds))
		}
	}

	cs.Commit()
	return report, nil
}

// powerNearest routes each power pad to the nearest via within the search
// radius, using a kd-tree over all board vias. A netless via adopts the
// pad's net; a via on a conflicting net fails that connection.
func powerNearest(board *pcb.Board, profile *config.Profile, leds []chain.LED, opts PowerOptions) (*PowerReport, error) {
	index := newViaIndex(board.Vias)
	if index == nil {
		return nil, fmt.Errorf("route: no vias on board, run via generation first")
	}

	cs := pcb.NewChangeSet(board)
	report := &PowerReport{}
	radius := profile.Route.SearchRadius

	for idx, led := range leds {
		vddPad := led.Footprint.Pad(profile.Pads.VDD)
		gndPad := led.Footprint.Pad(profile.Pads.GND)
		if vddPad == nil || gndPad == nil {
			report.PadsNotFound++
			if report.PadsNotFound <= maxWarnPerClass {
				warnPower(opts, "pads not found for %s", led.Footprint.Reference)
			}
			continue
		}

		if routePadToNearest(cs, profile, index, vddPad, radius) {
			report.VDDRouted++
			report.Tracks++
		} else {
			report.VDDFailed++
		}
		if routePadToNearest(cs, profile, index, gndPad, radius) {
			report.GNDRouted++
			report.Tracks++
		} else {
			report.GNDFailed++
		}

		if opts.Progress != nil && (idx+1)%progressEvery == 0 {
			opts.Progress(idx+1, len(leds))
		}
	}

	cs.Commit()
	return report, nil
}

// routePadToNearest stages one pad-to-via track. Returns false when no
// via is in radius or the nets conflict.
func routePadToNearest(cs *pcb.ChangeSet, profile *config.Profile, index *viaIndex, pad *pcb.Pad, radius float64) bool {
	via := index.Nearest(pad.Position(), radius)
	if via == nil {
		return false
	}

	if netName(via.Net) == "" {
		via.Net = pad.Net
	}
	if netName(via.Net) != netName(pad.Net) {
		return false
	}

	cs.AddTrack(newTrack(pad.Position(), via.Position,
		profile.Route.PowerTraceWidth, pcb.LayerFrontCu, pad.Net))
	return true
}

func netName(n *pcb.Net) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func warnPower(opts PowerOptions, format string, args ...any) {
	if opts.Warn != nil {
		opts.Warn(fmt.Sprintf(format, args...))
	}
}
