// Package route inserts straight copper between consecutive chain
// members (data routing) and between power pads and shared vias (power
// routing). There is no pathfinding or obstacle avoidance: every segment
// is a direct line, and layer changes are decided purely from the grid
// arithmetic of the shared mapper.
package route

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
)

const progressEvery = 100

// Strategy selects how data connections are routed.
type Strategy string

const (
	// Direct draws one top-layer track per in-lane DOUT→DIN pair and
	// leaves lane boundaries unrouted.
	Direct Strategy = "direct"

	// Smart draws a top-layer track for same-row pairs and drops to the
	// bottom layer through a via pair on row transitions, where the
	// serpentine wrap has to clear the LED bodies.
	Smart Strategy = "smart"

	// Bottom draws every pair on the bottom layer. No vias: the pads
	// themselves provide the layer transition on through-plated boards.
	Bottom Strategy = "bottom"
)

// ParseStrategy resolves a data routing strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Direct, Smart, Bottom:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("route: unknown strategy %q", s)
	}
}

// Options configures a data routing run.
type Options struct {
	Strategy Strategy
	Pattern  grid.Pattern

	// Progress receives (routed, total) every 100 connections. May be nil.
	Progress func(routed, total int)

	// Warn receives per-connection findings. May be nil.
	Warn func(msg string)
}

// Report summarizes a data routing run.
type Report struct {
	Connections int // pairs attempted
	Tracks      int
	Vias        int
	Errors      int // pairs skipped for missing pads
	LaneBreaks  int // pairs skipped at lane boundaries (Direct only)
}

// Data routes the DOUT→DIN chain. All segments are staged in a change set
// and committed together, so a run that errors out before commit leaves
// the board untouched.
func Data(board *pcb.Board, profile *config.Profile, opts Options) (*Report, error) {
	mapper, err := profile.Mapper(opts.Pattern)
	if err != nil {
		return nil, err
	}

	leds, _ := chain.Collect(board, profile.LEDPrefix)
	if len(leds) < 2 {
		return nil, fmt.Errorf("route: found %d LED footprints, nothing to route", len(leds))
	}

	cs := pcb.NewChangeSet(board)
	report := &Report{}

	for idx := 0; idx < len(leds)-1; idx++ {
		cur, next := leds[idx], leds[idx+1]
		curCell, nextCell := mapper.Map(idx), mapper.Map(idx+1)

		if opts.Strategy == Direct && curCell.Lane != nextCell.Lane {
			// Each lane is an independent chain fed by its own driver
			// output; the boundary pair is not connected on the board.
			report.LaneBreaks++
			continue
		}

		report.Connections++

		dout := cur.Footprint.Pad(profile.Pads.DOUT)
		din := next.Footprint.Pad(profile.Pads.DIN)
		if dout == nil || din == nil {
			warn(opts, "missing pads for %s -> %s", cur.Footprint.Reference, next.Footprint.Reference)
			report.Errors++
			continue
		}

		routePair(cs, profile, opts.Strategy, dout, din, curCell, nextCell, report)

		if opts.Progress != nil && (idx+1)%progressEvery == 0 {
			opts.Progress(idx+1, len(leds)-1)
		}
	}

	cs.Commit()
	return report, nil
}

// routePair stages the copper for one DOUT→DIN connection.
func routePair(cs *pcb.ChangeSet, profile *config.Profile, strategy Strategy, dout, din *pcb.Pad, cur, next grid.Cell, report *Report) {
	start := dout.Position()
	end := din.Position()
	net := dout.Net
	width := profile.Route.DataTraceWidth

	switch strategy {
	case Bottom:
		cs.AddTrack(newTrack(start, end, width, pcb.LayerBackCu, net))
		report.Tracks++

	case Smart:
		if cur.Row != next.Row {
			// Serpentine wrap: via down, run the wrap on the bottom
			// layer, via back up.
			cs.AddVia(newSignalVia(profile, start, net))
			cs.AddTrack(newTrack(start, end, width, pcb.LayerBackCu, net))
			cs.AddVia(newSignalVia(profile, end, net))
			report.Tracks++
			report.Vias += 2
			return
		}
		cs.AddTrack(newTrack(start, end, width, pcb.LayerFrontCu, net))
		report.Tracks++

	default: // Direct
		cs.AddTrack(newTrack(start, end, width, pcb.LayerFrontCu, net))
		report.Tracks++
	}
}

func newTrack(start, end pcb.Position, width float64, layer string, net *pcb.Net) *pcb.Track {
	return &pcb.Track{
		Start: start,
		End:   end,
		Width: width,
		Layer: layer,
		Net:   net,
	}
}

func newSignalVia(profile *config.Profile, pos pcb.Position, net *pcb.Net) *pcb.Via {
	return &pcb.Via{
		Position: pos,
		Size:     profile.Route.ViaSize,
		Drill:    profile.Route.ViaDrill,
		Layers:   pcb.LayerSet{pcb.LayerFrontCu, pcb.LayerBackCu},
		Net:      net,
	}
}

func warn(opts Options, format string, args ...any) {
	if opts.Warn != nil {
		opts.Warn(fmt.Sprintf(format, args...))
	}
}
