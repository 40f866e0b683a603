// Package clean removes routing copper from the board: all tracks, all
// vias, or both. Deletion is guarded by an operator confirmation since
// there is no undo.
package clean

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

// ErrAborted is returned when the operator declines the confirmation.
var ErrAborted = errors.New("clean: aborted by operator")

const progressEvery = 1000

// Selection chooses what to remove.
type Selection string

const (
	Tracks Selection = "tracks"
	Vias   Selection = "vias"
	All    Selection = "all"
)

// ParseSelection resolves a selection name.
func ParseSelection(s string) (Selection, error) {
	switch Selection(s) {
	case Tracks, Vias, All:
		return Selection(s), nil
	default:
		return "", fmt.Errorf("clean: unknown selection %q", s)
	}
}

// Options configures a cleanup run.
type Options struct {
	Selection Selection

	// Confirm is consulted before anything is deleted. Nil means proceed.
	Confirm func(prompt string) bool

	// Progress receives (removed, total) every 1000 deletions. May be nil.
	Progress func(removed, total int)
}

// Report summarizes a cleanup run.
type Report struct {
	TracksFound   int
	ViasFound     int
	TracksRemoved int
	ViasRemoved   int
}

// Total returns the number of items removed.
func (r *Report) Total() int { return r.TracksRemoved + r.ViasRemoved }

// Run scans the board, confirms, and deletes the selected routing items.
// Board item removal is assumed to always succeed; there is no partial
// failure handling.
func Run(board *pcb.Board, opts Options) (*Report, error) {
	report := &Report{
		TracksFound: len(board.Tracks),
		ViasFound:   len(board.Vias),
	}

	var wantTracks, wantVias bool
	switch opts.Selection {
	case Tracks:
		wantTracks = true
	case Vias:
		wantVias = true
	default:
		wantTracks, wantVias = true, true
	}

	total := 0
	if wantTracks {
		total += report.TracksFound
	}
	if wantVias {
		total += report.ViasFound
	}
	if total == 0 {
		return report, nil
	}

	if opts.Confirm != nil {
		if !opts.Confirm(fmt.Sprintf("Remove all %d items?", total)) {
			return nil, ErrAborted
		}
	}

	// Snapshot before deleting: never mutate a slice being iterated.
	removed := 0
	if wantTracks {
		tracks := append([]*pcb.Track(nil), board.Tracks...)
		for _, t := range tracks {
			board.RemoveTrack(t)
			report.TracksRemoved++
			removed++
			if opts.Progress != nil && removed%progressEvery == 0 {
				opts.Progress(removed, total)
			}
		}
	}
	if wantVias {
		vias := append([]*pcb.Via(nil), board.Vias...)
		for _, v := range vias {
			board.RemoveVia(v)
			report.ViasRemoved++
			removed++
			if opts.Progress != nil && removed%progressEvery == 0 {
				opts.Progress(removed, total)
			}
		}
	}

	return report, nil
}
