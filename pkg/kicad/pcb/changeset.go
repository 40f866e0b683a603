package pcb

// ChangeSet stages track and via additions against a board. The board is
// untouched until Commit; a run abandoned before Commit leaves no trace.
// Mutations applied by an earlier Commit stay applied; there is no undo
// across commits.
type ChangeSet struct {
	board     *Board
	tracks    []*Track
	vias      []*Via
	committed bool
}

// NewChangeSet creates an empty change set for the board.
func NewChangeSet(board *Board) *ChangeSet {
	return &ChangeSet{board: board}
}

// AddTrack stages a track addition and returns the staged track.
func (cs *ChangeSet) AddTrack(t *Track) *Track {
	cs.tracks = append(cs.tracks, t)
	return t
}

// AddVia stages a via addition and returns the staged via.
func (cs *ChangeSet) AddVia(v *Via) *Via {
	cs.vias = append(cs.vias, v)
	return v
}

// TrackCount returns the number of staged tracks.
func (cs *ChangeSet) TrackCount() int { return len(cs.tracks) }

// ViaCount returns the number of staged vias.
func (cs *ChangeSet) ViaCount() int { return len(cs.vias) }

// Empty reports whether nothing has been staged.
func (cs *ChangeSet) Empty() bool {
	return len(cs.tracks) == 0 && len(cs.vias) == 0
}

// Commit applies all staged additions to the board. Committing twice is a
// no-op; the staged items are applied at most once.
func (cs *ChangeSet) Commit() {
	if cs.committed {
		return
	}
	for _, t := range cs.tracks {
		cs.board.AddTrack(t)
	}
	for _, v := range cs.vias {
		cs.board.AddVia(v)
	}
	cs.committed = true
}

// Discard drops all staged additions without touching the board.
func (cs *ChangeSet) Discard() {
	cs.tracks = nil
	cs.vias = nil
}
