package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

func routedBoard(tracks, vias int) *pcb.Board {
	b := &pcb.Board{}
	for i := 0; i < tracks; i++ {
		b.AddTrack(&pcb.Track{Width: 0.1})
	}
	for i := 0; i < vias; i++ {
		b.AddVia(&pcb.Via{Size: 0.4})
	}
	return b
}

func TestParseSelection(t *testing.T) {
	for _, s := range []string{"tracks", "vias", "all"} {
		got, err := ParseSelection(s)
		require.NoError(t, err)
		assert.Equal(t, Selection(s), got)
	}
	_, err := ParseSelection("zones")
	assert.Error(t, err)
}

func TestRunAll(t *testing.T) {
	board := routedBoard(3, 2)

	report, err := Run(board, Options{Selection: All})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TracksFound)
	assert.Equal(t, 2, report.ViasFound)
	assert.Equal(t, 3, report.TracksRemoved)
	assert.Equal(t, 2, report.ViasRemoved)
	assert.Equal(t, 5, report.Total())

	assert.Empty(t, board.Tracks)
	assert.Empty(t, board.Vias)
}

func TestRunTracksOnly(t *testing.T) {
	board := routedBoard(3, 2)

	report, err := Run(board, Options{Selection: Tracks})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TracksRemoved)
	assert.Equal(t, 0, report.ViasRemoved)
	assert.Empty(t, board.Tracks)
	assert.Len(t, board.Vias, 2)
}

func TestRunViasOnly(t *testing.T) {
	board := routedBoard(3, 2)

	report, err := Run(board, Options{Selection: Vias})
	require.NoError(t, err)

	assert.Equal(t, 0, report.TracksRemoved)
	assert.Equal(t, 2, report.ViasRemoved)
	assert.Len(t, board.Tracks, 3)
	assert.Empty(t, board.Vias)
}

func TestRunConfirmAbort(t *testing.T) {
	board := routedBoard(3, 2)

	_, err := Run(board, Options{
		Selection: All,
		Confirm:   func(string) bool { return false },
	})
	assert.ErrorIs(t, err, ErrAborted)

	assert.Len(t, board.Tracks, 3)
	assert.Len(t, board.Vias, 2)
}

func TestRunConfirmPrompt(t *testing.T) {
	board := routedBoard(3, 2)

	var prompt string
	_, err := Run(board, Options{
		Selection: All,
		Confirm:   func(p string) bool { prompt = p; return true },
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "5")
}

func TestRunEmptyBoardSkipsConfirm(t *testing.T) {
	report, err := Run(&pcb.Board{}, Options{
		Selection: All,
		Confirm:   func(string) bool { t.Fatal("confirm called for empty board"); return false },
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total())
}
