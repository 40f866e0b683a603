package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/clean"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [tracks|vias|all]",
	Short: "Remove routing from the board",
	Long: `Scans the board and deletes the selected routing items. Deletion
is irreversible and asks for confirmation first.

Examples:
  otm clean all      # Remove every track and via
  otm clean vias     # Remove only vias
  otm clean tracks   # Remove only tracks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	selection := clean.All
	if len(args) == 1 {
		var err error
		selection, err = clean.ParseSelection(args[0])
		if err != nil {
			return err
		}
	}

	profile, err := loadProfile()
	if err != nil {
		return err
	}
	h, err := openHost(profile)
	if err != nil {
		return err
	}
	board, err := h.Board()
	if err != nil {
		return fmt.Errorf("error acquiring board: %w", err)
	}

	fmt.Println("Scanning for tracks and vias...")
	fmt.Printf("Found %d tracks\n", len(board.Tracks))
	fmt.Printf("Found %d vias\n", len(board.Vias))

	if selection == clean.All {
		fmt.Println("\nThis will remove ALL routing from the board!")
	}

	report, err := clean.Run(board, clean.Options{
		Selection: selection,
		Confirm:   confirm,
		Progress:  progressf("Removed"),
	})
	if errors.Is(err, clean.ErrAborted) {
		fmt.Println("Cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	if report.Total() == 0 {
		fmt.Println("No matching items found on board")
		return nil
	}

	if report.TracksRemoved > 0 {
		fmt.Printf("✓ Removed %d tracks\n", report.TracksRemoved)
	}
	if report.ViasRemoved > 0 {
		fmt.Printf("✓ Removed %d vias\n", report.ViasRemoved)
	}
	fmt.Printf("\n✓ Successfully removed %d items\n", report.Total())

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("Board refreshed")
	return nil
}
