package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/place"
)

var (
	placePattern  string
	placeRotation float64
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "LED matrix placement operations",
	Long:  `Commands that write grid positions and rotations into LED footprints`,
}

var placeGridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Place the full LED matrix",
	Long: `Places every LED footprint at its grid position under the chosen
traversal pattern.

Patterns:
  row-major      left-to-right, top-to-bottom
  serpentine     alternate row direction, LEDs rotated 180 on odd rows
  lanes          8 parallel lanes of cols/lanes columns, serpentine per lane
  via-optimized  8 lanes of rows/lanes rows, 2x2 block rotations for shared vias

A count mismatch between found LEDs and cols*rows asks for confirmation
before placing.`,
	RunE: runPlaceGrid,
}

var placeCheckBlockCmd = &cobra.Command{
	Use:   "check-block",
	Short: "Place only the first 2x2 block for rotation verification",
	Long: `Places the four LEDs of the first 2x2 block with via-optimized
rotations so the pin arrangement can be verified visually before running
a full placement.`,
	RunE: runPlaceCheckBlock,
}

func init() {
	rootCmd.AddCommand(placeCmd)
	placeCmd.AddCommand(placeGridCmd)
	placeCmd.AddCommand(placeCheckBlockCmd)

	placeGridCmd.Flags().StringVarP(&placePattern, "pattern", "p", "lanes",
		"placement pattern (row-major, serpentine, lanes, via-optimized)")
	placeGridCmd.Flags().Float64Var(&placeRotation, "rotation", 0,
		"base rotation in degrees added to the pattern rotation")
}

func runPlaceGrid(cmd *cobra.Command, args []string) error {
	pattern, err := grid.ParsePattern(placePattern)
	if err != nil {
		return err
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

	fmt.Printf("\nPlacing LEDs in %d×%d matrix\n", profile.Cols, profile.Rows)
	fmt.Printf("Pitch: %gmm × %gmm\n", profile.PitchX, profile.PitchY)
	fmt.Printf("Pattern: %s\n", pattern)
	fmt.Printf("Starting position: (%g, %g)\n\n", profile.OriginX, profile.OriginY)

	report, err := place.Run(board, profile, place.Options{
		Pattern:      pattern,
		BaseRotation: pcb.Angle(placeRotation),
		Confirm:      confirm,
		Progress:     progressf("Placed"),
		Warn:         warnf,
	})
	if errors.Is(err, place.ErrAborted) {
		fmt.Println("Cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Successfully placed %d LEDs\n", report.Placed)
	fmt.Printf("\nMatrix dimensions:\n")
	fmt.Printf("  Width: %.3f mm (%d columns)\n", report.Width, profile.Cols)
	fmt.Printf("  Height: %.3f mm (%d rows)\n", report.Height, profile.Rows)
	fmt.Printf("  Total area: %.1f × %.1f mm\n", report.Width, report.Height)
	fmt.Printf("  End position: (%.3f, %.3f)\n", report.End.X, report.End.Y)

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("\nDone! Board refreshed.")
	return nil
}

func runPlaceCheckBlock(cmd *cobra.Command, args []string) error {
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

	fmt.Println("\n=== Placing 2×2 rotation check block ===")
	fmt.Println("Expected: VDD and GND pads of all four LEDs face the block center")

	for _, p := range place.CheckBlock(board, profile) {
		if !p.Found {
			fmt.Printf("⚠ Warning: %s not found\n", p.Reference)
			continue
		}
		fmt.Printf("✓ Placed %s at (%.3f, %.3f) with %g° rotation\n",
			p.Reference, p.Position.X, p.Position.Y, float64(p.Rotation))
	}

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("\nZoom in on the block and verify the pin arrangement before")
	fmt.Println("running a full placement.")
	return nil
}
