package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/viagen"
)

var viasCmd = &cobra.Command{
	Use:   "vias",
	Short: "Shared power via operations",
	Long:  `Commands for the shared power vias at the center of each 2x2 LED block`,
}

var viasPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place one power via per 2x2 LED block",
	Long: `Inserts a via at the center of every 2x2 block of the placement
grid. Vias default to the profile's power net (GND) when that net exists
on the board. Re-running appends a second set; clean up first if that is
not what you want.`,
	RunE: runViasPlace,
}

func init() {
	rootCmd.AddCommand(viasCmd)
	viasCmd.AddCommand(viasPlaceCmd)
}

func runViasPlace(cmd *cobra.Command, args []string) error {
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

	blockRows := profile.Rows / 2
	blockCols := profile.Cols / 2
	fmt.Printf("\nPlacing %d shared power vias\n", blockRows*blockCols)
	fmt.Printf("Via grid: %d columns × %d rows\n", blockCols, blockRows)
	fmt.Printf("Via size: %gmm (drill: %gmm)\n", profile.Via.Size, profile.Via.Drill)
	fmt.Println("Each via serves 4 LEDs (2×2 block)")

	report, err := viagen.Run(board, profile, viagen.Options{
		Progress: progressf("Placed"),
		Warn:     warnf,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Successfully placed %d vias\n", report.Placed)
	if report.Net != "" {
		fmt.Printf("  Net: %s\n", report.Net)
	} else {
		fmt.Println("  ⚠ Vias created without net assignment")
	}
	fmt.Printf("\nVia grid dimensions:\n")
	fmt.Printf("  Width: %.3f mm (%d via columns)\n", report.Width, report.BlockCols)
	fmt.Printf("  Height: %.3f mm (%d via rows)\n", report.Height, report.BlockRows)
	fmt.Printf("  Via spacing: %.3fmm × %.3fmm\n", report.SpacingX, report.SpacingY)

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("\nDone! Board refreshed.")
	return nil
}
