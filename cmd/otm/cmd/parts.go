package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/parts"
)

var partsMapping string

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Part number operations",
	Long:  `Commands for tagging footprints with LCSC part numbers`,
}

var partsAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign LCSC part numbers from a mapping file",
	Long: `Writes LCSC part numbers into footprint fields. The mapping file
maps component values, footprint names, or reference prefixes to part
numbers:

  by_value:
    WS2812B-1010: C5349953
    100nF: C1525
  by_prefix:
    D: C5349953`,
	RunE: runPartsAssign,
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsAssignCmd)

	partsAssignCmd.Flags().StringVarP(&partsMapping, "mapping", "m", "parts.yaml",
		"part number mapping file")
}

func runPartsAssign(cmd *cobra.Command, args []string) error {
	mapping, err := parts.LoadMapping(partsMapping)
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

	divider := strings.Repeat("=", 70)
	fmt.Println("\n" + divider)
	fmt.Println("LCSC PART NUMBER ASSIGNMENT")
	fmt.Println(divider)

	report := parts.Apply(board, mapping)

	fmt.Printf("\nAssigned: %d components\n", report.Assigned)
	fmt.Printf("Not found: %d components\n", len(report.Unmatched))

	if len(report.Unmatched) > 0 {
		fmt.Println("\n⚠ Components without LCSC numbers:")
		shown := report.Unmatched
		if len(shown) > 20 {
			shown = shown[:20]
		}
		for _, u := range shown {
			fmt.Printf("  - %s: %s (%s)\n", u.Reference, u.Value, u.Footprint)
		}
		if len(report.Unmatched) > 20 {
			fmt.Printf("  ... and %d more\n", len(report.Unmatched)-20)
		}
		fmt.Println("\nTo assign LCSC numbers:")
		fmt.Println("  1. Search for parts on https://jlcpcb.com/parts")
		fmt.Printf("  2. Add part numbers to %s\n", partsMapping)
		fmt.Println("  3. Run this command again")
	}

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	return nil
}
