package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/bom"
)

var bomOutput string

var bomCmd = &cobra.Command{
	Use:   "bom",
	Short: "Bill of materials operations",
	Long:  `Commands for exporting the board's bill of materials`,
}

var bomExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a JLCPCB-compatible BOM CSV",
	Long: `Groups all non-excluded footprints by (value, footprint, LCSC part
number) and writes one CSV row per group. Test points, mounting holes,
fiducials, and logos are excluded.`,
	RunE: runBOMExport,
}

func init() {
	rootCmd.AddCommand(bomCmd)
	bomCmd.AddCommand(bomExportCmd)

	bomExportCmd.Flags().StringVarP(&bomOutput, "out", "o", "bom/bom_jlcpcb.csv",
		"output CSV path")
}

func runBOMExport(cmd *cobra.Command, args []string) error {
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

	groups := bom.Build(board)

	if dir := filepath.Dir(bomOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	f, err := os.Create(bomOutput)
	if err != nil {
		return fmt.Errorf("error creating BOM file: %w", err)
	}
	defer f.Close()

	if err := bom.WriteCSV(f, groups); err != nil {
		return err
	}

	printBOMSummary(groups)
	fmt.Printf("\n✓ BOM saved to: %s\n", bomOutput)

	missing := bom.MissingParts(groups)
	if len(missing) > 0 {
		fmt.Printf("\n⚠ Warning: %d parts missing LCSC numbers:\n", len(missing))
		shown := missing
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, g := range shown {
			fmt.Printf("  - %s (%d pcs): %s...\n", g.Value, g.Quantity(), g.Refs[0])
		}
		if len(missing) > 10 {
			fmt.Printf("  ... and %d more\n", len(missing)-10)
		}
		fmt.Println("\nRun 'otm parts assign' with a mapping file to fill them in.")
	}
	return nil
}

func printBOMSummary(groups []bom.Group) {
	divider := strings.Repeat("=", 70)

	fmt.Println("\n" + divider)
	fmt.Println("BOM SUMMARY")
	fmt.Println(divider)
	fmt.Printf("Total unique parts: %d\n", len(groups))
	fmt.Printf("Total components: %d\n", bom.TotalComponents(groups))
	fmt.Println("\n" + strings.Repeat("-", 70))
	fmt.Printf("%-6s %-20s %-30s %-15s\n", "Qty", "Value", "Designators", "LCSC")
	fmt.Println(strings.Repeat("-", 70))

	for _, g := range groups {
		designators := g.Designators()
		if g.Quantity() > 5 {
			designators = fmt.Sprintf("%s...%s (%d total)",
				g.Refs[0], g.Refs[len(g.Refs)-1], g.Quantity())
		}
		fmt.Printf("%-6d %-20s %-30s %-15s\n", g.Quantity(), g.Value, designators, g.Part)
	}
	fmt.Println(divider)
}
