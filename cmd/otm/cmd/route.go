package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/grid"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/route"
)

var (
	routeStrategy      string
	routePattern       string
	routePowerStrategy string
	routeSkipVerify    bool
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Straight-line routing operations",
	Long:  `Commands that insert straight copper between pads and vias`,
}

var routeDataCmd = &cobra.Command{
	Use:   "data",
	Short: "Route the DOUT→DIN data chain",
	Long: `Routes one connection per consecutive LED pair in chain order.

Strategies:
  direct  one top-layer track per in-lane pair; lane boundaries unrouted
  smart   top-layer tracks on same-row pairs, via + bottom-layer track +
          via on row transitions (the serpentine wrap)
  bottom  every pair on the bottom layer, no vias

The pad map of the first LED is verified before routing; pass
--skip-verify to route without the interactive check.`,
	RunE: runRouteData,
}

var routePowerCmd = &cobra.Command{
	Use:   "power",
	Short: "Route VDD/GND pads to shared power vias",
	Long: `Routes LED power pads to the shared block vias.

Strategies:
  block    expects the via exactly at the LED's recomputed 2x2 block
           center; routes the pad matching the via's net
  nearest  searches for the nearest via within the profile's search
           radius; a netless via adopts the pad's net`,
	RunE: runRoutePower,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.AddCommand(routeDataCmd)
	routeCmd.AddCommand(routePowerCmd)

	routeDataCmd.Flags().StringVarP(&routeStrategy, "strategy", "s", "smart",
		"routing strategy (direct, smart, bottom)")
	routeDataCmd.Flags().StringVarP(&routePattern, "pattern", "p", "lanes",
		"placement pattern the board was placed with")
	routeDataCmd.Flags().BoolVar(&routeSkipVerify, "skip-verify", false,
		"skip the pad map verification prompt")

	routePowerCmd.Flags().StringVarP(&routePowerStrategy, "strategy", "s", "block",
		"power routing strategy (block, nearest)")
	routePowerCmd.Flags().StringVarP(&routePattern, "pattern", "p", "via-optimized",
		"placement pattern the board was placed with")
}

func runRouteData(cmd *cobra.Command, args []string) error {
	strategy, err := route.ParseStrategy(routeStrategy)
	if err != nil {
		return err
	}
	pattern, err := grid.ParsePattern(routePattern)
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

	leds, _ := chain.Collect(board, profile.LEDPrefix)
	if len(leds) == 0 {
		return fmt.Errorf("no %s* footprints found on board", profile.LEDPrefix)
	}
	fmt.Printf("\nFound %d LEDs\n", len(leds))
	fmt.Printf("Trace width: %gmm\n", profile.Route.DataTraceWidth)
	fmt.Printf("Via size: %gmm / %gmm drill\n", profile.Route.ViaSize, profile.Route.ViaDrill)
	fmt.Printf("Strategy: %s\n\n", strategy)

	if !routeSkipVerify {
		reports, err := chain.VerifyPads(leds, profile.Pads)
		fmt.Printf("Verifying pad map on %s:\n", leds[0].Footprint.Reference)
		for _, r := range reports {
			if r.Found {
				fmt.Printf("  %-4s pad %s at (%.3f, %.3f)\n", r.Role, r.Number, r.Position.X, r.Position.Y)
			} else {
				fmt.Printf("  %-4s pad %s MISSING\n", r.Role, r.Number)
			}
		}
		if err != nil {
			return err
		}
		if !confirm("\nDo the pad numbers look correct? Continue with routing?") {
			fmt.Println("Aborted. Update the pad map in the profile if needed.")
			return nil
		}
	}

	report, err := route.Data(board, profile, route.Options{
		Strategy: strategy,
		Pattern:  pattern,
		Progress: progressf("Routed"),
		Warn:     warnf,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Created %d tracks and %d vias (%d connections)\n",
		report.Tracks, report.Vias, report.Connections)
	if report.LaneBreaks > 0 {
		fmt.Printf("  %d lane boundaries left unrouted\n", report.LaneBreaks)
	}
	if report.Errors > 0 {
		fmt.Printf("⚠ %d connections had errors\n", report.Errors)
	}

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("\n✓ Done! Board refreshed.")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add GND plane on In1.Cu")
	fmt.Println("  2. Add VDD plane on In2.Cu")
	fmt.Println("  3. Fill zones and run DRC")
	return nil
}

func runRoutePower(cmd *cobra.Command, args []string) error {
	strategy, err := route.ParsePowerStrategy(routePowerStrategy)
	if err != nil {
		return err
	}
	pattern, err := grid.ParsePattern(routePattern)
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

	fmt.Printf("\nPower routing (%s strategy)\n", strategy)
	fmt.Printf("Track width: %gmm\n", profile.Route.PowerTraceWidth)
	if strategy == route.PowerNearest {
		fmt.Printf("Via search radius: %gmm\n", profile.Route.SearchRadius)
	}
	fmt.Println()

	report, err := route.Power(board, profile, route.PowerOptions{
		Strategy: strategy,
		Pattern:  pattern,
		Progress: progressf("Processed"),
		Warn:     warnf,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Routing complete\n")
	fmt.Printf("  VDD connections: %d routed, %d failed\n", report.VDDRouted, report.VDDFailed)
	fmt.Printf("  GND connections: %d routed, %d failed\n", report.GNDRouted, report.GNDFailed)
	fmt.Printf("  Total tracks created: %d\n", report.Tracks)
	if report.ViasNotFound > 0 {
		fmt.Printf("  ⚠ Vias not found: %d\n", report.ViasNotFound)
	}
	if report.PadsNotFound > 0 {
		fmt.Printf("  ⚠ Pads not found: %d\n", report.PadsNotFound)
	}
	if report.Failed() > 0 {
		fmt.Println("\n⚠ Some connections failed:")
		fmt.Println("  - via might be too far or missing")
		fmt.Println("  - via might be assigned to a conflicting net")
		fmt.Println("  - check via placement and LED rotations")
	}

	if err := h.Refresh(); err != nil {
		return fmt.Errorf("error refreshing board: %w", err)
	}
	fmt.Println("\nDone! Board refreshed.")
	return nil
}
