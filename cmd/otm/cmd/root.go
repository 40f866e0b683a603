package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/host"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
)

var (
	// Global flags
	verbose     bool
	profilePath string
	hostKind    string
	assumeYes   bool
	simLEDs     int
)

var rootCmd = &cobra.Command{
	Use:   "otm",
	Short: "OpenTraceMatrix - LED matrix PCB automation tools",
	Long: `OpenTraceMatrix (otm) automates the repetitive parts of dense LED
matrix board layout on a live board model:
  - grid placement of LED footprints (row-major, serpentine, lane, via-optimized)
  - shared power via generation for 2x2 LED blocks
  - straight-line data and power routing
  - routing cleanup
  - BOM export and part number tagging

Examples:
  otm place grid --pattern lanes          # Place the matrix
  otm vias place                          # Drop shared power vias
  otm route data --strategy smart         # Route the data chain
  otm route power --strategy nearest      # Route power pads to vias
  otm bom export --out bom/bom_jlcpcb.csv # Export JLCPCB BOM`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "matrix profile file (default ./matrix.yaml, else built-in)")
	rootCmd.PersistentFlags().StringVar(&hostKind, "host", "sim", "board host (sim)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to all confirmations")
	rootCmd.PersistentFlags().IntVar(&simLEDs, "sim-leds", 0, "simulator: LED count (default cols*rows from profile)")
}

// loadProfile resolves the matrix profile from --profile, ./matrix.yaml,
// or built-in defaults.
func loadProfile() (*config.Profile, error) {
	if profilePath != "" {
		p, err := config.LoadFromPath(profilePath)
		if err != nil {
			return nil, err
		}
		if verbose {
			fmt.Printf("Profile: %s (%s)\n", p.Name, profilePath)
		}
		return p, nil
	}

	p, path, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		if path == "" {
			fmt.Printf("Profile: %s (built-in defaults)\n", p.Name)
		} else {
			fmt.Printf("Profile: %s (%s)\n", p.Name, path)
		}
	}
	return p, nil
}

// openHost creates the board host selected by --host, sized from the
// profile when the simulator is in use.
func openHost(profile *config.Profile) (host.Host, error) {
	simCfg := host.DefaultSimConfig()
	simCfg.LEDCount = profile.Cols * profile.Rows
	simCfg.LEDPrefix = profile.LEDPrefix
	if simLEDs > 0 {
		simCfg.LEDCount = simLEDs
	}

	h, err := host.New(hostKind, simCfg)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Host: %s\n", h.Name())
	}
	return h, nil
}

// confirm asks a y/n question on stdin. --yes answers everything.
func confirm(prompt string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s (y/n): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// progressf returns a progress callback printing an indented counter line.
func progressf(what string) func(done, total int) {
	return func(done, total int) {
		fmt.Printf("  %s %d/%d...\n", what, done, total)
	}
}

func warnf(msg string) {
	fmt.Printf("  Warning: %s\n", msg)
}
