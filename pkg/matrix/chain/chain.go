// Package chain discovers the LED chain on a board: every footprint whose
// reference is the LED prefix followed by a number, ordered by that number.
// Chain order is electrical order; the grid package maps it to the
// physical grid.
package chain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/config"
)

// LED is one chain member.
type LED struct {
	Number    int // Numeric reference suffix (D42 → 42)
	Footprint *pcb.Footprint
}

var refPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// Collect returns every footprint matching prefix+digits, sorted by the
// numeric suffix. Footprints whose suffix does not parse are returned in
// skipped so the caller can warn about them.
func Collect(board *pcb.Board, prefix string) (leds []LED, skipped []string) {
	for _, fp := range board.Footprints {
		ref := fp.Reference
		if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
			continue
		}
		num, err := strconv.Atoi(ref[len(prefix):])
		if err != nil {
			skipped = append(skipped, ref)
			continue
		}
		leds = append(leds, LED{Number: num, Footprint: fp})
	}

	sort.Slice(leds, func(i, j int) bool {
		return leds[i].Number < leds[j].Number
	})
	return leds, skipped
}

// SplitRef splits a reference designator into its alphabetic prefix and
// numeric suffix. ok is false when the reference has another shape.
func SplitRef(ref string) (prefix string, number int, ok bool) {
	m := refPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, false
	}
	number, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], number, true
}

// PadReport describes one pad of the reference footprint.
type PadReport struct {
	Role     string
	Number   string
	Position pcb.Position
	Found    bool
}

// VerifyPads checks that the first chain member carries every pad role the
// routers depend on, and reports each pad's number and absolute position
// so the operator can eyeball the assignment before routing. A missing
// role is an error: routing with a wrong pad map mis-wires every joint.
func VerifyPads(leds []LED, roles config.PadRoles) ([]PadReport, error) {
	if len(leds) == 0 {
		return nil, fmt.Errorf("chain: no LED footprints found")
	}
	fp := leds[0].Footprint

	checks := []struct {
		role   string
		number string
	}{
		{"DOUT", roles.DOUT},
		{"VDD", roles.VDD},
		{"GND", roles.GND},
		{"DIN", roles.DIN},
	}

	reports := make([]PadReport, 0, len(checks))
	var missing []string
	for _, c := range checks {
		pad := fp.Pad(c.number)
		r := PadReport{Role: c.role, Number: c.number, Found: pad != nil}
		if pad != nil {
			r.Position = pad.Position()
		} else {
			missing = append(missing, fmt.Sprintf("%s (pad %s)", c.role, c.number))
		}
		reports = append(reports, r)
	}

	if len(missing) > 0 {
		return reports, fmt.Errorf("chain: %s is missing pads: %v", fp.Reference, missing)
	}
	return reports, nil
}
