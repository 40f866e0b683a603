// Package bom groups board footprints into a JLCPCB-compatible bill of
// materials. Grouping is by (value, footprint name, part number);
// reference designators inside a group are naturally sorted so D10
// follows D2, not D1.
package bom

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
)

// Columns is the fixed CSV header.
var Columns = []string{"Comment", "Designator", "Footprint", "LCSC Part #"}

// PartFieldAliases are the footprint field names, compared
// case-insensitively, that may carry the LCSC part number.
var PartFieldAliases = []string{"LCSC", "LCSC PART", "LCSC_PART", "LCSC PART #", "JLCPCB"}

// ExcludedPrefixes are reference prefixes that never appear in the BOM:
// test points, mounting holes, fiducials, and silkscreen logos.
var ExcludedPrefixes = []string{"TP", "H", "MH", "FID", "LOGO"}

// Group is one BOM row: all components sharing value, footprint name, and
// part number.
type Group struct {
	Value     string
	Footprint string
	Part      string
	Refs      []string // naturally sorted
}

// Quantity returns the component count of the group.
func (g *Group) Quantity() int { return len(g.Refs) }

// Designators returns the comma-joined reference list.
func (g *Group) Designators() string { return strings.Join(g.Refs, ",") }

// PartNumber extracts the LCSC part number from a footprint's fields.
// Absence yields an empty string, not an error.
func PartNumber(fp *pcb.Footprint) string {
	return fp.Field(PartFieldAliases...)
}

// Excluded reports whether a reference is kept out of the BOM. Empty
// references are excluded along with the fixed prefixes.
func Excluded(ref string) bool {
	if ref == "" {
		return true
	}
	for _, prefix := range ExcludedPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// Build groups all non-excluded footprints. Running it twice over an
// unmodified board yields identical groups.
func Build(board *pcb.Board) []Group {
	byKey := make(map[[3]string][]string)
	for _, fp := range board.Footprints {
		if Excluded(fp.Reference) {
			continue
		}
		key := [3]string{fp.Value, fp.Name, PartNumber(fp)}
		byKey[key] = append(byKey[key], fp.Reference)
	}

	groups := make([]Group, 0, len(byKey))
	for key, refs := range byKey {
		SortRefs(refs)
		groups = append(groups, Group{
			Value:     key[0],
			Footprint: key[1],
			Part:      key[2],
			Refs:      refs,
		})
	}

	// Stable report order: first designator's leading character, then value.
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		ac, bc := a.Refs[0][:1], b.Refs[0][:1]
		if ac != bc {
			return ac < bc
		}
		if a.Value != b.Value {
			return a.Value < b.Value
		}
		return a.Footprint < b.Footprint
	})

	return groups
}

// SortRefs sorts reference designators naturally: alphabetic prefix
// first, then numeric suffix ascending, so D2 sorts before D10.
func SortRefs(refs []string) {
	sort.Slice(refs, func(i, j int) bool {
		pi, ni, oki := chain.SplitRef(refs[i])
		pj, nj, okj := chain.SplitRef(refs[j])
		if !oki || !okj {
			return refs[i] < refs[j]
		}
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
}

// WriteCSV emits the fixed header and one row per group.
func WriteCSV(w io.Writer, groups []Group) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("bom: write header: %w", err)
	}
	for _, g := range groups {
		row := []string{g.Value, g.Designators(), g.Footprint, g.Part}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("bom: write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("bom: flush: %w", err)
	}
	return nil
}

// TotalComponents sums group quantities.
func TotalComponents(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.Quantity()
	}
	return total
}

// MissingParts returns the groups without a part number.
func MissingParts(groups []Group) []Group {
	var missing []Group
	for _, g := range groups {
		if g.Part == "" {
			missing = append(missing, g)
		}
	}
	return missing
}
