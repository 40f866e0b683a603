// Package parts tags footprints with LCSC part numbers from a mapping
// file, so the BOM exporter finds them in the standard field. Lookup
// precedence: component value, then footprint name, then reference
// prefix.
package parts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/bom"
	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/matrix/chain"
)

// FieldName is the footprint field written by Apply.
const FieldName = "LCSC"

// Mapping resolves components to LCSC part numbers.
type Mapping struct {
	// ByValue maps component values (e.g. "100nF") to part numbers.
	ByValue map[string]string `yaml:"by_value"`

	// ByFootprint maps footprint names to part numbers.
	ByFootprint map[string]string `yaml:"by_footprint"`

	// ByPrefix maps reference prefixes (e.g. "D") to part numbers, for
	// boards where every component of a type is the same part.
	ByPrefix map[string]string `yaml:"by_prefix"`
}

// LoadMapping reads a mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parts: read mapping: %w", err)
	}
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parts: parse mapping: %w", err)
	}
	return &m, nil
}

// Lookup resolves the part number for a footprint, or "" when unmapped.
func (m *Mapping) Lookup(fp *pcb.Footprint) string {
	if part, ok := m.ByValue[fp.Value]; ok {
		return part
	}
	if part, ok := m.ByFootprint[fp.Name]; ok {
		return part
	}
	if prefix, _, ok := chain.SplitRef(fp.Reference); ok {
		if part, ok := m.ByPrefix[strings.ToUpper(prefix)]; ok {
			return part
		}
	}
	return ""
}

// Unmatched describes a footprint with no mapping entry.
type Unmatched struct {
	Reference string
	Value     string
	Footprint string
}

// Report summarizes an assignment run.
type Report struct {
	Assigned  int
	Unmatched []Unmatched
}

// Apply writes part numbers into every non-excluded footprint. Existing
// part fields are overwritten: the mapping file is the source of truth.
func Apply(board *pcb.Board, m *Mapping) *Report {
	report := &Report{}
	for _, fp := range board.Footprints {
		if bom.Excluded(fp.Reference) {
			continue
		}
		part := m.Lookup(fp)
		if part == "" {
			report.Unmatched = append(report.Unmatched, Unmatched{
				Reference: fp.Reference,
				Value:     fp.Value,
				Footprint: fp.Name,
			})
			continue
		}
		fp.SetField(FieldName, part)
		report.Assigned++
	}
	return report
}
