package pcb

import (
	"math"
	"strings"
)

// Footprint represents a component footprint
type Footprint struct {
	Library   string            // Library name
	Name      string            // Footprint name
	Layer     string            // Layer (F.Cu or B.Cu typically)
	Position  PositionAngle     // Position and rotation
	Pads      []Pad             // Pads
	Reference string            // Reference designator (e.g., "D1")
	Value     string            // Component value
	Fields    map[string]string // Extra named fields (part numbers etc.)
}

// Pad represents a footprint pad. Offset is relative to the footprint
// origin at 0° rotation; the absolute position follows the footprint.
type Pad struct {
	Number string   // Pad number/name
	Type   string   // Pad type (thru_hole, smd, etc.)
	Shape  string   // Pad shape (circle, rect, oval, etc.)
	Offset Position // Offset from footprint origin at 0°
	Size   Size     // Pad size
	Drill  float64  // Drill diameter (0 for SMD)
	Layers LayerSet // Layers the pad appears on
	Net    *Net     // Connected net (if any)

	parent *Footprint
}

// Pad returns the pad with the given number, or nil if the footprint has
// no such pad
func (fp *Footprint) Pad(number string) *Pad {
	for i := range fp.Pads {
		if fp.Pads[i].Number == number {
			fp.Pads[i].parent = fp
			return &fp.Pads[i]
		}
	}
	return nil
}

// SetPosition moves the footprint to the given board position in mm.
// Pad absolute positions follow automatically since they are derived.
func (fp *Footprint) SetPosition(pos Position) {
	fp.Position.Position = pos
}

// SetOrientation sets the footprint rotation in degrees.
func (fp *Footprint) SetOrientation(angle Angle) {
	fp.Position.Angle = angle.Normalize()
}

// PadPosition returns the absolute board position of a pad, applying the
// footprint translation and rotation. KiCad rotates counter-clockwise with
// the Y axis pointing down, so the Y term of the rotation is negated.
func (fp *Footprint) PadPosition(pad *Pad) Position {
	rad := fp.Position.Angle.Radians()
	sin, cos := math.Sincos(rad)

	return Position{
		X: fp.Position.X + pad.Offset.X*cos + pad.Offset.Y*sin,
		Y: fp.Position.Y - pad.Offset.X*sin + pad.Offset.Y*cos,
	}
}

// Position returns the absolute board position of the pad. The pad must
// have been obtained through Footprint.Pad so its parent is known; a
// detached pad reports its raw offset.
func (p *Pad) Position() Position {
	if p.parent == nil {
		return p.Offset
	}
	return p.parent.PadPosition(p)
}

// Field returns the value of the first footprint field whose name matches
// one of the given aliases, compared case-insensitively. Absence yields ""
func (fp *Footprint) Field(aliases ...string) string {
	for name, value := range fp.Fields {
		upper := strings.ToUpper(name)
		for _, alias := range aliases {
			if upper == strings.ToUpper(alias) {
				return value
			}
		}
	}
	return ""
}

// SetField sets a footprint field, replacing an existing field whose name
// matches case-insensitively so aliased spellings do not accumulate.
func (fp *Footprint) SetField(name, value string) {
	if fp.Fields == nil {
		fp.Fields = make(map[string]string)
	}
	for existing := range fp.Fields {
		if strings.EqualFold(existing, name) {
			fp.Fields[existing] = value
			return
		}
	}
	fp.Fields[name] = value
}

// GetBoundingBox calculates the bounding box of a footprint from its pads
func (fp *Footprint) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for i := range fp.Pads {
		pad := &fp.Pads[i]
		pos := fp.PadPosition(pad)
		halfW := pad.Size.Width / 2
		halfH := pad.Size.Height / 2
		bbox.Expand(Position{X: pos.X - halfW, Y: pos.Y - halfH})
		bbox.Expand(Position{X: pos.X + halfW, Y: pos.Y + halfH})
	}

	if bbox.IsEmpty() {
		bbox.Expand(fp.Position.Position)
	}

	return bbox
}
