package pcb

// Board represents a complete KiCad PCB
type Board struct {
	Version    int          // File format version
	Generator  string       // Generator info (e.g., "pcbnew")
	General    General      // General board properties
	Layers     []Layer      // Layer definitions
	Nets       []Net        // Electrical nets
	Footprints []*Footprint // Component footprints
	Tracks     []*Track     // Track segments
	Vias       []*Via       // Vias
}

// General contains general board properties
type General struct {
	Thickness float64 // Board thickness in mm
	Title     string  // Board title
	Date      string  // Design date
	Revision  string  // Board revision
	Company   string  // Company name
}

// Track represents a copper track segment
type Track struct {
	Start  Position // Start point
	End    Position // End point
	Width  float64  // Track width in mm
	Layer  string   // Layer name
	Net    *Net     // Connected net
	Locked bool     // Whether track is locked
}

// Via represents a via
type Via struct {
	Position Position // Via position
	Size     float64  // Via diameter
	Drill    float64  // Drill diameter
	Layers   LayerSet // Layer pair
	Net      *Net     // Connected net
	Locked   bool     // Whether via is locked
}

// GetNet returns a net by name, or nil if not found
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// FindFootprint returns the footprint with the given reference designator,
// or nil if not found
func (b *Board) FindFootprint(reference string) *Footprint {
	for _, fp := range b.Footprints {
		if fp.Reference == reference {
			return fp
		}
	}
	return nil
}

// AddFootprint appends a footprint to the board
func (b *Board) AddFootprint(fp *Footprint) {
	b.Footprints = append(b.Footprints, fp)
}

// AddTrack appends a track segment to the board
func (b *Board) AddTrack(t *Track) {
	b.Tracks = append(b.Tracks, t)
}

// AddVia appends a via to the board
func (b *Board) AddVia(v *Via) {
	b.Vias = append(b.Vias, v)
}

// RemoveTrack removes a track from the board. Returns false when the track
// is not on the board.
func (b *Board) RemoveTrack(t *Track) bool {
	for i, cand := range b.Tracks {
		if cand == t {
			b.Tracks = append(b.Tracks[:i], b.Tracks[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveVia removes a via from the board. Returns false when the via is not
// on the board.
func (b *Board) RemoveVia(v *Via) bool {
	for i, cand := range b.Vias {
		if cand == v {
			b.Vias = append(b.Vias[:i], b.Vias[i+1:]...)
			return true
		}
	}
	return false
}

// FindViaAt returns the first via whose center lies within tolerance (mm) of
// the given position, or nil when none matches
func (b *Board) FindViaAt(pos Position, tolerance float64) *Via {
	for _, via := range b.Vias {
		if via.Position.DistanceTo(pos) <= tolerance {
			return via
		}
	}
	return nil
}

// GetNetPads returns all pads connected to a specific net
func (b *Board) GetNetPads(netName string) []*Pad {
	var pads []*Pad
	for _, fp := range b.Footprints {
		for i := range fp.Pads {
			pad := &fp.Pads[i]
			if pad.Net != nil && pad.Net.Name == netName {
				pad.parent = fp
				pads = append(pads, pad)
			}
		}
	}
	return pads
}

// GetNetTracks returns all tracks connected to a specific net
func (b *Board) GetNetTracks(netName string) []*Track {
	var tracks []*Track
	for _, track := range b.Tracks {
		if track.Net != nil && track.Net.Name == netName {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// GetNetVias returns all vias connected to a specific net
func (b *Board) GetNetVias(netName string) []*Via {
	var vias []*Via
	for _, via := range b.Vias {
		if via.Net != nil && via.Net.Name == netName {
			vias = append(vias, via)
		}
	}
	return vias
}

// NetInfo contains information about a net and its connections
type NetInfo struct {
	Net    *Net
	Pads   []*Pad
	Tracks []*Track
	Vias   []*Via
}

// GetNetInfo returns complete information about a net
func (b *Board) GetNetInfo(netName string) *NetInfo {
	net := b.GetNet(netName)
	if net == nil {
		return nil
	}

	return &NetInfo{
		Net:    net,
		Pads:   b.GetNetPads(netName),
		Tracks: b.GetNetTracks(netName),
		Vias:   b.GetNetVias(netName),
	}
}

// GetAllNetNames returns a list of all net names in the board
func (b *Board) GetAllNetNames() []string {
	names := make([]string, len(b.Nets))
	for i, net := range b.Nets {
		names[i] = net.Name
	}
	return names
}
