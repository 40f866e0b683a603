package pcb

// GetBoundingBox calculates the bounding box of the entire board.
// Includes tracks, vias, and footprint pads.
func (b *Board) GetBoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, track := range b.Tracks {
		bbox.Expand(track.Start)
		bbox.Expand(track.End)
	}

	for _, via := range b.Vias {
		// Vias have a size, so expand by radius
		radius := via.Size / 2.0
		bbox.Expand(Position{X: via.Position.X - radius, Y: via.Position.Y - radius})
		bbox.Expand(Position{X: via.Position.X + radius, Y: via.Position.Y + radius})
	}

	for _, fp := range b.Footprints {
		bbox.ExpandBox(fp.GetBoundingBox())
	}

	return bbox
}
