package route

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/OpenTraceLab/OpenTraceMatrix/pkg/kicad/pcb"
)

// viaIndex answers nearest-via queries over a fixed via set. Power
// routing only adds tracks, so the set never changes mid-run and the
// tree is built once.
type viaIndex struct {
	tree *kdtree.Tree
}

// newViaIndex builds the index, or returns nil when there are no vias.
func newViaIndex(vias []*pcb.Via) *viaIndex {
	if len(vias) == 0 {
		return nil
	}
	points := make(viaPoints, len(vias))
	for i, via := range vias {
		points[i] = viaPoint{x: via.Position.X, y: via.Position.Y, via: via}
	}
	return &viaIndex{tree: kdtree.New(points, false)}
}

// Nearest returns the via closest to pos, or nil when none lies within
// radius (mm).
func (ix *viaIndex) Nearest(pos pcb.Position, radius float64) *pcb.Via {
	got, distSq := ix.tree.Nearest(viaPoint{x: pos.X, y: pos.Y})
	if got == nil || distSq > radius*radius {
		return nil
	}
	return got.(viaPoint).via
}

// viaPoint adapts a via to the kd-tree comparable interface.
type viaPoint struct {
	x, y float64
	via  *pcb.Via
}

func (p viaPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(viaPoint)
	switch d {
	case 0:
		return p.x - q.x
	default:
		return p.y - q.y
	}
}

func (p viaPoint) Dims() int { return 2 }

// Distance returns the squared euclidean distance, per the kdtree
// contract.
func (p viaPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(viaPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

type viaPoints []viaPoint

func (p viaPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p viaPoints) Len() int                      { return len(p) }
func (p viaPoints) Pivot(d kdtree.Dim) int {
	return viaPlane{Dim: d, viaPoints: p}.Pivot()
}
func (p viaPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// viaPlane sorts viaPoints along one dimension for pivot selection.
type viaPlane struct {
	kdtree.Dim
	viaPoints
}

func (p viaPlane) Less(i, j int) bool {
	return p.viaPoints[i].Compare(p.viaPoints[j], p.Dim) < 0
}
func (p viaPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p viaPlane) Slice(start, end int) kdtree.SortSlicer {
	p.viaPoints = p.viaPoints[start:end]
	return p
}
func (p viaPlane) Swap(i, j int) {
	p.viaPoints[i], p.viaPoints[j] = p.viaPoints[j], p.viaPoints[i]
}
