package handle

import (
	"fmt"
	"math"

	"github.com/eeismann/dinnerware/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Profile builds the closed 2D cross-section polygon for a handle.
// The first point is not repeated; the ring is implicitly closed.
// Points traverse clockwise for every family so swept shells wind
// consistently.
func Profile(width, height float64, segments int, kind SectionKind, corner float64) (d2.Set, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cross-section %gmm x %gmm", ErrDegenerateProfile, width, height)
	}
	if segments < 3 {
		return nil, fmt.Errorf("%w: %d segments, need at least 3", ErrDegenerateProfile, segments)
	}
	switch kind {
	case SectionRoundedRect:
		return roundedRectProfile(width, height, segments, corner), nil
	default:
		return ovalProfile(width, height, segments), nil
	}
}

func ovalProfile(width, height float64, segments int) d2.Set {
	a := width / 2
	b := height / 2
	pts := make(d2.Set, segments)
	for i := range pts {
		theta := -2 * math.Pi * float64(i) / float64(segments)
		pts[i] = r2.Vec{X: a * math.Cos(theta), Y: b * math.Sin(theta)}
	}
	return pts
}

// profileWeldTol is the distance under which adjacent profile points
// are collapsed into one. At r == 0 every corner arc degenerates to its
// corner vertex and at the radius limit the straight edges between arcs
// vanish; either way the welded ring keeps the sweep free of zero-area
// quads.
const profileWeldTol = 1e-9

// roundedRectProfile traverses top-right, bottom-right, bottom-left,
// top-left corner arcs clockwise; each arc is generated from its own
// local center so no angular drift accumulates, and the straight edges
// fall out of connecting consecutive arc endpoints.
func roundedRectProfile(width, height float64, segments int, corner float64) d2.Set {
	r := d2.Clamp(corner, 0, math.Min(width, height)/2)
	arcPoints := segments / 4
	if arcPoints < 4 {
		arcPoints = 4
	}
	centers := [4]r2.Vec{
		{X: width/2 - r, Y: height/2 - r},   // top right
		{X: width/2 - r, Y: -height/2 + r},  // bottom right
		{X: -width/2 + r, Y: -height/2 + r}, // bottom left
		{X: -width/2 + r, Y: height/2 - r},  // top left
	}
	pts := make(d2.Set, 0, 4*arcPoints)
	for q, c := range centers {
		startAngle := math.Pi/2 - float64(q)*math.Pi/2
		for i := 0; i < arcPoints; i++ {
			theta := startAngle - (math.Pi/2)*float64(i)/float64(arcPoints-1)
			p := r2.Vec{
				X: c.X + r*math.Cos(theta),
				Y: c.Y + r*math.Sin(theta),
			}
			if n := len(pts); n > 0 && d2.EqualWithin(pts[n-1], p, profileWeldTol) {
				continue
			}
			pts = append(pts, p)
		}
	}
	// The ring is implicitly closed; weld across the seam too.
	if n := len(pts); n > 1 && d2.EqualWithin(pts[n-1], pts[0], profileWeldTol) {
		pts = pts[:n-1]
	}
	return pts
}

// ProfileArea estimates the cross-section area. Used for downstream
// weight and cost estimation, not for meshing.
func ProfileArea(width, height float64, kind SectionKind, corner float64) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	switch kind {
	case SectionRoundedRect:
		r := d2.Clamp(corner, 0, math.Min(width, height)/2)
		// Rectangle minus the four corner squares plus quarter circles.
		return width*height - 4*r*r + math.Pi*r*r
	default:
		return math.Pi * (width / 2) * (height / 2)
	}
}
