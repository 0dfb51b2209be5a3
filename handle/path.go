package handle

import (
	"fmt"
	"math"

	"github.com/eeismann/dinnerware/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// The handle centerline lives in the XZ plane: X is the radial
// direction away from the vessel axis, Z is height. 2D path math below
// uses r2.Vec with Y standing in for height; samples are lifted to 3D
// with the thickness axis along +Y.

// segment is one piece of the handle centerline.
type segment interface {
	start() r2.Vec
	end() r2.Vec
	// at evaluates the segment at local parameter u in [0,1].
	at(u float64) r2.Vec
	// derivative is d at/du. Not normalized.
	derivative(u float64) r2.Vec
	arcLength() float64
}

type lineSeg struct {
	a, b r2.Vec
}

func (l lineSeg) start() r2.Vec { return l.a }
func (l lineSeg) end() r2.Vec   { return l.b }

func (l lineSeg) at(u float64) r2.Vec {
	return r2.Add(l.a, r2.Scale(u, r2.Sub(l.b, l.a)))
}

func (l lineSeg) derivative(u float64) r2.Vec { return r2.Sub(l.b, l.a) }

func (l lineSeg) arcLength() float64 { return r2.Norm(r2.Sub(l.b, l.a)) }

// cornerSeg is a quadratic Bezier corner with the corner vertex as
// control point.
type cornerSeg struct {
	a, c, b r2.Vec // start, control, end
}

func (s cornerSeg) start() r2.Vec { return s.a }
func (s cornerSeg) end() r2.Vec   { return s.b }

func (s cornerSeg) at(u float64) r2.Vec {
	w := 1 - u
	p := r2.Scale(w*w, s.a)
	p = r2.Add(p, r2.Scale(2*u*w, s.c))
	return r2.Add(p, r2.Scale(u*u, s.b))
}

func (s cornerSeg) derivative(u float64) r2.Vec {
	d := r2.Scale(2*(1-u), r2.Sub(s.c, s.a))
	return r2.Add(d, r2.Scale(2*u, r2.Sub(s.b, s.c)))
}

// cornerFlattening is the chord count used to estimate corner arc length.
const cornerFlattening = 16

func (s cornerSeg) arcLength() float64 {
	var length float64
	prev := s.a
	for i := 1; i <= cornerFlattening; i++ {
		p := s.at(float64(i) / cornerFlattening)
		length += r2.Norm(r2.Sub(p, prev))
		prev = p
	}
	return length
}

// Path is the handle centerline: one continuous open curve from the
// bottom attachment point to the top attachment point.
type Path struct {
	segs []segment
	// cum[i] is the arc length at the start of segment i,
	// cum[len(segs)] is the total length.
	cum []float64
}

func newPath(segs []segment) *Path {
	cum := make([]float64, len(segs)+1)
	for i, s := range segs {
		cum[i+1] = cum[i] + s.arcLength()
	}
	return &Path{segs: segs, cum: cum}
}

// Length returns the total arc length of the path.
func (p *Path) Length() float64 { return p.cum[len(p.segs)] }

// at evaluates position and tangent direction at normalized arc length
// t in [0,1]. The tangent is not normalized and may be zero on
// degenerate segments.
func (p *Path) at(t float64) (pos, tan r2.Vec) {
	s := d2.Clamp(t, 0, 1) * p.Length()
	i := 0
	for i < len(p.segs)-1 && s > p.cum[i+1] {
		i++
	}
	seg := p.segs[i]
	segLen := p.cum[i+1] - p.cum[i]
	u := 0.0
	if segLen > 0 {
		u = (s - p.cum[i]) / segLen
	}
	return seg.at(u), seg.derivative(u)
}

// PathSample is one uniformly spaced sample of the centerline with its
// local frame.
type PathSample struct {
	// T is the normalized arc-length position, 0 at the bottom
	// attachment and 1 at the top.
	T        float64
	Position r3.Vec
	// Tangent, Normal and Binormal form the local frame. Normal is the
	// in-plane perpendicular to the tangent, Binormal the fixed
	// thickness-axis direction.
	Tangent  r3.Vec
	Normal   r3.Vec
	Binormal r3.Vec
}

// Sample returns n uniformly t-spaced samples of the path. n must be
// at least 2.
func (p *Path) Sample(n int) []PathSample {
	samples := make([]PathSample, n)
	for i := range samples {
		t := float64(i) / float64(n-1)
		pos, tan := p.at(t)
		samples[i] = makeSample(t, pos, tan)
	}
	return samples
}

func makeSample(t float64, pos, tan r2.Vec) PathSample {
	tangent := r3.Vec{X: tan.X, Z: tan.Y}
	norm := r3.Norm(tangent)
	if norm < 1e-12 {
		// Degenerate tangent: fall back to the default frame so the
		// sweep always places a ring.
		tangent = r3.Vec{Z: 1}
	} else {
		tangent = r3.Scale(1/norm, tangent)
	}
	return PathSample{
		T:        t,
		Position: r3.Vec{X: pos.X, Z: pos.Y},
		Tangent:  tangent,
		Normal:   r3.Vec{X: tangent.Z, Z: -tangent.X},
		Binormal: r3.Vec{Y: 1},
	}
}

// BuildPath constructs the handle centerline: a horizontal attachment
// arm at each end, a straight (possibly tilted) outer arm, and a
// quadratic corner joining each pair. Corner radii larger than the
// geometry allows are silently clamped.
func BuildPath(p Params, vessel Vessel) (*Path, error) {
	span := p.TopHeight - p.BottomHeight
	if span <= 0 {
		return nil, fmt.Errorf("%w: top attachment height %gmm not above bottom %gmm",
			ErrInvalidGeometry, p.TopHeight, p.BottomHeight)
	}
	theta := p.TiltAngle * math.Pi / 180
	dir := r2.Vec{X: math.Sin(theta), Y: math.Cos(theta)}
	if dir.Y <= 0 {
		return nil, fmt.Errorf("%w: tilt angle %g° leaves no upward arm", ErrInvalidGeometry, p.TiltAngle)
	}
	rBottom := vessel.RadiusAt(p.BottomHeight)
	rTop := vessel.RadiusAt(p.TopHeight)
	outer := math.Max(rTop, rBottom) + p.Protrusion

	// Clamp so the two corner arcs can never overlap along the arm.
	rlim := 0.8 * math.Min(p.Protrusion, span/2)
	rlim = math.Max(rlim, 0)
	rlo := d2.Clamp(p.LowerRadius, 0, rlim)
	rhi := d2.Clamp(p.UpperRadius, 0, rlim)

	// Corner vertices sit on the arm line through the outer edge.
	v1 := r2.Vec{X: outer, Y: p.BottomHeight}
	armSpan := span / dir.Y
	v2 := r2.Add(v1, r2.Scale(armSpan, dir))
	if armSpan-rlo-rhi <= 0 {
		return nil, fmt.Errorf("%w: corner radii %gmm+%gmm leave no straight arm over %gmm span",
			ErrInvalidGeometry, rlo, rhi, span)
	}

	bottomStart := r2.Vec{X: rBottom, Y: p.BottomHeight}
	c0start := r2.Vec{X: outer - rlo, Y: p.BottomHeight}
	c0end := r2.Add(v1, r2.Scale(rlo, dir))
	c1start := r2.Sub(v2, r2.Scale(rhi, dir))
	c1end := r2.Vec{X: v2.X - rhi, Y: p.TopHeight}
	topEnd := r2.Vec{X: rTop, Y: p.TopHeight}

	return newPath([]segment{
		lineSeg{bottomStart, c0start},
		cornerSeg{c0start, v1, c0end},
		lineSeg{c0end, c1start},
		cornerSeg{c1start, v2, c1end},
		lineSeg{c1end, topEnd},
	}), nil
}
