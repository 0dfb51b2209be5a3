// Package handle generates printable handle geometry for tapered
// ceramic vessels. A handle is described by a small set of millimetre
// parameters (attachment heights, protrusion, corner radii,
// cross-section shape, fillet radius) and turned into a closed
// triangulated shell that blends into the vessel wall at both ends.
//
// The pipeline is purely computational: parameters go in, a mesh comes
// out. No state survives between calls and concurrent calls need no
// coordination.
package handle

import (
	"errors"
	"fmt"

	"github.com/eeismann/dinnerware/internal/d2"
	"github.com/eeismann/dinnerware/render"
)

// Geometry failure kinds. All are returned wrapped with context.
var (
	// ErrInvalidGeometry reports parameters that cannot produce a
	// constructible handle path.
	ErrInvalidGeometry = errors.New("invalid handle geometry")
	// ErrDegenerateProfile reports a cross-section with fewer than 3 points.
	ErrDegenerateProfile = errors.New("degenerate cross-section profile")
	// ErrDegenerateMesh reports a sweep that would yield fewer than 2 rings.
	ErrDegenerateMesh = errors.New("degenerate swept mesh")
)

// SectionKind selects the handle cross-section family.
type SectionKind int

const (
	// SectionOval is an elliptical cross-section.
	SectionOval SectionKind = iota
	// SectionRoundedRect is a rectangle with quarter-circle corners.
	SectionRoundedRect
)

// Params describes a vessel handle. Lengths are millimetres, the tilt
// angle is degrees.
type Params struct {
	// Protrusion is how far the handle sticks out from the vessel wall.
	Protrusion float64
	// TopHeight and BottomHeight are the attachment heights measured
	// from the vessel base.
	TopHeight    float64
	BottomHeight float64
	// UpperRadius and LowerRadius are the corner radii where the
	// vertical arm meets the attachment arms. Values too large for the
	// geometry are clamped, never rejected.
	UpperRadius float64
	LowerRadius float64
	// TiltAngle tilts the vertical arm away from the vessel axis.
	TiltAngle float64
	// Cross-section shape.
	Section       SectionKind
	SectionWidth  float64
	SectionHeight float64
	// SectionCorner is the corner radius of the rounded-rectangle
	// family. Ignored for ovals.
	SectionCorner float64
	// SectionSegments is the profile sample count. Zero selects the
	// default.
	SectionSegments int
	// Thickness is the handle extent along the sweep's thickness axis.
	// Zero keeps the cross-section's native height.
	Thickness float64
	// FilletRadius fakes a blended transition into the vessel wall by
	// scaling the cross-section up near the attachments. Zero disables
	// the blend.
	FilletRadius float64
}

// Vessel is the tapered cylindrical wall the handle attaches to.
// The wall radius varies linearly from BottomDiameter/2 at height 0 to
// TopDiameter/2 at Height.
type Vessel struct {
	Height         float64
	TopDiameter    float64
	BottomDiameter float64
}

// DefaultVessel is used when no vessel reference is supplied.
var DefaultVessel = Vessel{Height: 95, TopDiameter: 80, BottomDiameter: 60}

// RadiusAt returns the wall radius at the given height. Heights outside
// the vessel clamp to the nearest rim.
func (v Vessel) RadiusAt(height float64) float64 {
	rBottom := v.BottomDiameter / 2
	rTop := v.TopDiameter / 2
	if v.Height <= 0 {
		return rBottom
	}
	frac := d2.Clamp(height/v.Height, 0, 1)
	return rBottom + (rTop-rBottom)*frac
}

const (
	// Path sample counts for final export and interactive preview.
	exportPathSamples  = 96
	previewPathSamples = 32

	defaultSectionSegments = 32
)

// Mesh builds the handle shell at export quality. A nil vessel selects
// DefaultVessel.
func Mesh(p Params, v *Vessel) (*render.Mesh, error) {
	return generate(p, v, exportPathSamples)
}

// PreviewMesh builds the handle shell at interactive preview quality.
func PreviewMesh(p Params, v *Vessel) (*render.Mesh, error) {
	return generate(p, v, previewPathSamples)
}

func generate(p Params, v *Vessel, samples int) (*render.Mesh, error) {
	vessel := DefaultVessel
	if v != nil {
		vessel = *v
	}
	path, err := BuildPath(p, vessel)
	if err != nil {
		return nil, err
	}
	zones := filletZones(path.Length(), p.FilletRadius)
	segments := p.SectionSegments
	if segments == 0 {
		segments = defaultSectionSegments
	}
	profile, err := Profile(p.SectionWidth, p.SectionHeight, segments, p.Section, p.SectionCorner)
	if err != nil {
		return nil, fmt.Errorf("handle cross-section: %w", err)
	}
	mean := profileMeanRadius(p.SectionWidth, p.SectionHeight)
	return sweep(profile, path, p.Thickness, zones, p.FilletRadius, mean, samples)
}

// profileMeanRadius converts the cross-section extents into the mean
// radius used to turn a fillet radius in millimetres into a
// dimensionless scale addition.
func profileMeanRadius(width, height float64) float64 {
	return (width + height) / 4
}
