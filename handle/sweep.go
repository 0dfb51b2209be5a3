package handle

import (
	"fmt"

	"github.com/eeismann/dinnerware/internal/d2"
	"github.com/eeismann/dinnerware/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// sweep places one scaled copy of the profile at every path sample and
// stitches adjacent rings into a triangulated shell. The two end rings
// stay open: they coincide with the vessel wall and are welded there by
// a downstream union outside this kernel.
func sweep(profile d2.Set, path *Path, thickness float64, zones FilletZones, filletRadius, meanRadius float64, samples int) (*render.Mesh, error) {
	if len(profile) < 3 {
		return nil, fmt.Errorf("%w: %d profile points", ErrDegenerateProfile, len(profile))
	}
	if samples < 2 {
		return nil, fmt.Errorf("%w: path sampling yields %d rings", ErrDegenerateMesh, samples)
	}
	rings := path.Sample(samples)

	maxAdd := 0.0
	if filletRadius > filletEpsilon && meanRadius > filletEpsilon {
		maxAdd = filletRadius / meanRadius
	}
	// The thickness scale is measured against the profile's own extent
	// along the thickness axis, so Thickness == SectionHeight is the
	// identity.
	refThickness := profile.Max().Y - profile.Min().Y
	thickRatio := 1.0
	if thickness > 0 && refThickness > filletEpsilon {
		thickRatio = thickness / refThickness
	}

	np := len(profile)
	ns := len(rings)
	mesh := &render.Mesh{
		Vertices: make([]float32, 0, 3*np*ns),
		Normals:  make([]float32, 3*np*ns),
		UVs:      make([]float32, 0, 2*np*ns),
		Indices:  make([]uint32, 0, 6*np*(ns-1)),
	}
	radial := make([]r3.Vec, 0, np*ns)
	for i, ring := range rings {
		s := zones.scale(ring.T, maxAdd)
		for j, pt := range profile {
			v := ring.Position
			v = r3.Add(v, r3.Scale(pt.X*s, ring.Normal))
			v = r3.Add(v, r3.Scale(pt.Y*s*thickRatio, ring.Binormal))
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.UVs = append(mesh.UVs,
				float32(j)/float32(np),
				float32(i)/float32(ns-1))
			// Outward-radial approximation, replaced below where faces
			// provide a smoothed normal.
			out := r3.Sub(v, ring.Position)
			if r3.Norm(out) < 1e-12 {
				out = ring.Normal
			}
			radial = append(radial, r3.Unit(out))
		}
	}
	for i := 0; i < ns-1; i++ {
		for j := 0; j < np; j++ {
			jn := (j + 1) % np
			a := uint32(i*np + j)
			b := uint32(i*np + jn)
			c := uint32((i+1)*np + jn)
			d := uint32((i+1)*np + j)
			mesh.Indices = append(mesh.Indices, a, b, c)
			mesh.Indices = append(mesh.Indices, a, c, d)
		}
	}
	smoothNormals(mesh, radial)
	return mesh, nil
}

// smoothNormals averages unit face normals into shared vertices.
// Vertices touching only degenerate faces keep their radial fallback.
func smoothNormals(mesh *render.Mesh, fallback []r3.Vec) {
	acc := make([]r3.Vec, mesh.VertexCount())
	for i := 0; i < mesh.TriangleCount(); i++ {
		tri := mesh.Triangle(i)
		e1 := r3.Sub(tri.V[1], tri.V[0])
		e2 := r3.Sub(tri.V[2], tri.V[0])
		fn := r3.Cross(e1, e2)
		if r3.Norm(fn) < 1e-12 {
			continue
		}
		fn = r3.Unit(fn)
		for k := 0; k < 3; k++ {
			idx := mesh.Indices[3*i+k]
			acc[idx] = r3.Add(acc[idx], fn)
		}
	}
	for v := range acc {
		n := acc[v]
		if r3.Norm(n) < 1e-12 {
			n = fallback[v]
		} else {
			n = r3.Unit(n)
		}
		mesh.Normals[3*v] = float32(n.X)
		mesh.Normals[3*v+1] = float32(n.Y)
		mesh.Normals[3*v+2] = float32(n.Z)
	}
}
