package render

import (
	"github.com/eeismann/dinnerware/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer is a source of triangles. ReadTriangles follows io.Reader
// semantics: it fills t with up to len(t) triangles and returns io.EOF
// once the geometry is exhausted.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	// V is the vertices of the triangle.
	V [3]r3.Vec
}

// Normal returns the normal vector to the plane defined by the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if the triangle is degenerate.
func (t Triangle3) Degenerate(tol float64) bool {
	// check for identical vertices.
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}
