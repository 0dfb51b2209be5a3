package render

import (
	"errors"
	"io"

	"github.com/eeismann/dinnerware/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh with flat attribute buffers, ready
// for rendering or serialization. Vertices and Normals hold 3 floats
// per vertex, UVs 2 floats per vertex, Indices 3 indices per triangle.
// A Mesh is never mutated once built.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	UVs      []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Validate checks the mesh buffer invariants: attribute buffers
// agree on vertex count, the index buffer length is a multiple of 3
// and all indices reference valid vertices.
func (m *Mesh) Validate() error {
	nv := m.VertexCount()
	if len(m.Vertices)%3 != 0 {
		return errors.New("vertex buffer length not a multiple of 3")
	}
	if len(m.Normals) != len(m.Vertices) {
		return errors.New("normal buffer length mismatches vertex buffer")
	}
	if len(m.UVs) != 2*nv {
		return errors.New("UV buffer length mismatches vertex count")
	}
	if len(m.Indices)%3 != 0 {
		return errors.New("index buffer length not a multiple of 3")
	}
	for _, idx := range m.Indices {
		if int(idx) >= nv {
			return errors.New("index buffer references vertex out of range")
		}
	}
	return nil
}

// Vertex returns the i-th vertex position.
func (m *Mesh) Vertex(i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Triangle returns the i-th triangle of the mesh.
func (m *Mesh) Triangle(i int) Triangle3 {
	return Triangle3{V: [3]r3.Vec{
		m.Vertex(int(m.Indices[3*i])),
		m.Vertex(int(m.Indices[3*i+1])),
		m.Vertex(int(m.Indices[3*i+2])),
	}}
}

// Triangles expands the index buffer into a flat triangle slice.
func (m *Mesh) Triangles() []Triangle3 {
	t := make([]Triangle3, m.TriangleCount())
	for i := range t {
		t[i] = m.Triangle(i)
	}
	return t
}

// Bounds returns the axis aligned bounding box of the mesh vertices.
func (m *Mesh) Bounds() r3.Box {
	if m.IsEmpty() {
		return r3.Box{}
	}
	bb := r3.Box{Min: m.Vertex(0), Max: m.Vertex(0)}
	for i := 1; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		bb.Min = d3.MinElem(bb.Min, v)
		bb.Max = d3.MaxElem(bb.Max, v)
	}
	return bb
}

// Renderer returns a Renderer that reads the mesh triangles in index
// buffer order. The mesh itself is not modified by reads.
func (m *Mesh) Renderer() Renderer {
	return &meshReader{mesh: m}
}

type meshReader struct {
	mesh *Mesh
	next int // next triangle to read
}

func (r *meshReader) ReadTriangles(t []Triangle3) (int, error) {
	nt := r.mesh.TriangleCount()
	if r.next >= nt {
		return 0, io.EOF
	}
	n := 0
	for n < len(t) && r.next < nt {
		t[n] = r.mesh.Triangle(r.next)
		n++
		r.next++
	}
	return n, nil
}
