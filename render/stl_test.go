package render_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/eeismann/dinnerware/handle"
	"github.com/eeismann/dinnerware/render"
	hstl "github.com/hschendel/stl"
)

func mugHandleMesh(t testing.TB) *render.Mesh {
	m, err := handle.Mesh(handle.Params{
		Protrusion:    20,
		TopHeight:     90,
		BottomHeight:  10,
		UpperRadius:   8,
		LowerRadius:   8,
		SectionWidth:  10,
		SectionHeight: 6,
		FilletRadius:  8,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSTLCreateWriteRead(t *testing.T) {
	const path = "handle.stl"
	m := mugHandleMesh(t)
	err := render.CreateSTL(path, m.Renderer())
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	bfile, err := io.ReadAll(fp)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, m.Triangles())
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatal("WriteSTL and CreateSTL output length mismatch")
	}
	if b.String() != string(bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestBinarySTLLayout(t *testing.T) {
	m := mugHandleMesh(t)
	b, err := render.BinarySTL(m)
	if err != nil {
		t.Fatal(err)
	}
	nt := m.TriangleCount()
	if want := 84 + 50*nt; len(b) != want {
		t.Fatalf("binary STL is %d bytes, want %d", len(b), want)
	}
	// Header is exactly 80 free-form bytes followed by the LE triangle count.
	if got := binary.LittleEndian.Uint32(b[80:84]); got != uint32(nt) {
		t.Errorf("header triangle count %d, want %d", got, nt)
	}
	// Each triangle record ends with a zero attribute field.
	for i := 0; i < nt; i++ {
		rec := b[84+50*i:]
		if attr := binary.LittleEndian.Uint16(rec[48:50]); attr != 0 {
			t.Fatalf("triangle %d: attribute field %d, want 0", i, attr)
		}
	}
}

func TestBinarySTLReparse(t *testing.T) {
	m := mugHandleMesh(t)
	b, err := render.BinarySTL(m)
	if err != nil {
		t.Fatal(err)
	}
	solid, err := hstl.ReadAll(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	tris := m.Triangles()
	if len(solid.Triangles) != len(tris) {
		t.Fatalf("reparsed %d triangles, want %d", len(solid.Triangles), len(tris))
	}
	const tol = 1e-5
	for i, want := range tris {
		got := solid.Triangles[i]
		for k := 0; k < 3; k++ {
			wv := [3]float64{want.V[k].X, want.V[k].Y, want.V[k].Z}
			for c := 0; c < 3; c++ {
				if math.Abs(float64(got.Vertices[k][c])-wv[c]) > tol {
					t.Fatalf("triangle %d vertex %d: got %v, want %v", i, k, got.Vertices[k], wv)
				}
			}
		}
		// Stored normals must match a fresh recomputation from the
		// mesh's own buffers, not whatever the sweep produced.
		n := want.Normal()
		wn := [3]float64{n.X, n.Y, n.Z}
		for c := 0; c < 3; c++ {
			if math.Abs(float64(got.Normal[c])-wn[c]) > tol {
				t.Fatalf("triangle %d: normal %v, want recomputed %v", i, got.Normal, wn)
			}
		}
	}
}

func TestRoundedRectSTLNormalsFinite(t *testing.T) {
	const w, h = 10.0, 6.0
	// Corner radius 0 and the clamp limit are the profiles that used to
	// carry coincident ring points into the sweep.
	for _, corner := range []float64{0, math.Min(w, h) / 2} {
		m, err := handle.Mesh(handle.Params{
			Protrusion:    20,
			TopHeight:     90,
			BottomHeight:  10,
			UpperRadius:   8,
			LowerRadius:   8,
			Section:       handle.SectionRoundedRect,
			SectionWidth:  w,
			SectionHeight: h,
			SectionCorner: corner,
			FilletRadius:  8,
		}, nil)
		if err != nil {
			t.Fatal(err)
		}
		tris, err := render.RenderAll(m.Renderer())
		if err != nil {
			t.Fatal(err)
		}
		if len(tris) != m.TriangleCount() {
			t.Fatalf("corner=%g: RenderAll read %d triangles, want %d", corner, len(tris), m.TriangleCount())
		}
		b, err := render.BinarySTL(m)
		if err != nil {
			t.Fatal(err)
		}
		solid, err := hstl.ReadAll(bytes.NewReader(b))
		if err != nil {
			t.Fatal(err)
		}
		if len(solid.Triangles) != len(tris) {
			t.Fatalf("corner=%g: reparsed %d triangles, want %d", corner, len(solid.Triangles), len(tris))
		}
		for i, tri := range solid.Triangles {
			var n2 float64
			for c := 0; c < 3; c++ {
				v := float64(tri.Normal[c])
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("corner=%g: triangle %d has non-finite normal %v", corner, i, tri.Normal)
				}
				n2 += v * v
			}
			if math.Abs(n2-1) > 1e-4 {
				t.Fatalf("corner=%g: triangle %d normal %v is not unit length", corner, i, tri.Normal)
			}
		}
	}
}

func TestWriteSTLASCII(t *testing.T) {
	m := mugHandleMesh(t)
	var b strings.Builder
	err := render.WriteSTLASCII(&b, "mug-handle", m.Triangles())
	if err != nil {
		t.Fatal(err)
	}
	s := b.String()
	if !strings.HasPrefix(s, "solid mug-handle\n") {
		t.Error("ASCII STL missing solid header")
	}
	if !strings.HasSuffix(s, "endsolid mug-handle\n") {
		t.Error("ASCII STL missing endsolid trailer")
	}
	if got, want := strings.Count(s, "facet normal"), m.TriangleCount(); got != want {
		t.Errorf("%d facets, want %d", got, want)
	}
	if got, want := strings.Count(s, "vertex "), 3*m.TriangleCount(); got != want {
		t.Errorf("%d vertex lines, want %d", got, want)
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	if err := render.WriteSTL(io.Discard, nil); err == nil {
		t.Error("empty model must be rejected")
	}
	if err := render.WriteSTLASCII(io.Discard, "empty", nil); err == nil {
		t.Error("empty model must be rejected")
	}
}
