package render_test

import (
	"io"
	"os"
	"testing"

	sdfxrender "github.com/deadsy/sdfx/render"
	sdfxsdf "github.com/deadsy/sdfx/sdf"
	"github.com/eeismann/dinnerware/handle"
	"github.com/eeismann/dinnerware/render"
)

// BenchmarkSDFXVessel renders a comparable tapered vessel body with the
// sdfx marching cubes kernel, as a baseline for the analytic sweep.
func BenchmarkSDFXVessel(b *testing.B) {
	stdout := os.Stdout
	defer func() {
		os.Stdout = stdout // pesky sdfx prints out stuff
	}()
	os.Stdout, _ = os.Open(os.DevNull)
	const output = "sdfx_vessel.stl"
	defer os.Remove(output)
	body, err := sdfxsdf.Cone3D(95, 30, 40, 2)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sdfxrender.ToSTL(body, 150, output, &sdfxrender.MarchingCubesOctree{})
	}
}

func BenchmarkHandleSTL(b *testing.B) {
	p := handle.Params{
		Protrusion:    20,
		TopHeight:     90,
		BottomHeight:  10,
		UpperRadius:   8,
		LowerRadius:   8,
		SectionWidth:  10,
		SectionHeight: 6,
		FilletRadius:  8,
	}
	for i := 0; i < b.N; i++ {
		m, err := handle.Mesh(p, nil)
		if err != nil {
			b.Fatal(err)
		}
		err = render.WriteSTL(io.Discard, m.Triangles())
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPreviewMesh(b *testing.B) {
	p := handle.Params{
		Protrusion:    18,
		TopHeight:     85,
		BottomHeight:  15,
		UpperRadius:   6,
		LowerRadius:   6,
		Section:       handle.SectionRoundedRect,
		SectionWidth:  12,
		SectionHeight: 7,
		SectionCorner: 2,
		FilletRadius:  5,
	}
	for i := 0; i < b.N; i++ {
		_, err := handle.PreviewMesh(p, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
}
