package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

func smallToolpath(t *testing.T) *hilbert.Toolpath {
	cfg := hilbert.DefaultConfig()
	cfg.Exponent = 3
	cfg.IntroExponent = 1
	cfg.Layers = 4
	tp, err := hilbert.Plan(cfg)
	require.NoError(t, err)
	return tp
}

func TestRenderPNG(t *testing.T) {
	tp := smallToolpath(t)
	for name, opts := range map[string]Options{
		"top":   {ImageSize: 200, LineWidth: 1, ShowTravel: true},
		"phase": {ImageSize: 200, LineWidth: 1, ColorBy: ColorByPhase, View: Isometric()},
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name+".png")
			require.NoError(t, RenderPNG(tp, path, opts))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 200, img.Bounds().Dx())
			assert.Equal(t, 200, img.Bounds().Dy())
		})
	}
}

func TestRendererProjectsInsideImage(t *testing.T) {
	tp := smallToolpath(t)
	r := NewRenderer(tp, Options{ImageSize: 100, LineWidth: 1})
	for _, ev := range tp.Events {
		if ev.Kind != hilbert.Travel && ev.Kind != hilbert.Extrude && ev.Kind != hilbert.ExtrudeVertical {
			continue
		}
		x, y := r.project(ev.Pos)
		assert.True(t, x >= 0 && x <= 100 && y >= 0 && y <= 100, "%v -> (%g, %g)", ev.Pos, x, y)
	}

	// the top-down view keeps +Y pointing up in the image
	_, yLow := r.project(mgl64.Vec3{50, 50, 0})
	_, yHigh := r.project(mgl64.Vec3{50, 53, 0})
	assert.Less(t, yHigh, yLow)
}

func TestSnapshotLeavesBaseUntouched(t *testing.T) {
	tp := smallToolpath(t)
	base := NewRenderer(tp, Options{ImageSize: 64, LineWidth: 2})

	frame := base.Snapshot()
	frame.DrawLayerColor(0, color.Black)

	blank := func(img image.Image) bool {
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if r, g, bl, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || bl != 0xffff {
					return false
				}
			}
		}
		return true
	}
	assert.True(t, blank(base.Context().Image()))
	assert.False(t, blank(frame.Context().Image()))
}

func countXYExtrudes(tp *hilbert.Toolpath, maxLayers int) int {
	n := 0
	for _, ev := range tp.Events {
		if ev.Kind == hilbert.Extrude && (maxLayers == 0 || ev.Layer < maxLayers) {
			n++
		}
	}
	return n
}

func TestMesh(t *testing.T) {
	tp := smallToolpath(t)

	solid := Mesh(tp, DefaultMeshOptions())
	assert.Len(t, solid.Triangles, 12*countXYExtrudes(tp, 0))
	assert.Len(t, solid.Triangles, 12*(tp.Steps+4))

	for _, tri := range solid.Triangles {
		n := mgl64.Vec3{float64(tri.Normal[0]), float64(tri.Normal[1]), float64(tri.Normal[2])}
		require.InDelta(t, 1, n.Len(), 1e-5)
	}

	// first box is the first skirt side: bottom faces down, top faces up
	assert.InDelta(t, -1, solid.Triangles[0].Normal[2], 1e-6)
	assert.InDelta(t, 1, solid.Triangles[2].Normal[2], 1e-6)
	assert.InDelta(t, 0, solid.Triangles[2].Vertices[0][2]-float32(tp.Config.LayerZ(0)), 1e-5)

	firstLayer := Mesh(tp, MeshOptions{BeadWidth: 0.4, MaxLayers: 1})
	assert.Len(t, firstLayer.Triangles, 12*countXYExtrudes(tp, 1))
}

func TestWriteSTL(t *testing.T) {
	tp := smallToolpath(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(tp, &buf, DefaultMeshOptions()))

	solid, err := stl.ReadAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, solid.Triangles, 12*(tp.Steps+4))
}
