package preview

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hschendel/stl"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

type MeshOptions struct {
	BeadWidth float64 // mm
	MaxLayers int     // 0 means every layer
}

func DefaultMeshOptions() MeshOptions {
	return MeshOptions{BeadWidth: 0.45}
}

// Mesh builds one box per extruding move in the XY plane, a layer height
// tall and BeadWidth wide.
func Mesh(tp *hilbert.Toolpath, opts MeshOptions) *stl.Solid {
	solid := &stl.Solid{Name: "hilbert"}
	h := tp.Config.LayerHeight
	w := opts.BeadWidth / 2

	var last mgl64.Vec3
	for _, ev := range tp.Events {
		switch ev.Kind {
		case hilbert.Travel, hilbert.ExtrudeVertical:
			last = ev.Pos
			continue
		case hilbert.Extrude:
		default:
			continue
		}
		from := last
		last = ev.Pos
		if opts.MaxLayers > 0 && ev.Layer >= opts.MaxLayers {
			continue
		}

		d := ev.Pos.Sub(from)
		d[2] = 0
		if d.Len() < 1e-9 {
			continue
		}
		d = d.Normalize()
		n := mgl64.Vec3{-d[1], d[0], 0}.Mul(w)
		down := mgl64.Vec3{0, 0, -h}

		// bottom corners p0..p3, top corners p4..p7
		a, b := from.Add(down), ev.Pos.Add(down)
		p := [8]mgl64.Vec3{
			a.Sub(n), b.Sub(n), b.Add(n), a.Add(n),
			from.Sub(n), ev.Pos.Sub(n), ev.Pos.Add(n), from.Add(n),
		}
		for _, f := range boxFaces {
			solid.Triangles = append(solid.Triangles, triangle(p[f[0]], p[f[1]], p[f[2]]))
		}
	}
	return solid
}

// counterclockwise seen from outside
var boxFaces = [12][3]int{
	{0, 2, 1}, {0, 3, 2}, // bottom
	{4, 5, 6}, {4, 6, 7}, // top
	{0, 1, 5}, {0, 5, 4}, // right of travel
	{2, 3, 7}, {2, 7, 6}, // left of travel
	{1, 2, 6}, {1, 6, 5}, // end
	{3, 0, 4}, {3, 4, 7}, // start
}

func triangle(a, b, c mgl64.Vec3) stl.Triangle {
	return stl.Triangle{
		Normal:   vec(b.Sub(a).Cross(c.Sub(a)).Normalize()),
		Vertices: [3]stl.Vec3{vec(a), vec(b), vec(c)},
	}
}

func vec(v mgl64.Vec3) stl.Vec3 {
	return stl.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// WriteSTL writes the bead mesh of tp to w as binary STL.
func WriteSTL(tp *hilbert.Toolpath, w io.Writer, opts MeshOptions) error {
	return Mesh(tp, opts).WriteAll(w)
}
