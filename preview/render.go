// Package preview draws planned toolpaths: PNG renders for a quick look at
// the curve and STL bead meshes for a mesh viewer.
package preview

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

type ColorMode int

const (
	ColorByLayer ColorMode = iota
	ColorByPhase
)

var phaseColors = map[hilbert.Phase]color.Color{
	hilbert.PhaseNone:   colornames.Lightgray,
	hilbert.PhaseBorder: colornames.Purple,
	hilbert.PhaseIntro:  colornames.Green,
	hilbert.PhaseMain:   colornames.Blue,
	hilbert.PhaseOutro:  colornames.Red,
}

type Options struct {
	ImageSize  int
	LineWidth  float64
	ColorBy    ColorMode
	ShowTravel bool

	// View is applied to machine coordinates before they are fitted into the
	// image; the zero value means a top-down view.
	View mgl64.Mat4
}

func DefaultOptions() Options {
	return Options{
		ImageSize: 1000,
		LineWidth: 1.5,
		ColorBy:   ColorByLayer,
	}
}

// Isometric is the view the layer animation uses.
func Isometric() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(-60 * (math.Pi / 180)).Mul4(
		mgl64.HomogRotate3DZ(-45 * (math.Pi / 180)))
}

// Renderer maps machine coordinates into an image and draws layers into it.
type Renderer struct {
	tp   *hilbert.Toolpath
	opts Options
	ctx  *gg.Context

	view       mgl64.Mat4
	min        mgl64.Vec2
	scale      float64
	offsetX    float64
	offsetY    float64
	layerCount int
}

func NewRenderer(tp *hilbert.Toolpath, opts Options) *Renderer {
	r := &Renderer{tp: tp, opts: opts, view: opts.View, layerCount: tp.Config.Layers}
	if r.view == (mgl64.Mat4{}) {
		r.view = mgl64.Ident4()
	}
	r.fit()
	r.Clear()
	return r
}

// fit scales the view-transformed print volume to the image with a 5% margin.
func (r *Renderer) fit() {
	b := r.tp.Border
	top := r.tp.Config.LayerZ(r.tp.Config.Layers - 1)
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{0, top} {
				p := mgl64.TransformCoordinate(mgl64.Vec3{x, y, z}, r.view)
				lo = mgl64.Vec2{math.Min(lo[0], p[0]), math.Min(lo[1], p[1])}
				hi = mgl64.Vec2{math.Max(hi[0], p[0]), math.Max(hi[1], p[1])}
			}
		}
	}

	size := float64(r.opts.ImageSize)
	extent := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	r.min = lo
	r.scale = 0.9 * size / extent
	r.offsetX = (size - r.scale*(hi[0]-lo[0])) / 2
	r.offsetY = (size - r.scale*(hi[1]-lo[1])) / 2
}

// project maps a machine position to pixel coordinates, y pointing down.
func (r *Renderer) project(p mgl64.Vec3) (float64, float64) {
	v := mgl64.TransformCoordinate(p, r.view)
	x := r.offsetX + r.scale*(v[0]-r.min[0])
	y := r.offsetY + r.scale*(v[1]-r.min[1])
	return x, float64(r.opts.ImageSize) - y
}

// Clear paints the background white.
func (r *Renderer) Clear() {
	r.ctx = gg.NewContext(r.opts.ImageSize, r.opts.ImageSize)
	r.ctx.SetColor(color.White)
	r.ctx.DrawRectangle(0, 0, float64(r.opts.ImageSize), float64(r.opts.ImageSize))
	r.ctx.Fill()
	r.ctx.SetLineWidth(r.opts.LineWidth)
}

func (r *Renderer) Context() *gg.Context { return r.ctx }

// Snapshot returns a renderer drawing on a copy of the current image.
func (r *Renderer) Snapshot() *Renderer {
	cp := *r
	cp.ctx = gg.NewContextForImage(r.ctx.Image())
	cp.ctx.SetLineWidth(r.opts.LineWidth)
	return &cp
}

func (r *Renderer) color(ev hilbert.Event) color.Color {
	if ev.Kind == hilbert.Travel {
		return colornames.Lightgray
	}
	if r.opts.ColorBy == ColorByPhase {
		return phaseColors[ev.Phase]
	}
	return colorful.Hsv(360*float64(ev.Layer)/float64(r.layerCount), 1.0, 1.0)
}

// DrawLayer draws the moves of one layer; a negative layer draws all of
// them. Consecutive moves of the same color are stroked as one path.
func (r *Renderer) DrawLayer(layer int) {
	r.drawLayer(layer, nil)
}

// DrawLayerColor draws one layer in a single color.
func (r *Renderer) DrawLayerColor(layer int, c color.Color) {
	r.drawLayer(layer, c)
}

func (r *Renderer) drawLayer(layer int, fixed color.Color) {
	var (
		last    mgl64.Vec3
		moved   bool
		cur     color.Color
		pending bool
	)
	flush := func() {
		if pending {
			r.ctx.SetColor(cur)
			r.ctx.Stroke()
			pending = false
		}
	}

	for _, ev := range r.tp.Events {
		switch ev.Kind {
		case hilbert.Extrude, hilbert.ExtrudeVertical, hilbert.Travel:
		default:
			continue
		}
		from := last
		last = ev.Pos
		if !moved {
			// the first move starts wherever the printer was homed
			moved = true
			continue
		}
		if (layer >= 0 && ev.Layer != layer) || (ev.Kind == hilbert.Travel && !r.opts.ShowTravel) {
			flush()
			continue
		}

		c := fixed
		if c == nil {
			c = r.color(ev)
		}
		if !pending || c != cur {
			flush()
			cur = c
			r.ctx.MoveTo(r.project(from))
		}
		r.ctx.LineTo(r.project(ev.Pos))
		pending = true
	}
	flush()
}

func (r *Renderer) SavePNG(path string) error {
	return r.ctx.SavePNG(path)
}

// RenderPNG draws every layer of tp into a single image.
func RenderPNG(tp *hilbert.Toolpath, path string, opts Options) error {
	r := NewRenderer(tp, opts)
	r.DrawLayer(-1)
	return r.SavePNG(path)
}
