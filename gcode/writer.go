// Package gcode serializes a planned toolpath into printer G-code.
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

// Writer emits G-code lines. The first write error is sticky and reported
// by Flush, so callers can write a whole toolpath and check once.
type Writer struct {
	w   *bufio.Writer
	cfg hilbert.Config
	err error

	extruderPosition float64
}

func NewWriter(w io.Writer, cfg hilbert.Config) *Writer {
	return &Writer{w: bufio.NewWriter(w), cfg: cfg}
}

func (gw *Writer) printf(format string, a ...interface{}) {
	if gw.err != nil {
		return
	}
	_, gw.err = fmt.Fprintf(gw.w, format, a...)
}

func (gw *Writer) println(line string) {
	gw.printf("%s\n", line)
}

// e returns the E word for a move feeding de mm of filament.
func (gw *Writer) e(de float64) float64 {
	if gw.cfg.RelativeExtrusion {
		return round(de, 5)
	}
	gw.extruderPosition += de
	return round(gw.extruderPosition, 5)
}

// Travel moves to p without extruding.
func (gw *Writer) Travel(p mgl64.Vec3) {
	gw.printf("G0 X%.3f Y%.3f Z%.3f\n", round(p[0], 3), round(p[1], 3), round(p[2], 3))
}

// Extrude moves to p in the current plane, feeding de mm of filament.
func (gw *Writer) Extrude(p mgl64.Vec3, de float64) {
	gw.printf("G1 X%.3f Y%.3f E%.5f\n", round(p[0], 3), round(p[1], 3), gw.e(de))
}

// ExtrudeVertical raises the nozzle to z, feeding de mm of filament.
func (gw *Writer) ExtrudeVertical(z, de float64) {
	gw.printf("G1 Z%.3f E%.5f\n", round(z, 3), gw.e(de))
}

func (gw *Writer) Dwell(minutes float64) {
	gw.printf("G4 S%d\n", int(math.Round(minutes*60)))
}

// Progress writes the pair of M73 annotations: Q/S for silent mode and P/R
// for normal mode.
func (gw *Writer) Progress(p hilbert.Progress) {
	gw.printf("M73 Q%d S%d\n", p.PercentDone, p.MinutesRemaining)
	gw.printf("M73 P%d R%d\n", p.PercentDone, p.MinutesRemaining)
}

func (gw *Writer) FanOn() {
	gw.println("M106 S255 ; turn on the fan")
}

func (gw *Writer) FilamentChange() {
	gw.println("M600 ; filament change")
}

func (gw *Writer) LayerComment(layer int, z float64) {
	gw.printf(";LAYER:%d Z%s\n", layer, FloatToSmallestString(z, 3))
}

// WriteToolpath writes preamble, events and postamble.
func (gw *Writer) WriteToolpath(tp *hilbert.Toolpath) error {
	gw.Preamble(tp)
	for _, ev := range tp.Events {
		switch ev.Kind {
		case hilbert.LayerStart:
			gw.LayerComment(ev.Layer, gw.cfg.LayerZ(ev.Layer))
		case hilbert.Travel:
			gw.Travel(ev.Pos)
		case hilbert.Extrude:
			gw.Extrude(ev.Pos, ev.E)
		case hilbert.ExtrudeVertical:
			gw.ExtrudeVertical(ev.Pos[2], ev.E)
		case hilbert.Dwell:
			gw.Dwell(ev.Minutes)
		case hilbert.FanOn:
			gw.FanOn()
		case hilbert.FilamentChange:
			gw.FilamentChange()
		case hilbert.ProgressMark:
			gw.Progress(ev.Progress)
		default:
			return fmt.Errorf("gcode: unknown event kind %v", ev.Kind)
		}
	}
	gw.Postamble()
	return gw.Flush()
}

func (gw *Writer) Flush() error {
	if gw.err != nil {
		return gw.err
	}
	return gw.w.Flush()
}

// round rounds half away from zero to the given number of decimals, so the
// printed value does not depend on the binary representation of v.
func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // no "-0.000"
	}
	return r
}
