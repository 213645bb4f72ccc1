package gcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

// Preamble writes the header comments and the machine start block.
func (gw *Writer) Preamble(tp *hilbert.Toolpath) {
	cfg := gw.cfg
	gw.printf("; hilbert curve, exponent %d, %d layers\n", cfg.Exponent, cfg.Layers)
	gw.printf("; grid size: %smm\n", FloatToSmallestString(cfg.GridSize(), 4))
	gw.printf("; layer height: %smm\n", FloatToSmallestString(cfg.LayerHeight, 4))
	gw.printf("; print time: %s\n", Duration(tp.TotalMinutes))
	gw.printf("; filament used: %smm\n", FloatToSmallestString(tp.Filament, 1))

	// start gcode
	gw.println("G28 ; home all axes")
	gw.println("G1 Z15 ; move extruder up")
	gw.printf("M104 S%s ; set extruder temp\n", FloatToSmallestString(cfg.HotendTemp, 1))
	gw.printf("M140 S%s ; set bed temp\n", FloatToSmallestString(cfg.BedTemp, 1))
	gw.printf("M190 S%s ; wait for bed temp\n", FloatToSmallestString(cfg.BedTemp, 1))
	gw.printf("M109 S%s ; wait for extruder temp\n", FloatToSmallestString(cfg.HotendTemp, 1))
	gw.println("M107 ; fan off")

	gw.println("G21 ; set units to mm")
	gw.println("G90 ; absolute positioning")
	if cfg.RelativeExtrusion {
		gw.println("M83 ; set relative extrusion")
	} else {
		gw.println("M82 ; set absolute extrusion")
		gw.println("G92 E0 ; reset extruder")
	}
	gw.printf("G1 F%s ; feed rate\n", FloatToSmallestString(cfg.FeedRate, 1))
}

// Postamble writes the machine shutdown block.
func (gw *Writer) Postamble() {
	if gw.cfg.RelativeExtrusion {
		gw.println("G1 E-2 F2400 ; retract")
	} else {
		gw.printf("G1 E%.5f F2400 ; retract\n", round(gw.extruderPosition-2, 5))
	}
	gw.println("G91 ; relative positioning")
	gw.println("G1 Z10 F600 ; lift nozzle")
	gw.println("G90 ; absolute positioning")
	gw.println("M104 S0 ; turn off extruder")
	gw.println("M140 S0 ; turn off bed")
	gw.println("M107 ; fan off")
	gw.println("G28 X0 Y0 ; home axes")
	gw.println("M84 ; disable motors")
}

// FloatToSmallestString formats v with at most prec decimals, dropping
// trailing zeros and the leading zero of values below one.
func FloatToSmallestString(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	switch {
	case s == "-0":
		return "0"
	case strings.HasPrefix(s, "0."):
		return s[1:]
	case strings.HasPrefix(s, "-0."):
		return "-" + s[2:]
	}
	return s
}

// Duration renders minutes as "1h05m".
func Duration(minutes float64) string {
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

// FileName derives the output name from the layer height and print time.
func FileName(layerHeight, totalMinutes float64) string {
	return fmt.Sprintf("hilbert_%smm_%s.gcode", strconv.FormatFloat(layerHeight, 'f', -1, 64), Duration(totalMinutes))
}
