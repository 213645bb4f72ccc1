package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
	"github.com/madewithlinux/hilbert-curve-gcode/gcode"
	"github.com/madewithlinux/hilbert-curve-gcode/preview"
)

var logger = log.New(os.Stderr, "", 0)

type outputs struct {
	configFile string
	outDir     string
	toStdout   bool
	pngPath    string
	stlPath    string
	colorBy    string
}

func newRootCmd() *cobra.Command {
	var out outputs
	def := hilbert.DefaultConfig()

	cmd := &cobra.Command{
		Use:          "hilbert_gcode",
		Short:        "Print a Hilbert curve, rotated a quarter turn per layer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, out.configFile)
			if err != nil {
				return err
			}
			return run(cfg, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&out.configFile, "config", "", "read settings from a YAML, TOML or JSON file; flags take precedence")
	f.StringVarP(&out.outDir, "out-dir", "o", ".", "directory for the generated G-code")
	f.BoolVar(&out.toStdout, "stdout", false, "write G-code to stdout instead of a file")
	f.StringVar(&out.pngPath, "png", "", "also render the toolpath to this PNG file")
	f.StringVar(&out.stlPath, "stl", "", "also write the extruded beads to this STL file")
	f.StringVar(&out.colorBy, "color-by", "layer", "PNG coloring: layer or phase")

	f.Int("exponent", def.Exponent, "curve exponent; the grid side is 2^exponent")
	f.Int("intro-exponent", def.IntroExponent, "intro/outro curve exponent, 0 disables them")
	f.Int("layers", def.Layers, "number of layers")
	f.Float64("grid-step", def.GridStep, "grid step in mm")
	f.Float64("layer-height", def.LayerHeight, "layer height in mm")
	f.Float64("extrusion-rate", def.ExtrusionRate, "mm of filament per mm of travel")
	f.Float64("feed-rate", def.FeedRate, "feed rate in mm/min")
	f.Float64("start-x", def.StartX, "X of the first grid cell in mm")
	f.Float64("start-y", def.StartY, "Y of the first grid cell in mm")
	f.Float64("border-padding", def.BorderPadding, "skirt distance from the print in mm, 0 disables the skirt")
	f.Float64("intro-dwell", def.IntroDwell, "dwell after the skirt in minutes")
	f.Int("fan-layer", def.FanLayer, "layer that turns the fan on, -1 for never")
	f.Int("filament-change-layer", def.FilamentChangeLayer, "layer with an M600 filament change, -1 for none")
	f.Int("filament-change-step", def.FilamentChangeStep, "point of that layer before which M600 is inserted")
	f.Float64("hotend-temp", def.HotendTemp, "extruder temperature in °C")
	f.Float64("bed-temp", def.BedTemp, "bed temperature in °C")
	f.Float64("bed-width", def.BedWidth, "bed width in mm")
	f.Float64("bed-depth", def.BedDepth, "bed depth in mm")
	f.Bool("relative-extrusion", def.RelativeExtrusion, "use M83 relative extrusion")

	return cmd
}

// loadConfig layers defaults, the optional config file and explicit flags.
func loadConfig(cmd *cobra.Command, file string) (hilbert.Config, error) {
	var cfg hilbert.Config

	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return cfg, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func run(cfg hilbert.Config, out outputs) error {
	opts := preview.DefaultOptions()
	switch out.colorBy {
	case "layer":
	case "phase":
		opts.ColorBy = preview.ColorByPhase
	default:
		return fmt.Errorf("unknown --color-by %q", out.colorBy)
	}

	tp, err := hilbert.Plan(cfg)
	if err != nil {
		return err
	}

	logger.Printf("Grid size (mm): %s", gcode.FloatToSmallestString(cfg.GridSize(), 3))
	logger.Printf("Print time (minutes): %.1f", tp.TotalMinutes)
	logger.Printf("Filament (mm): %.1f", tp.Filament)

	if out.toStdout {
		if err := gcode.NewWriter(os.Stdout, cfg).WriteToolpath(tp); err != nil {
			return err
		}
	} else {
		path, err := gcode.WriteFile(out.outDir, tp)
		if err != nil {
			return err
		}
		logger.Printf("Wrote %s", path)
	}

	if out.pngPath != "" {
		if err := preview.RenderPNG(tp, out.pngPath, opts); err != nil {
			return fmt.Errorf("render %s: %w", out.pngPath, err)
		}
		logger.Printf("Wrote %s", out.pngPath)
	}

	if out.stlPath != "" {
		if err := writeSTL(tp, out.stlPath); err != nil {
			return err
		}
		logger.Printf("Wrote %s", out.stlPath)
	}
	return nil
}

func writeSTL(tp *hilbert.Toolpath, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return preview.WriteSTL(tp, f, preview.DefaultMeshOptions())
}
