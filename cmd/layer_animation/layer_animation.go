package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
	"github.com/madewithlinux/hilbert-curve-gcode/preview"
)

type LayerAnimation struct {
	Config                 hilbert.Config
	ImageSize              int
	OutputFileFormatString string
	ColorBy                preview.ColorMode
}

// RenderAllLayers writes one frame per layer. Each frame shows the layers
// printed so far in color, with the newest layer drawn in black on top.
func (g *LayerAnimation) RenderAllLayers() error {
	tp, err := hilbert.Plan(g.Config)
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.ImageSize = g.ImageSize
	opts.ColorBy = g.ColorBy
	opts.View = preview.Isometric()
	base := preview.NewRenderer(tp, opts)

	for i := 0; i < g.Config.Layers; i++ {
		frame := base.Snapshot()
		frame.DrawLayerColor(i, color.Black)

		outputFileName := fmt.Sprintf(g.OutputFileFormatString, i)
		if err := frame.SavePNG(outputFileName); err != nil {
			return err
		}

		base.DrawLayer(i)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var (
		anim    = LayerAnimation{Config: hilbert.DefaultConfig()}
		outDir  string
		byPhase bool
	)
	anim.Config.Exponent = 5
	anim.Config.Layers = 12

	cmd := &cobra.Command{
		Use:          "layer_animation",
		Short:        "Render one PNG frame per printed layer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if anim.Config.IntroExponent >= anim.Config.Exponent {
				anim.Config.IntroExponent = anim.Config.Exponent - 1
			}
			if byPhase {
				anim.ColorBy = preview.ColorByPhase
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			anim.OutputFileFormatString = filepath.Join(outDir, "layer_animation_%05d.png")
			return anim.RenderAllLayers()
		},
	}

	f := cmd.Flags()
	f.IntVar(&anim.Config.Exponent, "exponent", anim.Config.Exponent, "curve exponent")
	f.IntVar(&anim.Config.Layers, "layers", anim.Config.Layers, "number of layers")
	f.IntVar(&anim.ImageSize, "size", 500, "image size in px")
	f.StringVarP(&outDir, "out", "o", "renders", "output directory")
	f.BoolVar(&byPhase, "phase", false, "color by phase instead of by layer")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
