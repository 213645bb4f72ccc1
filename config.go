package hilbert

import "fmt"

// Config holds everything a run needs. Every field is fixed for the run.
type Config struct {
	Exponent      int `mapstructure:"exponent"`       // main grid side is 2^Exponent
	IntroExponent int `mapstructure:"intro-exponent"` // 0 disables the intro/outro curves
	Layers        int `mapstructure:"layers"`

	GridStep      float64 `mapstructure:"grid-step"`      // mm
	LayerHeight   float64 `mapstructure:"layer-height"`   // mm
	ExtrusionRate float64 `mapstructure:"extrusion-rate"` // mm of filament per mm of travel
	FeedRate      float64 `mapstructure:"feed-rate"`      // mm/min

	StartX float64 `mapstructure:"start-x"` // machine position of cell (0,0)
	StartY float64 `mapstructure:"start-y"`

	BorderPadding float64 `mapstructure:"border-padding"` // mm around the footprint, 0 disables the skirt
	IntroDwell    float64 `mapstructure:"intro-dwell"`    // minutes

	FanLayer            int `mapstructure:"fan-layer"` // -1 leaves the fan off
	FilamentChangeLayer int `mapstructure:"filament-change-layer"`
	FilamentChangeStep  int `mapstructure:"filament-change-step"`

	HotendTemp float64 `mapstructure:"hotend-temp"`
	BedTemp    float64 `mapstructure:"bed-temp"`
	BedWidth   float64 `mapstructure:"bed-width"`
	BedDepth   float64 `mapstructure:"bed-depth"`

	RelativeExtrusion bool `mapstructure:"relative-extrusion"`
}

// DefaultConfig is a 64mm square, nine layers tall, for a 0.4mm nozzle.
func DefaultConfig() Config {
	return Config{
		Exponent:      7,
		IntroExponent: 2,
		Layers:        9,

		GridStep:      0.5,
		LayerHeight:   0.2,
		ExtrusionRate: 0.032715,
		FeedRate:      33.88 * 0.5 * 60,

		StartX: 50,
		StartY: 50,

		BorderPadding: 3,
		IntroDwell:    0.25,

		FanLayer:            1,
		FilamentChangeLayer: -1,

		HotendTemp: 215,
		BedTemp:    60,
		BedWidth:   220,
		BedDepth:   220,

		RelativeExtrusion: true,
	}
}

// StepsPerMinute is how many grid steps the nozzle covers per minute.
func (c Config) StepsPerMinute() float64 {
	return c.FeedRate / c.GridStep
}

// LayerZ returns the nozzle height for a layer.
func (c Config) LayerZ(layer int) float64 {
	return float64(layer+1) * c.LayerHeight
}

// GridSize returns the side of the main grid in mm.
func (c Config) GridSize() float64 {
	return float64(Side(c.Exponent)) * c.GridStep
}

// LayerLen returns the number of points the given layer visits.
func (c Config) LayerLen(layer int) int {
	n := PointCount(c.Exponent)
	if layer == 0 && c.IntroExponent > 0 {
		n += 2 * PointCount(c.IntroExponent)
	}
	return n
}

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, a...))
}

// Validate rejects configurations that the planner cannot honor. It is run
// before any computation.
func (c Config) Validate() error {
	switch {
	case c.Exponent < 1 || c.Exponent > MaxExponent:
		return invalid("exponent %d not in [1, %d]", c.Exponent, MaxExponent)
	case c.IntroExponent < 0 || c.IntroExponent >= c.Exponent:
		return invalid("intro exponent %d not in [0, %d)", c.IntroExponent, c.Exponent)
	case c.Layers < 1:
		return invalid("layers must be at least 1, got %d", c.Layers)
	case c.GridStep <= 0:
		return invalid("grid step must be positive, got %g", c.GridStep)
	case c.LayerHeight <= 0:
		return invalid("layer height must be positive, got %g", c.LayerHeight)
	case c.ExtrusionRate < 0:
		return invalid("extrusion rate must not be negative, got %g", c.ExtrusionRate)
	case c.FeedRate <= 0:
		return invalid("feed rate must be positive, got %g", c.FeedRate)
	case c.BorderPadding < 0:
		return invalid("border padding must not be negative, got %g", c.BorderPadding)
	case c.IntroDwell < 0:
		return invalid("intro dwell must not be negative, got %g", c.IntroDwell)
	case c.FanLayer < -1 || c.FanLayer >= c.Layers:
		return invalid("fan layer %d not in [-1, %d)", c.FanLayer, c.Layers)
	case c.FilamentChangeLayer < -1 || c.FilamentChangeLayer >= c.Layers:
		return invalid("filament change layer %d not in [-1, %d)", c.FilamentChangeLayer, c.Layers)
	case c.BedWidth <= 0 || c.BedDepth <= 0:
		return invalid("bed size %gx%g must be positive", c.BedWidth, c.BedDepth)
	}

	if c.FilamentChangeLayer >= 0 {
		n := c.LayerLen(c.FilamentChangeLayer)
		if c.FilamentChangeStep < 1 || c.FilamentChangeStep >= n {
			return invalid("filament change step %d not in [1, %d)", c.FilamentChangeStep, n)
		}
	}
	return nil
}
