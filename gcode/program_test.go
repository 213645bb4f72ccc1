package gcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hilbert "github.com/madewithlinux/hilbert-curve-gcode"
)

func TestFloatToSmallestString(t *testing.T) {
	assert.Equal(t, FloatToSmallestString(1024, 4), "1024")
	assert.Equal(t, FloatToSmallestString(300, 4), "300")

	assert.Equal(t, FloatToSmallestString(12.5, 4), "12.5")
	assert.Equal(t, FloatToSmallestString(12.111111111111, 4), "12.1111")
	assert.Equal(t, FloatToSmallestString(1.499999999999, 4), "1.5")
	assert.Equal(t, FloatToSmallestString(123.12345555555, 4), "123.1235")

	assert.Equal(t, FloatToSmallestString(0.01, 4), ".01")
	assert.Equal(t, FloatToSmallestString(0.001, 4), ".001")
	assert.Equal(t, FloatToSmallestString(0.0001, 4), ".0001")
	assert.Equal(t, FloatToSmallestString(0.00001, 4), "0")
	assert.Equal(t, FloatToSmallestString(0.00005, 4), ".0001")
	assert.Equal(t, FloatToSmallestString(0.00001, 5), ".00001")

	assert.Equal(t, FloatToSmallestString(-0.25, 4), "-.25")
	assert.Equal(t, FloatToSmallestString(-0.00001, 4), "0")
}

func TestHeaderValues(t *testing.T) {
	cfg := hilbert.DefaultConfig()
	assert.Equal(t, "64", FloatToSmallestString(cfg.GridSize(), 4))
	assert.Equal(t, ".2", FloatToSmallestString(cfg.LayerHeight, 4))
	assert.Equal(t, "1016.4", FloatToSmallestString(cfg.FeedRate, 1))
	assert.Equal(t, "215", FloatToSmallestString(cfg.HotendTemp, 1))
	assert.Equal(t, ".8", FloatToSmallestString(cfg.LayerZ(3), 3))
	assert.Equal(t, "1.8", FloatToSmallestString(cfg.LayerZ(8), 3))

	var buf bytes.Buffer
	gw := NewWriter(&buf, cfg)
	gw.Preamble(&hilbert.Toolpath{Config: cfg, TotalMinutes: 72.5, Filament: 1234.56})
	require.NoError(t, gw.Flush())
	out := lines(buf.String())
	assert.Equal(t, []string{
		"; hilbert curve, exponent 7, 9 layers",
		"; grid size: 64mm",
		"; layer height: .2mm",
		"; print time: 1h13m",
		"; filament used: 1234.6mm",
	}, out[:5])
	assert.Contains(t, out, "M104 S215 ; set extruder temp")
	assert.Contains(t, out, "M190 S60 ; wait for bed temp")
	assert.Equal(t, "G1 F1016.4 ; feed rate", out[len(out)-1])
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "0h00m", Duration(0))
	assert.Equal(t, "0h07m", Duration(7.4))
	assert.Equal(t, "1h05m", Duration(64.6))
	assert.Equal(t, "12h00m", Duration(720))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "hilbert_0.2mm_1h13m.gcode", FileName(0.2, 72.5))
	assert.Equal(t, "hilbert_0.15mm_0h09m.gcode", FileName(0.15, 9))
}
