package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelsToMillimeters_OneMillimeter(t *testing.T) {
	assert.InDelta(t, 1.0, PixelsToMillimeters(PixelsPerMM, 1), 1e-12)
	assert.InDelta(t, 1.0, PixelsToMillimeters(PixelsPerMM*0.5, 0.5), 1e-12)
}

func TestUnitConversion_RoundTrip(t *testing.T) {
	scales := []float64{0.25, 0.5, 0.85, 1, 1.5, 2, 3.2}
	for _, s := range scales {
		for d := -500.0; d <= 500; d += 7.3 {
			mm := PixelsToMillimeters(d, s)
			back := MillimetersToPixels(mm, s)
			assert.InDelta(t, d, back, 0.005, "scale=%v delta=%v", s, d)
		}
	}
}

func TestUnitConversion_DegenerateScale(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.InDelta(t, PixelsToMillimeters(100, 1), PixelsToMillimeters(100, s), 1e-12, "scale=%v", s)
		assert.InDelta(t, MillimetersToPixels(10, 1), MillimetersToPixels(10, s), 1e-12, "scale=%v", s)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{15.564, 15.56},
		{15.565001, 15.57},
		{-2.345001, -2.35},
		{0, 0},
		{148.5, 148.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}
