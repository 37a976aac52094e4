package model

import "math"

// PixelsPerMM is the number of CSS reference pixels in one millimetre (96 DPI).
const PixelsPerMM = 3.7795275591

// PixelsToMillimeters converts a distance in device pixels, measured on a
// surface drawn at displayScale, into millimetres on the physical sheet.
func PixelsToMillimeters(px, displayScale float64) float64 {
	return px / normalizeScale(displayScale) / PixelsPerMM
}

// MillimetersToPixels is the inverse of PixelsToMillimeters.
func MillimetersToPixels(mm, displayScale float64) float64 {
	return mm * PixelsPerMM * normalizeScale(displayScale)
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeScale keeps the conversions total: zero, negative and NaN scales
// are treated as 1.
func normalizeScale(s float64) float64 {
	if s > 0 && !math.IsInf(s, 0) {
		return s
	}
	return 1
}
