package report

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/prompteval/driftreport/internal/metrics"
)

// Cell background anchors. Light pastels keep black text readable on top.
var (
	colorLow     = mustHex("#f5c6cb") // soft red
	colorHigh    = mustHex("#c3e6cb") // soft green
	colorNegSide = mustHex("#b8d4f0") // soft blue, negative side of a diverging scale
	colorPosSide = mustHex("#f5c6cb") // soft red, positive side of a diverging scale
	colorCenter  = mustHex("#ffffff")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// colorScale maps one column's observed values to cell backgrounds.
type colorScale struct {
	kind   Scale
	min    float64
	max    float64
	maxAbs float64
}

// newColorScale anchors a scale at the finite values actually observed in
// the column. Non-finite values are ignored; they get no color at all.
func newColorScale(kind Scale, values []float64) colorScale {
	s := colorScale{kind: kind, min: math.Inf(1), max: math.Inf(-1)}
	var finite []float64
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return s
	}
	s.min, s.max = metrics.MinMax(finite)
	s.maxAbs = math.Max(math.Abs(s.min), math.Abs(s.max))
	return s
}

// hex returns the background color for a value, or "" for no coloring
// (ScaleNone, non-finite values, or a scale with no observed range).
func (s colorScale) hex(v float64) string {
	if s.kind == ScaleNone || !isFinite(v) || s.min > s.max {
		return ""
	}
	switch s.kind {
	case ScaleSequential:
		if s.max == s.min {
			return colorLow.BlendLab(colorHigh, 0.5).Hex()
		}
		t := (v - s.min) / (s.max - s.min)
		return blend(colorLow, colorHigh, t)
	case ScaleDiverging:
		// Re-centered at zero: white in the middle, stronger color the
		// farther the value sits from the baseline, blue below and red
		// above so the sign stays visible at a glance.
		if s.maxAbs == 0 {
			return colorCenter.Hex()
		}
		t := math.Abs(v) / s.maxAbs
		if v < 0 {
			return blend(colorCenter, colorNegSide, t)
		}
		return blend(colorCenter, colorPosSide, t)
	}
	return ""
}

// blend interpolates in Lab space, pinning the endpoints so anchor values
// round-trip to their exact hex.
func blend(from, to colorful.Color, t float64) string {
	switch {
	case t <= 0:
		return from.Hex()
	case t >= 1:
		return to.Hex()
	default:
		return from.BlendLab(to, t).Clamped().Hex()
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
