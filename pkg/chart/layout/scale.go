package layout

import "math"

// paddingOffset is subtracted from the configured bar padding before it is
// applied to the band scale.
const paddingOffset = 0.015

// Band is a rounded ordinal band scale over n slots.
type Band struct {
	Start     float64 // offset of the first band
	Step      float64 // distance between consecutive band starts
	Bandwidth float64 // width of each band
	N         int
}

// NewBand computes a band scale over [0, width] with equal inner and outer
// padding, rounded like d3's scaleBand().rangeRound([0, width]).padding(p).
// Negative padding is treated as zero.
func NewBand(n int, width, padding float64) Band {
	p := max(0, min(1, padding))
	step := width / max(1, float64(n)-p+2*p)
	step = math.Floor(step)
	start := (width - step*(float64(n)-p)) * 0.5
	return Band{
		Start:     round(start),
		Step:      step,
		Bandwidth: round(step * (1 - p)),
		N:         n,
	}
}

// At returns the leading edge of band i.
func (b Band) At(i int) float64 { return b.Start + b.Step*float64(i) }

// Center returns the midpoint of band i.
func (b Band) Center(i int) float64 { return b.At(i) + b.Bandwidth/2 }

// Linear maps the value domain [Lo, Hi] onto the pixel range [Height, 0].
type Linear struct {
	Lo, Hi float64
	Height float64
}

// NewLinear returns the value scale for [0, hi]. A non-positive hi would give
// an empty or inverted domain, so it falls back to [0, 1].
func NewLinear(hi, height float64) Linear {
	if !(hi > 0) || math.IsInf(hi, 0) {
		hi = 1
	}
	return Linear{Lo: 0, Hi: hi, Height: height}
}

// Y returns the vertical pixel position of v.
func (s Linear) Y(v float64) float64 {
	return s.Height - (v-s.Lo)/(s.Hi-s.Lo)*s.Height
}

// round rounds half up, matching JavaScript's Math.round.
func round(x float64) float64 { return math.Floor(x + 0.5) }
