package bridge

import (
	"math"
	"strconv"
)

// Formatter renders values as compact currency labels.
type Formatter struct {
	Prefix   string // currency symbol placed before the number
	Thousand string // suffix used when the value is shown in thousands
}

// DefaultFormatter uses a dollar prefix and a K suffix.
var DefaultFormatter = Formatter{Prefix: "$", Thousand: "K"}

// Format formats n with DefaultFormatter.
func Format(n float64) string { return DefaultFormatter.Format(n) }

// Format rounds n half up to an integer. Magnitudes above 1000 are shown in
// thousands (rounded again), smaller ones as the plain integer.
func (f Formatter) Format(n float64) string {
	r := roundHalfUp(n)
	if math.Abs(r) > 1000 {
		return f.Prefix + strconv.FormatFloat(roundHalfUp(r/1000), 'f', 0, 64) + f.Thousand
	}
	return f.Prefix + strconv.FormatFloat(r, 'f', 0, 64)
}

// roundHalfUp rounds ties towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(n float64) float64 {
	r := math.Floor(n + 0.5)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
