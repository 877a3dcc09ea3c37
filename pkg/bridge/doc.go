// Package bridge turns step values into waterfall (bridge) chart bars.
//
// # Overview
//
// A waterfall chart shows how an initial value is transformed by a sequence
// of increases and decreases into a final value. This package implements the
// data preparation for such a chart: it walks the input in order, tracks the
// running cumulative level and emits one [Bar] per rendered segment with its
// vertical extent ([Bar.Start], [Bar.End]) and its [Class].
//
// Two input shapes are supported, selected by [Mode]:
//
//   - [ModeDelta]: a flat list of [Step] values, each a signed delta added to
//     the running cumulative. A synthetic total bar is always appended.
//   - [ModeLayered]: a list of [Item] records with nested [Layer] values. A
//     configured layer index and field name select an absolute level per
//     item; the last emitted bar is the total.
//
// # Delta Mode
//
//	bars, err := bridge.PrepareSteps([]bridge.Step{
//	    {Name: "Expiring", Value: 4500},
//	    {Name: "Exposure", Value: 750},
//	    {Name: "Rate", Value: -450},
//	}, "Renewed")
//
// produces Expiring (base), Exposure (positive), Rate (negative) and a
// Renewed total bar spanning 0..4800.
//
// # Layered Mode
//
// Layered values are absolute levels, not deltas. Items whose selected value
// is missing or zero are skipped entirely. A bar whose level equals the
// previous level is given a start of 99% of that level so it renders as a
// visible sliver; the last bar always starts at 0.
//
// # Formatting
//
// [Format] and [Formatter] render values as compact currency labels
// ("$450", "$5K") for bar labels and axis ticks.
//
// All functions in this package are pure: they never mutate their input and
// return freshly allocated slices, so repeated calls with equal input yield
// equal output.
package bridge
