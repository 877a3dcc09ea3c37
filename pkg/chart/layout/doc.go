// Package layout computes chart geometry for prepared waterfall bars.
//
// # Overview
//
// The [bridge] engine decides what each bar means (where it starts and ends
// on the value axis, and how it is classified). This package decides where
// it goes on screen. [Build] maps a slice of [bridge.Bar] into a [Layout]
// containing everything a renderer needs:
//
//   - One [Block] per bar (left, right, top, bottom in plot coordinates)
//   - One [Label] per bar with the formatted label value
//   - A [Connector] from every non-total bar to the next slot
//   - X and Y axis ticks
//
// # Scales
//
// The horizontal axis is a band scale over bar positions, rounded to whole
// pixels the way d3's scaleBand().rangeRound() rounds. Band padding is the
// configured bar padding minus 0.015, applied both inside and outside.
//
// The vertical axis is a linear scale mapping [0, max(end)] onto
// [Height, 0], so larger values sit higher. When no bar ends above zero the
// domain falls back to [0, 1].
//
// # Coordinates
//
// All coordinates are relative to the plot area (the frame minus margins),
// with the origin at the top-left and Y increasing downward. A Block's Top is
// therefore numerically smaller than its Bottom. Renderers translate the
// plot area by the frame margins.
//
// # Building a Layout
//
//	bars, _ := bridge.PrepareSteps(steps, "Total")
//	l := layout.Build(bars, layout.Frame{Width: 960, Height: 320},
//	    layout.WithBarPadding(0.75),
//	    layout.WithFormatter(bridge.Formatter{Prefix: "€", Thousand: "K"}),
//	)
//
// [bridge]: github.com/matzehuels/waterfall/pkg/bridge
package layout
