// Package styles defines visual styles for waterfall chart rendering.
//
// A [Style] writes SVG fragments for each chart element into a buffer. The
// sink package decides what to draw and where; the style decides how it
// looks. [Simple] is the default style: flat fills keyed on the bar class,
// with BEM-style class names (waterfall__bar--positive, ...) so the output
// can be restyled with CSS.
package styles

import (
	"bytes"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

// Style defines the visual appearance of a chart.
type Style interface {
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderBar writes a single bar shape.
	RenderBar(buf *bytes.Buffer, b Bar)
	// RenderConnector writes the line chaining a bar to the next slot.
	RenderConnector(buf *bytes.Buffer, c layout.Connector)
	// RenderLabel writes a bar's value label.
	RenderLabel(buf *bytes.Buffer, l layout.Label)
	// RenderXAxis writes the category axis along the bottom edge at y.
	RenderXAxis(buf *bytes.Buffer, ticks []layout.Tick, y float64)
	// RenderYAxis writes the value axis with grid lines spanning width.
	RenderYAxis(buf *bytes.Buffer, ticks []layout.Tick, width float64)
}

// Bar contains all data needed to render a single bar.
type Bar struct {
	ID         string       // Element identifier
	Name       string       // Category name
	Class      bridge.Class // Semantic class
	X, Y, W, H float64      // Position and dimensions
}

// BarFromBlock converts a layout block into style input.
func BarFromBlock(b layout.Block) Bar {
	return Bar{
		ID:    BarID(b.Index),
		Name:  b.Name,
		Class: b.Class,
		X:     b.Left,
		Y:     b.Top,
		W:     b.Width(),
		H:     b.Height(),
	}
}
