// Package flow renders a waterfall as a left-to-right chain diagram.
//
// Each bar becomes a node labelled with its name and formatted level; edges
// between consecutive bars carry the signed change. The result is useful for
// reviewing a bridge when the bar chart itself is too dense.
//
//	dot := flow.ToDOT(bars, flow.Options{})
//	svg, err := flow.RenderSVG(ctx, dot)
//
// Rendering happens in-process with [github.com/goccy/go-graphviz].
// The DOT source can also be saved and processed with external Graphviz tools.
package flow
