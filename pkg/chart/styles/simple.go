package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

const simpleCSS = `
    .waterfall__bar--base rect, .waterfall__bar--total rect { fill: #4682b4; }
    .waterfall__bar--positive rect { fill: #2e8b57; }
    .waterfall__bar--negative rect { fill: #cd5c5c; }
    .waterfall__label { font: 12px sans-serif; text-anchor: middle; fill: #333; }
    .waterfall__connector { stroke: #666; stroke-dasharray: 3; }
    .waterfall__axis text { font: 10px sans-serif; fill: #333; }
    .waterfall__axis line, .waterfall__axis path { stroke: #ccc; shape-rendering: crispEdges; }`

// Simple is a flat style with class-based colors.
type Simple struct{}

var fills = map[bridge.Class]string{
	bridge.ClassBase:     "#4682b4",
	bridge.ClassTotal:    "#4682b4",
	bridge.ClassPositive: "#2e8b57",
	bridge.ClassNegative: "#cd5c5c",
}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", simpleCSS)
}

func (Simple) RenderBar(buf *bytes.Buffer, b Bar) {
	fmt.Fprintf(buf, `  <g id="%s" class="%s"><title>%s</title><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/></g>`+"\n",
		EscapeXML(b.ID), EscapeXML(BarClass(string(b.Class))), EscapeXML(b.Name),
		b.X, b.Y, b.W, b.H, fills[b.Class])
}

func (Simple) RenderConnector(buf *bytes.Buffer, c layout.Connector) {
	fmt.Fprintf(buf, `  <line class="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
		classConnector, c.X1, c.Y, c.X2, c.Y)
}

func (Simple) RenderLabel(buf *bytes.Buffer, l layout.Label) {
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" dy="%s">%s</text>`+"\n",
		classLabel, l.X, l.Y, labelDY(l.Above), EscapeXML(l.Text))
}

func (Simple) RenderXAxis(buf *bytes.Buffer, ticks []layout.Tick, y float64) {
	fmt.Fprintf(buf, `  <g class="%s %s--x" transform="translate(0,%.2f)" text-anchor="middle">`+"\n", classAxis, classAxis, y)
	for _, t := range ticks {
		fmt.Fprintf(buf, `    <g class="tick" transform="translate(%.2f,0)"><line y2="6"/><text y="9" dy=".71em">%s</text></g>`+"\n",
			t.Pos, EscapeXML(t.Text))
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderYAxis(buf *bytes.Buffer, ticks []layout.Tick, width float64) {
	fmt.Fprintf(buf, `  <g class="%s %s--y" text-anchor="end">`+"\n", classAxis, classAxis)
	for _, t := range ticks {
		fmt.Fprintf(buf, `    <g class="tick" transform="translate(0,%.2f)"><line x2="%.2f"/><text x="-3" dy=".32em">%s</text></g>`+"\n",
			t.Pos, width, EscapeXML(t.Text))
	}
	buf.WriteString("  </g>\n")
}
