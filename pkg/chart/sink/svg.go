package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/chart/styles"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     styles.Style
	title     string
	fixedSize bool
	noAxes    bool
}

// WithStyle sets the visual style (default [styles.Simple]).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithTitle adds a <title> element to the document.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithFixedSize adds explicit width and height attributes. Without it the
// document only carries a viewBox and scales to its container.
func WithFixedSize() SVGOption { return func(r *svgRenderer) { r.fixedSize = true } }

// WithoutAxes omits both axes.
func WithoutAxes() SVGOption { return func(r *svgRenderer) { r.noAxes = true } }

// RenderSVG renders the layout as a standalone SVG document. The viewBox
// spans the frame including margins and the plot is translated by the left
// and top margins.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := l.Frame.OuterWidth(), l.Frame.OuterHeight()

	var buf bytes.Buffer
	writeHeader(&buf, w, h, r.fixedSize)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}
	r.style.RenderDefs(&buf)

	fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f)">`+"\n", l.Frame.Margin.Left, l.Frame.Margin.Top)
	if !r.noAxes {
		r.style.RenderXAxis(&buf, l.XTicks, l.Frame.Height)
		r.style.RenderYAxis(&buf, l.YTicks, l.Frame.Width)
	}
	renderContent(&buf, r.style, l)
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func writeHeader(buf *bytes.Buffer, w, h float64, fixed bool) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" class="waterfall__svg" viewBox="0 0 %.1f %.1f" preserveAspectRatio="xMinYMin meet"`, w, h)
	if fixed {
		fmt.Fprintf(buf, ` width="%.0f" height="%.0f"`, w, h)
	}
	buf.WriteString(">\n")
}

func renderContent(buf *bytes.Buffer, style styles.Style, l layout.Layout) {
	for _, b := range l.Blocks {
		style.RenderBar(buf, styles.BarFromBlock(b))
	}
	for _, c := range l.Connectors {
		style.RenderConnector(buf, c)
	}
	for _, lbl := range l.Labels {
		style.RenderLabel(buf, lbl)
	}
}

// renderEmpty renders a document of the given size with nothing drawn.
func renderEmpty(w, h float64, fixed bool) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, w, h, fixed)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
