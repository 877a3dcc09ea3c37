package flow

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// Options configures chain diagram generation.
type Options struct {
	// Formatter renders levels and changes. The zero value uses
	// bridge.DefaultFormatter.
	Formatter *bridge.Formatter

	// Detailed adds the start and end of each bar to its label.
	Detailed bool
}

var fills = map[bridge.Class]string{
	bridge.ClassBase:     "#9ecae1",
	bridge.ClassPositive: "#a1d99b",
	bridge.ClassNegative: "#fc9272",
	bridge.ClassTotal:    "#bdbdbd",
}

// ToDOT converts prepared bars to Graphviz DOT format.
// Nodes are named "bar-i" by position; total bars use a double outline.
func ToDOT(bars []bridge.Bar, opts Options) string {
	f := bridge.DefaultFormatter
	if opts.Formatter != nil {
		f = *opts.Formatter
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, b := range bars {
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(fmtAttrs(b, fmtLabel(b, f, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(bars); i++ {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(i-1), nodeID(i), fmtChange(bars[i-1], bars[i], f))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "bar-" + strconv.Itoa(i) }

func fmtLabel(b bridge.Bar, f bridge.Formatter, detailed bool) string {
	label := b.Name + "\n" + f.Format(b.LabelValue)
	if detailed {
		label += fmt.Sprintf("\nstart: %s\nend: %s", f.Format(b.Start), f.Format(b.End))
	}
	return label
}

func fmtAttrs(b bridge.Bar, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill, ok := fills[b.Class]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if b.Class == bridge.ClassTotal {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// fmtChange labels the edge from prev into b with the change of level.
// Totals report their level, since their net change is relative to zero.
// The change is taken from the previous end, not from b's own span, which
// is shifted for the sliver drawn when a layered level does not move.
func fmtChange(prev, b bridge.Bar, f bridge.Formatter) string {
	if b.Class == bridge.ClassTotal {
		return "= " + f.Format(b.End)
	}
	change := b.End - prev.End
	if change >= 0 {
		return "+" + f.Format(change)
	}
	return f.Format(change)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height, so converters size the page correctly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
