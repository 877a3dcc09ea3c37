package pipeline

import (
	"context"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/flow"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/chart/sink"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// Render produces one artifact per format from a drawn layout.
func Render(ctx context.Context, l layout.Layout, bars []bridge.Bar, resolved chart.Options, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, format, l, bars, resolved, opts)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeRender
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, l layout.Layout, bars []bridge.Bar, resolved chart.Options, opts Options) ([]byte, error) {
	svgOpts := svgOptions(opts)

	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(l, bars, sink.WithJSONStyle(opts.Style), sink.WithJSONMode(resolved.Mode))
	case FormatPNG:
		return sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithPNGScale(opts.PNGScale))
	case FormatPDF:
		return sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
	case FormatDOT:
		return []byte(flow.ToDOT(bars, flowOptions(resolved))), nil
	case FormatFlow:
		return flow.RenderSVG(ctx, flow.ToDOT(bars, flowOptions(resolved)))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	return out
}

func flowOptions(resolved chart.Options) flow.Options {
	f := resolved.Formatter()
	return flow.Options{Formatter: &f}
}
