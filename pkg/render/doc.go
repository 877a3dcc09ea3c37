// Package render converts rendered SVG charts into other formats.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG document using the external
// rsvg-convert tool (from librsvg). They are used by the chart sinks and the
// pipeline for the pdf and png output formats:
//
//	svg := sink.RenderSVG(l, sink.WithFixedSize())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is not installed both functions fail with an
// UNSUPPORTED error that explains how to install it; [Available] checks for
// it up front.
package render
