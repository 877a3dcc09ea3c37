// Package sink provides output formats for waterfall chart layouts.
//
// # Overview
//
// After [layout.Build] computes chart geometry, sinks turn it into output:
//
//   - [RenderSVG]: Standalone, responsive SVG document
//   - [RenderJSON]: Render model (bars plus geometry) for external renderers
//   - [RenderPDF], [RenderPNG]: Print and raster output via rsvg-convert
//
// # Surfaces
//
// [SVGSurface] implements the chart session's Surface interface in memory.
// A session allocates it, clears it and draws layouts onto it; [SVGSurface.Bytes]
// renders whatever is currently drawn:
//
//	surf := sink.NewSVGSurface(sink.WithTitle("Renewal bridge"))
//	s, err := chart.New(surf, data, nil)
//	if err != nil {
//	    return err
//	}
//	_ = s.Redraw()
//	os.WriteFile("chart.svg", surf.Bytes(), 0o644)
//
// # SVG Output
//
// The document carries viewBox="0 0 W H" (W and H include margins) and
// preserveAspectRatio="xMinYMin meet", so it scales with its container while
// keeping the configured aspect ratio. [WithFixedSize] additionally sets
// width and height, which converters need.
//
// [layout.Build]: github.com/matzehuels/waterfall/pkg/chart/layout.Build
package sink
