// Package pkg provides the core libraries for waterfall (bridge) charts.
//
// # Overview
//
// A waterfall chart shows a running total as a chain of floating bars: each
// bar starts where the previous one ended, connectors link consecutive bars,
// and a final total bar drops back to zero. The pkg directory is organized
// into three areas:
//
//  1. [bridge] - the bar layout engine (input records to prepared bars)
//  2. [chart] - options, the stateful chart session, geometry and sinks
//  3. [pipeline] - orchestration (import → prepare → layout → render) with
//     caching, used by the CLI and the HTTP server
//
// # Architecture
//
// The typical data flow:
//
//	CSV / XLSX / JSON / TOML file
//	         ↓
//	    [io] package (decode into a bridge.Dataset)
//	         ↓
//	    [bridge] package (prepare bars: start, end, class, label)
//	         ↓
//	    [chart/layout] package (band and linear scales, blocks, ticks)
//	         ↓
//	    [chart/sink] package (SVG, JSON, PDF, PNG)
//
// # Quick Start
//
//	bars, err := bridge.PrepareSteps([]bridge.Step{
//	    {Name: "Expiring", Value: 4500},
//	    {Name: "Exposure", Value: 750},
//	    {Name: "Rate", Value: -450},
//	}, "Renewed")
//
//	opts := chart.DefaultOptions()
//	l := layout.Build(bars, opts.Frame(), opts.LayoutOptions()...)
//	svg := sink.RenderSVG(l, sink.WithTitle("Q3 renewal"))
//
// A long-lived chart keeps its state in a [chart] session instead:
//
//	s, err := chart.New(sink.NewSVGSurface(), data, nil)
//	_ = s.Redraw()
//	res, err := s.Update(nil, &chart.Patch{LayerIndex: &layer})
//
// # Main Packages
//
// [bridge] - Delta mode (signed steps plus a synthesized total) and layered
// mode (absolute levels read from one field of one layer per item), the
// class rules and the currency formatter.
//
// [chart] - [chart.Options] with derived width and height, shallow or deep
// option patches, and [chart.Session], which redraws its surface only when
// the prepared bars change.
//
// [chart/layout] - Pure geometry: blocks, labels, connectors and axis ticks.
//
// [chart/sink] - Output formats. [chart/flow] renders the bar chain as a
// Graphviz graph.
//
// [io] - Input decoding for JSON, TOML, CSV and Excel workbooks.
//
// [cache] - File, Redis and null artifact caches keyed by content hashes.
//
// [server] - The HTTP API: stateless renders and server-held chart sessions.
//
// [observability] - Hook registries for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [bridge]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/bridge
// [chart]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/chart
// [chart/layout]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/chart/layout
// [chart/sink]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/chart/sink
// [chart/flow]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/chart/flow
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/waterfall/pkg/errors
package pkg
