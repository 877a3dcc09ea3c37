// Package server exposes chart sessions over HTTP.
//
// Each chart created through the API is a [chart.Session] drawing onto an
// in-memory SVG surface, registered under a random UUID. Calls on one chart
// are serialized; different charts proceed in parallel.
//
// # Routes
//
//	POST   /v1/prepare          prepared bars for a dataset (stateless)
//	POST   /v1/render           one artifact via the cached pipeline
//	POST   /v1/charts           create a chart session
//	GET    /v1/charts/{id}      session summary and bars
//	PATCH  /v1/charts/{id}      update data and/or options
//	GET    /v1/charts/{id}/svg  current drawing
//	GET    /v1/charts/{id}/layout  render model as JSON
//	DELETE /v1/charts/{id}      dispose the session
//	GET    /v1/version          build information
//	GET    /healthz
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
//
// [chart.Session]: github.com/matzehuels/waterfall/pkg/chart.Session
package server
