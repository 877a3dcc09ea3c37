package sink

import (
	"encoding/json"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style string
	mode  bridge.Mode
}

// WithJSONStyle records the style name in the JSON output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONMode records the preparation mode in the JSON output.
func WithJSONMode(m bridge.Mode) JSONOption { return func(r *jsonRenderer) { r.mode = m } }

type jsonOutput struct {
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Frame      layout.Frame       `json:"frame"`
	Mode       bridge.Mode        `json:"mode,omitempty"`
	Style      string             `json:"style,omitempty"`
	Bandwidth  float64            `json:"bandwidth"`
	Bars       []bridge.Bar       `json:"bars"`
	Blocks     []layout.Block     `json:"blocks"`
	Labels     []layout.Label     `json:"labels"`
	Connectors []layout.Connector `json:"connectors"`
	XTicks     []layout.Tick      `json:"x_ticks"`
	YTicks     []layout.Tick      `json:"y_ticks"`
}

// RenderJSON exports the render model (prepared bars plus geometry) as a
// pretty-printed JSON document. Width and Height are the outer surface size.
func RenderJSON(l layout.Layout, bars []bridge.Bar, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      l.Frame.OuterWidth(),
		Height:     l.Frame.OuterHeight(),
		Frame:      l.Frame,
		Mode:       r.mode,
		Style:      r.style,
		Bandwidth:  l.Band.Bandwidth,
		Bars:       nonNil(bars),
		Blocks:     nonNil(l.Blocks),
		Labels:     nonNil(l.Labels),
		Connectors: nonNil(l.Connectors),
		XTicks:     nonNil(l.XTicks),
		YTicks:     nonNil(l.YTicks),
	}
	return json.MarshalIndent(out, "", "  ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
