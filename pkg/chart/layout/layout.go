package layout

import "github.com/matzehuels/waterfall/pkg/bridge"

const (
	// DefaultBarPadding is the fraction of each band slot left empty.
	DefaultBarPadding = 0.75

	// connectorGap is the horizontal distance kept between a connector and
	// the bars it joins.
	connectorGap = 5.0

	// labelOffset shifts a label's anchor below the bar end.
	labelOffset = 5.0
)

// Margin is the space around the plot area.
type Margin struct {
	Top    float64 `json:"top" mapstructure:"top"`
	Right  float64 `json:"right" mapstructure:"right"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
	Left   float64 `json:"left" mapstructure:"left"`
}

// Frame is the plot size plus its margins.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// OuterWidth returns the width including left and right margins.
func (f Frame) OuterWidth() float64 { return f.Width + f.Margin.Left + f.Margin.Right }

// OuterHeight returns the height including top and bottom margins.
func (f Frame) OuterHeight() float64 { return f.Height + f.Margin.Top + f.Margin.Bottom }

// Layout is the complete geometry of one chart.
type Layout struct {
	Frame      Frame       `json:"frame"`
	Band       Band        `json:"band"`
	Value      Linear      `json:"value"`
	Blocks     []Block     `json:"blocks"`
	Labels     []Label     `json:"labels"`
	Connectors []Connector `json:"connectors"`
	XTicks     []Tick      `json:"x_ticks"`
	YTicks     []Tick      `json:"y_ticks"`
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	padding   float64
	formatter bridge.Formatter
	ticks     int
}

// WithBarPadding sets the bar padding (default [DefaultBarPadding]).
func WithBarPadding(p float64) Option { return func(b *builder) { b.padding = p } }

// WithFormatter sets the formatter used for labels and value ticks.
func WithFormatter(f bridge.Formatter) Option { return func(b *builder) { b.formatter = f } }

// WithTickCount sets the approximate number of value ticks.
func WithTickCount(n int) Option { return func(b *builder) { b.ticks = n } }

// Build computes the layout of bars inside frame. Bars are placed in slice
// order; names need not be unique.
func Build(bars []bridge.Bar, frame Frame, opts ...Option) Layout {
	b := builder{
		padding:   DefaultBarPadding,
		formatter: bridge.DefaultFormatter,
		ticks:     DefaultTickCount,
	}
	for _, opt := range opts {
		opt(&b)
	}

	band := NewBand(len(bars), frame.Width, b.padding-paddingOffset)
	value := NewLinear(bridge.MaxEnd(bars), frame.Height)

	l := Layout{
		Frame:      frame,
		Band:       band,
		Value:      value,
		Blocks:     make([]Block, 0, len(bars)),
		Labels:     make([]Label, 0, len(bars)),
		Connectors: make([]Connector, 0, len(bars)),
		XTicks:     make([]Tick, 0, len(bars)),
	}

	for i, bar := range bars {
		x := band.At(i)
		l.Blocks = append(l.Blocks, Block{
			Index:  i,
			Name:   bar.Name,
			Class:  bar.Class,
			Left:   x,
			Right:  x + band.Bandwidth,
			Top:    value.Y(bar.High()),
			Bottom: value.Y(bar.Low()),
		})

		l.Labels = append(l.Labels, Label{
			Index: i,
			Text:  b.formatter.Format(bar.LabelValue),
			X:     band.Center(i),
			Y:     value.Y(bar.End) + labelOffset,
			Above: bar.Class != bridge.ClassNegative,
		})

		if bar.Class != bridge.ClassTotal {
			x1 := x + band.Bandwidth + connectorGap
			x2 := max(x1, x+band.Step-connectorGap)
			l.Connectors = append(l.Connectors, Connector{From: i, X1: x1, X2: x2, Y: value.Y(bar.End)})
		}

		l.XTicks = append(l.XTicks, Tick{Value: float64(i), Pos: band.Center(i), Text: bar.Name})
	}

	for _, v := range NiceTicks(value.Lo, value.Hi, b.ticks) {
		l.YTicks = append(l.YTicks, Tick{Value: v, Pos: value.Y(v), Text: b.formatter.Format(v)})
	}
	return l
}
