package chart

import (
	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAspectRatio = 3.0
	DefaultBarPadding  = layout.DefaultBarPadding
	DefaultScale       = 9.6
	DefaultLayerIndex  = 0
	DefaultValueField  = bridge.FieldLoss
	DefaultTotalLabel  = bridge.DefaultTotalLabel
	DefaultCurrency    = "$"
	DefaultMode        = bridge.ModeDelta

	// widthPerScale converts Scale into the plot width.
	widthPerScale = 100.0
)

// DefaultMargin is the margin applied when none is configured.
var DefaultMargin = layout.Margin{Top: 20, Right: 30, Bottom: 30, Left: 40}

// =============================================================================
// Options
// =============================================================================

// Options is the complete chart configuration.
//
// Width and Height are derived from Scale and AspectRatio by [Options.Derive]
// and are overwritten whenever options are merged; setting them directly has
// no lasting effect.
type Options struct {
	AspectRatio float64       `json:"aspect_ratio" mapstructure:"aspect_ratio"`
	Width       float64       `json:"width" mapstructure:"-"`
	Height      float64       `json:"height" mapstructure:"-"`
	BarPadding  float64       `json:"bar_padding" mapstructure:"bar_padding"`
	Margin      layout.Margin `json:"margin" mapstructure:"margin"`
	Scale       float64       `json:"scale" mapstructure:"scale"`
	Mode        bridge.Mode   `json:"mode" mapstructure:"mode"`
	LayerIndex  int           `json:"layer_index" mapstructure:"layer_index"`
	ValueField  string        `json:"value_field" mapstructure:"value_field"`
	TotalLabel  string        `json:"total_label" mapstructure:"total_label"`
	Currency    string        `json:"currency" mapstructure:"currency"`
}

// DefaultOptions returns the default configuration with derived dimensions.
func DefaultOptions() Options {
	return Options{
		AspectRatio: DefaultAspectRatio,
		BarPadding:  DefaultBarPadding,
		Margin:      DefaultMargin,
		Scale:       DefaultScale,
		Mode:        DefaultMode,
		LayerIndex:  DefaultLayerIndex,
		ValueField:  DefaultValueField,
		TotalLabel:  DefaultTotalLabel,
		Currency:    DefaultCurrency,
	}.Derive()
}

// Derive returns o with Width and Height recomputed from Scale and
// AspectRatio.
func (o Options) Derive() Options {
	o.Width = o.Scale * widthPerScale
	o.Height = o.Width / o.AspectRatio
	return o
}

// Validate checks every option against its domain. All failures are
// INVALID_OPTIONS.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("aspect_ratio", o.AspectRatio); err != nil {
		return err
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if err := errors.ValidateUnitInterval("bar_padding", o.BarPadding); err != nil {
		return err
	}
	for _, side := range []struct {
		name string
		v    float64
	}{
		{"margin.top", o.Margin.Top},
		{"margin.right", o.Margin.Right},
		{"margin.bottom", o.Margin.Bottom},
		{"margin.left", o.Margin.Left},
	} {
		if err := errors.ValidateNonNegative(side.name, side.v); err != nil {
			return err
		}
	}
	if _, err := bridge.ParseMode(string(o.Mode)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "mode")
	}
	if o.LayerIndex < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "layer_index must not be negative, got %d", o.LayerIndex)
	}
	if !bridge.IsField(o.ValueField) {
		return errors.New(errors.ErrCodeInvalidOptions, "value_field %q is not one of %v", o.ValueField, bridge.Fields)
	}
	return nil
}

// Frame returns the plot frame described by the options.
func (o Options) Frame() layout.Frame {
	return layout.Frame{Width: o.Width, Height: o.Height, Margin: o.Margin}
}

// OuterSize returns the surface size: plot plus margins.
func (o Options) OuterSize() (width, height float64) {
	f := o.Frame()
	return f.OuterWidth(), f.OuterHeight()
}

// Formatter returns the label formatter for the configured currency.
func (o Options) Formatter() bridge.Formatter {
	return bridge.Formatter{Prefix: o.Currency, Thousand: bridge.DefaultFormatter.Thousand}
}

// EngineConfig returns the layout engine configuration.
func (o Options) EngineConfig() bridge.Config {
	return bridge.Config{
		Mode:       o.Mode,
		TotalLabel: o.TotalLabel,
		LayerIndex: o.LayerIndex,
		ValueField: o.ValueField,
	}
}

// LayoutOptions returns the geometry options for [layout.Build].
func (o Options) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.WithBarPadding(o.BarPadding),
		layout.WithFormatter(o.Formatter()),
	}
}

// needsResize reports whether moving from o to next changes the surface
// dimensions in a way that requires reallocation.
func (o Options) needsResize(next Options) bool {
	return o.AspectRatio != next.AspectRatio || o.Scale != next.Scale
}

// =============================================================================
// Patch
// =============================================================================

// MarginPatch sets individual margin sides. Nil sides are unset.
type MarginPatch struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

// Patch is a partial set of options. Nil fields keep their current value.
type Patch struct {
	AspectRatio *float64     `json:"aspect_ratio,omitempty"`
	BarPadding  *float64     `json:"bar_padding,omitempty"`
	Margin      *MarginPatch `json:"margin,omitempty"`
	Scale       *float64     `json:"scale,omitempty"`
	Mode        *bridge.Mode `json:"mode,omitempty"`
	LayerIndex  *int         `json:"layer_index,omitempty"`
	ValueField  *string      `json:"value_field,omitempty"`
	TotalLabel  *string      `json:"total_label,omitempty"`
	Currency    *string      `json:"currency,omitempty"`
}

// MergeMode selects how a patched margin combines with the current one.
type MergeMode int

const (
	// MergeShallow replaces the whole margin when a patch provides one.
	// Sides the patch leaves unset become 0.
	MergeShallow MergeMode = iota
	// MergeDeep patches margin sides individually.
	MergeDeep
)

// Apply merges p over base and re-derives the dimensions. A nil patch
// returns base unchanged apart from derivation.
func (p *Patch) Apply(base Options, mode MergeMode) Options {
	out := base
	if p != nil {
		setIf(&out.AspectRatio, p.AspectRatio)
		setIf(&out.BarPadding, p.BarPadding)
		setIf(&out.Scale, p.Scale)
		setIf(&out.Mode, p.Mode)
		setIf(&out.LayerIndex, p.LayerIndex)
		setIf(&out.ValueField, p.ValueField)
		setIf(&out.TotalLabel, p.TotalLabel)
		setIf(&out.Currency, p.Currency)

		if m := p.Margin; m != nil {
			if mode == MergeShallow {
				out.Margin = layout.Margin{}
			}
			setIf(&out.Margin.Top, m.Top)
			setIf(&out.Margin.Right, m.Right)
			setIf(&out.Margin.Bottom, m.Bottom)
			setIf(&out.Margin.Left, m.Left)
		}
	}
	return out.Derive()
}

// PatchFrom returns a patch that sets every field of o.
func PatchFrom(o Options) *Patch {
	return &Patch{
		AspectRatio: &o.AspectRatio,
		BarPadding:  &o.BarPadding,
		Margin: &MarginPatch{
			Top:    &o.Margin.Top,
			Right:  &o.Margin.Right,
			Bottom: &o.Margin.Bottom,
			Left:   &o.Margin.Left,
		},
		Scale:      &o.Scale,
		Mode:       &o.Mode,
		LayerIndex: &o.LayerIndex,
		ValueField: &o.ValueField,
		TotalLabel: &o.TotalLabel,
		Currency:   &o.Currency,
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
