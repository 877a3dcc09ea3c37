package bridge

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

// Mode selects how input values drive the cumulative level.
type Mode string

const (
	// ModeDelta treats each step value as a signed delta.
	ModeDelta Mode = "delta"
	// ModeLayered treats each selected layer value as an absolute level.
	ModeLayered Mode = "layered"
)

// ParseMode converts a mode name into a Mode. The empty string maps to
// ModeDelta.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDelta:
		return ModeDelta, nil
	case ModeLayered:
		return ModeLayered, nil
	}
	return "", fmt.Errorf("unknown mode %q (must be delta or layered)", s)
}

// Class is the semantic classification of a bar. Renderers typically use it
// as a CSS modifier.
type Class string

const (
	ClassBase     Class = "base"
	ClassPositive Class = "positive"
	ClassNegative Class = "negative"
	ClassTotal    Class = "total"
)

// Step is one delta-mode input value.
type Step struct {
	Name  string  `json:"name" toml:"name" mapstructure:"name"`
	Value float64 `json:"value" toml:"value" mapstructure:"value"`
}

// Layer field names accepted as a value selector.
const (
	FieldAttachment = "attachment"
	FieldCover      = "cover"
	FieldFrequency  = "frequency"
	FieldLoss       = "loss"
)

// Fields lists the selectable layer fields.
var Fields = []string{FieldAttachment, FieldCover, FieldFrequency, FieldLoss}

// IsField reports whether name is a selectable layer field.
func IsField(name string) bool {
	switch name {
	case FieldAttachment, FieldCover, FieldFrequency, FieldLoss:
		return true
	}
	return false
}

// Layer holds the numeric values of one layer of a layered item.
// A nil field means the value is absent.
type Layer struct {
	Attachment *float64 `json:"attachment,omitempty" toml:"attachment" mapstructure:"attachment"`
	Cover      *float64 `json:"cover,omitempty" toml:"cover" mapstructure:"cover"`
	Frequency  *float64 `json:"frequency,omitempty" toml:"frequency" mapstructure:"frequency"`
	Loss       *float64 `json:"loss,omitempty" toml:"loss" mapstructure:"loss"`
}

// Value returns the named field and whether it is present.
// Unknown field names report false.
func (l Layer) Value(field string) (float64, bool) {
	var p *float64
	switch field {
	case FieldAttachment:
		p = l.Attachment
	case FieldCover:
		p = l.Cover
	case FieldFrequency:
		p = l.Frequency
	case FieldLoss:
		p = l.Loss
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Item is one layered-mode input record. Fields holds any additional keys of
// the source record (currency, ratingId, ...) and is copied onto the bar.
type Item struct {
	DisplayName string         `json:"displayName" toml:"displayName" mapstructure:"displayName"`
	Layers      []Layer        `json:"layers" toml:"layers" mapstructure:"layers"`
	Fields      map[string]any `json:"-" toml:"-" mapstructure:",remain"`
}

// Dataset bundles both input shapes. The Mode in use decides which slice is
// read; the other is ignored.
type Dataset struct {
	Steps []Step `json:"steps,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Len returns the number of input records for the given mode.
func (d Dataset) Len(mode Mode) int {
	if mode == ModeLayered {
		return len(d.Items)
	}
	return len(d.Steps)
}

// Bar is a fully resolved chart segment.
type Bar struct {
	// Index is the position of the source record in the input, or -1 for
	// the synthesized delta-mode total.
	Index int `json:"index"`
	// Name is the category label (Step.Name or Item.DisplayName).
	Name string `json:"name"`
	// Value is the source value: the delta, the selected layer value, or 0
	// for the synthesized total.
	Value float64 `json:"value"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Class Class   `json:"class"`
	// LabelValue is the number a renderer shows on the bar.
	LabelValue float64        `json:"label_value"`
	Fields     map[string]any `json:"fields,omitempty"`
}

// Low returns the lower of Start and End.
func (b Bar) Low() float64 { return min(b.Start, b.End) }

// High returns the higher of Start and End.
func (b Bar) High() float64 { return max(b.Start, b.End) }

// Net returns the signed change represented by the bar.
func (b Bar) Net() float64 { return b.End - b.Start }

// Synthetic reports whether the bar was not part of the input.
func (b Bar) Synthetic() bool { return b.Index < 0 }

// Equal reports whether two bar sequences are structurally equal.
func Equal(a, b []Bar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Index != y.Index || x.Name != y.Name || x.Class != y.Class ||
			x.Value != y.Value || x.Start != y.Start || x.End != y.End ||
			x.LabelValue != y.LabelValue {
			return false
		}
		if !maps.EqualFunc(x.Fields, y.Fields, func(v, w any) bool { return reflect.DeepEqual(v, w) }) {
			return false
		}
	}
	return true
}

// MaxEnd returns the largest End across bars, or 0 for an empty slice.
func MaxEnd(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	m := bars[0].End
	for _, b := range bars[1:] {
		m = max(m, b.End)
	}
	return m
}
