package bridge

import (
	"maps"
	"math"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// DefaultTotalLabel names the synthesized delta-mode total bar.
const DefaultTotalLabel = "Total"

// Config selects the preparation mode and its parameters.
type Config struct {
	Mode       Mode
	TotalLabel string // delta mode only; empty means DefaultTotalLabel
	LayerIndex int    // layered mode only
	ValueField string // layered mode only; empty means FieldLoss
}

// Prepare dispatches to PrepareSteps or PrepareLayers according to cfg.Mode.
func Prepare(data Dataset, cfg Config) ([]Bar, error) {
	switch cfg.Mode {
	case ModeDelta, "":
		return PrepareSteps(data.Steps, cfg.TotalLabel)
	case ModeLayered:
		field := cfg.ValueField
		if field == "" {
			field = FieldLoss
		}
		return PrepareLayers(data.Items, cfg.LayerIndex, field)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown mode %q", cfg.Mode)
}

// PrepareSteps lays out delta-mode steps.
//
// Each step starts at the running cumulative and ends at cumulative+value.
// The first step is classified base; the rest positive or negative by the
// sign of their value. A total bar named totalLabel, spanning 0 to the final
// cumulative, is always appended, so an empty input yields exactly one bar.
func PrepareSteps(steps []Step, totalLabel string) ([]Bar, error) {
	if totalLabel == "" {
		totalLabel = DefaultTotalLabel
	}

	bars := make([]Bar, 0, len(steps)+1)
	var cumulative float64
	for i, s := range steps {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "step %d (%q): value must be finite", i, s.Name)
		}
		end := cumulative + s.Value
		bars = append(bars, Bar{
			Index:      i,
			Name:       s.Name,
			Value:      s.Value,
			Start:      cumulative,
			End:        end,
			Class:      deltaClass(s.Value, i),
			LabelValue: end - cumulative,
		})
		cumulative = end
	}

	bars = append(bars, Bar{
		Index:      -1,
		Name:       totalLabel,
		Start:      0,
		End:        cumulative,
		Class:      ClassTotal,
		LabelValue: cumulative,
	})
	return bars, nil
}

func deltaClass(value float64, index int) Class {
	if index == 0 {
		return ClassBase
	}
	if value >= 0 {
		return ClassPositive
	}
	return ClassNegative
}

// selected is an item that survived the falsy-value filter.
type selected struct {
	index int
	item  *Item
	value float64
}

// PrepareLayers lays out layered-mode items.
//
// For every item the value items[i].Layers[layerIndex].<field> is read. A
// missing, zero or NaN value drops the item. Each surviving value becomes the
// bar's End as an absolute level. The last surviving bar starts at 0 and is
// classified total; a bar whose End equals the previous level starts at 99%
// of that level. The first surviving bar is base, the rest positive or
// negative depending on whether the level rose or fell.
//
// An item without a layers array, with fewer layers than layerIndex
// requires, or with an infinite selected value fails the whole call with
// INVALID_INPUT.
func PrepareLayers(items []Item, layerIndex int, field string) ([]Bar, error) {
	if !IsField(field) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown layer field %q", field)
	}
	if layerIndex < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layer index %d is negative", layerIndex)
	}

	kept := make([]selected, 0, len(items))
	for i := range items {
		it := &items[i]
		if it.Layers == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d (%q): missing layers", i, it.DisplayName)
		}
		if layerIndex >= len(it.Layers) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"item %d (%q): layer index %d out of range (%d layers)", i, it.DisplayName, layerIndex, len(it.Layers))
		}
		v, ok := it.Layers[layerIndex].Value(field)
		if !ok || v == 0 || math.IsNaN(v) {
			continue
		}
		if math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "item %d (%q): %s must be finite", i, it.DisplayName, field)
		}
		kept = append(kept, selected{index: i, item: it, value: v})
	}

	bars := make([]Bar, 0, len(kept))
	var cumulative float64
	for n, s := range kept {
		last := n == len(kept)-1
		end := s.value

		start := cumulative
		switch {
		case last:
			start = 0
		case end == cumulative:
			start = cumulative * 0.99
		}

		bars = append(bars, Bar{
			Index:      s.index,
			Name:       s.item.DisplayName,
			Value:      s.value,
			Start:      start,
			End:        end,
			Class:      layeredClass(end, cumulative, last),
			LabelValue: s.value,
			Fields:     maps.Clone(s.item.Fields),
		})
		cumulative = end
	}
	return bars, nil
}

func layeredClass(end, cumulative float64, last bool) Class {
	switch {
	case last:
		return ClassTotal
	case cumulative == 0:
		return ClassBase
	case end >= cumulative:
		return ClassPositive
	}
	return ClassNegative
}
