package bridge

import (
	"math"
	"testing"

	"github.com/matzehuels/waterfall/pkg/errors"
)

func ptr(v float64) *float64 { return &v }

func lossItem(name string, loss *float64) Item {
	return Item{DisplayName: name, Layers: []Layer{{Loss: loss}}}
}

func TestPrepareLayersSkipsFalsyValues(t *testing.T) {
	items := []Item{
		lossItem("first", ptr(100)),
		lossItem("zero", ptr(0)),
		lossItem("third", ptr(150)),
	}
	bars, err := PrepareLayers(items, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[0].Index != 0 || bars[1].Index != 2 {
		t.Errorf("bar indices = %d, %d; want 0, 2", bars[0].Index, bars[1].Index)
	}

	items = []Item{
		lossItem("missing", nil),
		lossItem("nan", ptr(math.NaN())),
		{DisplayName: "cover only", Layers: []Layer{{Cover: ptr(10)}}},
		lossItem("kept", ptr(5)),
	}
	bars, err = PrepareLayers(items, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if len(bars) != 1 || bars[0].Name != "kept" {
		t.Errorf("bars = %+v, want only 'kept'", bars)
	}
}

func TestPrepareLayersLevels(t *testing.T) {
	items := []Item{
		lossItem("Expiring", ptr(1000)),
		lossItem("Exposure", ptr(1200)),
		lossItem("Flat", ptr(1200)),
		lossItem("Rate", ptr(900)),
		lossItem("Renewed", ptr(950)),
	}
	bars, err := PrepareLayers(items, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}

	want := []struct {
		start, end float64
		class      Class
	}{
		{0, 1000, ClassBase},
		{1000, 1200, ClassPositive},
		{1200 * 0.99, 1200, ClassPositive},
		{1200, 900, ClassNegative},
		{0, 950, ClassTotal},
	}
	if len(bars) != len(want) {
		t.Fatalf("got %d bars, want %d", len(bars), len(want))
	}
	for i, w := range want {
		b := bars[i]
		if b.Start != w.start || b.End != w.end || b.Class != w.class {
			t.Errorf("bar %d (%s) = {%v %v %s}, want {%v %v %s}",
				i, b.Name, b.Start, b.End, b.Class, w.start, w.end, w.class)
		}
		if b.LabelValue != b.Value {
			t.Errorf("bar %d LabelValue = %v, want source value %v", i, b.LabelValue, b.Value)
		}
	}
}

func TestPrepareLayersSliverLosesToLast(t *testing.T) {
	items := []Item{lossItem("a", ptr(500)), lossItem("b", ptr(500))}
	bars, err := PrepareLayers(items, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if bars[1].Start != 0 || bars[1].Class != ClassTotal {
		t.Errorf("last bar = %+v, want start 0 and class total", bars[1])
	}
}

func TestPrepareLayersSingleIsTotal(t *testing.T) {
	bars, err := PrepareLayers([]Item{lossItem("only", ptr(42))}, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Class != ClassTotal || bars[0].Start != 0 || bars[0].End != 42 {
		t.Errorf("bar = %+v, want total 0..42", bars[0])
	}
}

func TestPrepareLayersEmpty(t *testing.T) {
	bars, err := PrepareLayers(nil, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("got %d bars, want 0", len(bars))
	}

	bars, err = PrepareLayers([]Item{lossItem("z", ptr(0))}, 0, FieldLoss)
	if err != nil || len(bars) != 0 {
		t.Errorf("all-skipped input = %v, %v; want empty, nil", bars, err)
	}
}

func TestPrepareLayersSelectsLayerAndField(t *testing.T) {
	items := []Item{
		{DisplayName: "a", Layers: []Layer{{Loss: ptr(1)}, {Cover: ptr(300), Loss: ptr(2)}}},
		{DisplayName: "b", Layers: []Layer{{Loss: ptr(1)}, {Cover: ptr(250), Loss: ptr(2)}}},
	}
	bars, err := PrepareLayers(items, 1, FieldCover)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if bars[0].End != 300 || bars[1].End != 250 {
		t.Errorf("ends = %v, %v; want 300, 250", bars[0].End, bars[1].End)
	}
}

func TestPrepareLayersCarriesFields(t *testing.T) {
	items := []Item{{
		DisplayName: "Expiring",
		Layers:      []Layer{{Loss: ptr(10)}},
		Fields:      map[string]any{"currency": "USD", "ratingId": 3},
	}}
	bars, err := PrepareLayers(items, 0, FieldLoss)
	if err != nil {
		t.Fatalf("PrepareLayers() error: %v", err)
	}
	if bars[0].Fields["currency"] != "USD" || bars[0].Fields["ratingId"] != 3 {
		t.Errorf("Fields = %v", bars[0].Fields)
	}
}

func TestPrepareLayersInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		layer int
		field string
	}{
		{
			name:  "missing layers",
			items: []Item{lossItem("ok", ptr(1)), {DisplayName: "broken"}},
			field: FieldLoss,
		},
		{
			name:  "layer out of range",
			items: []Item{lossItem("ok", ptr(1))},
			layer: 1,
			field: FieldLoss,
		},
		{
			name:  "negative layer",
			items: []Item{lossItem("ok", ptr(1))},
			layer: -1,
			field: FieldLoss,
		},
		{
			name:  "unknown field",
			items: []Item{lossItem("ok", ptr(1))},
			field: "premium",
		},
		{
			name:  "infinite value",
			items: []Item{lossItem("ok", ptr(1)), lossItem("inf", ptr(math.Inf(1)))},
			field: FieldLoss,
		},
		{
			name:  "negative infinite value",
			items: []Item{lossItem("ninf", ptr(math.Inf(-1)))},
			field: FieldLoss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, err := PrepareLayers(tt.items, tt.layer, tt.field)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
			if bars != nil {
				t.Errorf("bars = %v, want nil on error", bars)
			}
		})
	}
}

func TestPrepareLayersEmptyLayersArray(t *testing.T) {
	// An empty (non-nil) layers array is structurally present, so the layer
	// index is simply out of range.
	_, err := PrepareLayers([]Item{{DisplayName: "x", Layers: []Layer{}}}, 0, FieldLoss)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestLayerValue(t *testing.T) {
	l := Layer{Attachment: ptr(1), Cover: ptr(2), Frequency: ptr(3)}
	for field, want := range map[string]float64{FieldAttachment: 1, FieldCover: 2, FieldFrequency: 3} {
		if got, ok := l.Value(field); !ok || got != want {
			t.Errorf("Value(%q) = %v, %v; want %v, true", field, got, ok, want)
		}
	}
	if _, ok := l.Value(FieldLoss); ok {
		t.Error("Value(loss) reported present for nil field")
	}
	if _, ok := l.Value("premium"); ok {
		t.Error("Value(premium) reported present for unknown field")
	}
}
