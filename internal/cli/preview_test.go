package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/errors"
)

func stepsData() bridge.Dataset {
	return bridge.Dataset{Steps: []bridge.Step{
		{Name: "Expiring", Value: 4500},
		{Name: "Exposure", Value: 750},
		{Name: "Rate", Value: -450},
	}}
}

func newTestSession(t *testing.T, data bridge.Dataset, patch *chart.Patch, cols int) (*chart.Session, *termSurface) {
	t.Helper()
	surf := newTermSurface(cols)
	s, err := chart.New(surf, data, patch)
	if err != nil {
		t.Fatalf("chart.New() error: %v", err)
	}
	t.Cleanup(s.Dispose)
	if err := s.Redraw(); err != nil {
		t.Fatalf("Redraw() error: %v", err)
	}
	return s, surf
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTermSurfaceDraw(t *testing.T) {
	_, surf := newTestSession(t, stepsData(), nil, 200)

	out := surf.String()
	for _, want := range []string{"█", "┄", "Expiring", "Total", "$5K", "┤"} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal chart missing %q:\n%s", want, out)
		}
	}
	cols, rows := surf.Grid()
	if cols != 200 || rows < minPlotRows+1 || rows > maxPlotRows+1 {
		t.Errorf("grid = %dx%d", cols, rows)
	}
	if surf.Allocations != 1 || surf.Draws != 1 {
		t.Errorf("allocations/draws = %d/%d, want 1/1", surf.Allocations, surf.Draws)
	}
}

func TestTermSurfaceLifecycle(t *testing.T) {
	surf := newTermSurface(0)
	if err := surf.Draw(chartLayout(t)); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Draw() before Allocate() = %v, want INVALID_STATE", err)
	}
	if err := surf.Allocate(0, 10); err == nil {
		t.Error("Allocate(0, 10) succeeded")
	}
	if err := surf.Allocate(1030, 370); err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if cols, _ := surf.Grid(); cols != defaultTermColumns {
		t.Errorf("default columns = %d, want %d", cols, defaultTermColumns)
	}
	if err := surf.Draw(chartLayout(t)); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	surf.SetColumns(120)
	if cols, _ := surf.Grid(); cols != 120 {
		t.Errorf("columns after SetColumns = %d, want 120", cols)
	}
	if !strings.Contains(surf.String(), "█") {
		t.Error("SetColumns() dropped the drawn chart")
	}

	surf.Clear()
	if strings.Contains(surf.String(), "█") {
		t.Error("Clear() kept bars")
	}

	surf.Detach()
	if surf.String() != "" {
		t.Error("detached surface still renders")
	}
	if err := surf.Allocate(10, 10); err == nil {
		t.Error("Allocate() after Detach() succeeded")
	}
}

func chartLayout(t *testing.T) layout.Layout {
	t.Helper()
	s, _ := newTestSession(t, stepsData(), nil, 80)
	return s.Layout()
}

func TestPreviewModelKeys(t *testing.T) {
	s, surf := newTestSession(t, stepsData(), nil, 100)
	m := newPreviewModel("q3.csv", s, surf)

	// Delta bars do not depend on the layer field.
	next, _ := m.Update(key("f"))
	m = next.(previewModel)
	if s.Options().ValueField != bridge.FieldAttachment {
		t.Errorf("ValueField = %q, want %q", s.Options().ValueField, bridge.FieldAttachment)
	}
	if !strings.Contains(m.status, "unchanged") {
		t.Errorf("status = %q, want unchanged", m.status)
	}

	// Scale is applied, but equal bars leave the surface alone.
	next, _ = m.Update(key("s"))
	m = next.(previewModel)
	if got := s.Options().Scale; got != chart.DefaultScale*scaleStep {
		t.Errorf("Scale = %v, want %v", got, chart.DefaultScale*scaleStep)
	}
	if !strings.Contains(m.status, "unchanged") || surf.Allocations != 1 {
		t.Errorf("status = %q, allocations = %d; want unchanged, 1", m.status, surf.Allocations)
	}

	next, _ = m.Update(key("-"))
	m = next.(previewModel)
	if got := s.Options().AspectRatio; got != chart.DefaultAspectRatio-aspectStep {
		t.Errorf("AspectRatio = %v", got)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = next.(previewModel)
	if cols, _ := surf.Grid(); cols != 140 {
		t.Errorf("columns = %d after resize, want 140", cols)
	}

	view := m.View()
	for _, want := range []string{"q3.csv", "delta", "4 bars", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q did not quit")
	}
}

func TestPreviewModelLayers(t *testing.T) {
	data := bridge.Dataset{Items: []bridge.Item{
		{DisplayName: "Expiring", Layers: []bridge.Layer{{Loss: ptr(1000.0)}, {Loss: ptr(400.0)}}},
		{DisplayName: "Renewed", Layers: []bridge.Layer{{Loss: ptr(1200.0)}}},
	}}
	mode := bridge.ModeLayered
	s, surf := newTestSession(t, data, &chart.Patch{Mode: &mode}, 100)
	m := newPreviewModel("programme.json", s, surf)

	// Layer 1 is missing on the second item, so the update is rejected
	// and the session keeps drawing layer 0.
	next, _ := m.Update(key("right"))
	m = next.(previewModel)
	if m.err == nil || !strings.Contains(m.status, "rejected") {
		t.Errorf("status = %q, err = %v; want rejection", m.status, m.err)
	}
	if s.Options().LayerIndex != 0 || len(s.Bars()) != 2 {
		t.Errorf("session changed after a rejected update: layer %d, %d bars", s.Options().LayerIndex, len(s.Bars()))
	}
	if !strings.Contains(m.View(), "layer 0") {
		t.Error("View() does not show the current layer")
	}

	// Left at layer 0 is a no-op.
	before := s.Stats().Updates
	m.Update(key("left"))
	if s.Stats().Updates != before {
		t.Error("left at layer 0 issued an update")
	}
}

func TestNextField(t *testing.T) {
	seen := map[string]bool{}
	f := bridge.FieldLoss
	for range bridge.Fields {
		f = nextField(f)
		seen[f] = true
	}
	if len(seen) != len(bridge.Fields) {
		t.Errorf("nextField visited %d fields, want %d", len(seen), len(bridge.Fields))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Expiring", 10, "Expiring"},
		{"Expiring", 4, "Exp…"},
		{"Expiring", 1, "E"},
		{"Expiring", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
