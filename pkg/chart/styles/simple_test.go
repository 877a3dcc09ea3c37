package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf)

	out := buf.String()
	for _, want := range []string{"<style>", ".waterfall__bar--negative", "</style>"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDefs() missing %q", want)
		}
	}
}

func TestSimpleRenderBar(t *testing.T) {
	tests := []struct {
		name     string
		bar      Bar
		contains []string
	}{
		{
			name: "positive bar",
			bar: Bar{
				ID: "bar-1", Name: "Exposure", Class: bridge.ClassPositive,
				X: 10, Y: 20, W: 54, H: 50,
			},
			contains: []string{
				`id="bar-1"`,
				`class="waterfall__bar waterfall__bar--positive"`,
				`<title>Exposure</title>`,
				`x="10.00"`,
				`y="20.00"`,
				`width="54.00"`,
				`height="50.00"`,
				`fill="#2e8b57"`,
			},
		},
		{
			name: "special chars in name",
			bar:  Bar{ID: "bar-0", Name: "R&D <net>", Class: bridge.ClassBase},
			contains: []string{
				`<title>R&amp;D &lt;net&gt;</title>`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Simple{}.RenderBar(&buf, tt.bar)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("RenderBar() output missing %q\nGot: %s", want, out)
				}
			}
		})
	}
}

func TestSimpleRenderConnector(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderConnector(&buf, layout.Connector{X1: 209, X2: 347, Y: 45.5})

	out := buf.String()
	for _, want := range []string{`class="waterfall__connector"`, `x1="209.00"`, `x2="347.00"`, `y1="45.50"`, `y2="45.50"`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderConnector() missing %q\nGot: %s", want, out)
		}
	}
}

func TestSimpleRenderLabel(t *testing.T) {
	tests := []struct {
		above bool
		dy    string
	}{
		{true, `dy="-.75em"`},
		{false, `dy=".75em"`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		Simple{}.RenderLabel(&buf, layout.Label{Text: "$-450", X: 581, Y: 80, Above: tt.above})
		out := buf.String()
		if !strings.Contains(out, tt.dy) || !strings.Contains(out, ">$-450</text>") {
			t.Errorf("RenderLabel(above=%v) = %s", tt.above, out)
		}
	}
}

func TestSimpleRenderAxes(t *testing.T) {
	ticks := []layout.Tick{{Value: 0, Pos: 320, Text: "$0"}, {Value: 500, Pos: 289.5, Text: "$500"}}

	var buf bytes.Buffer
	Simple{}.RenderYAxis(&buf, ticks, 960)
	out := buf.String()
	if !strings.Contains(out, "waterfall__axis--y") || !strings.Contains(out, `x2="960.00"`) || strings.Count(out, `class="tick"`) != 2 {
		t.Errorf("RenderYAxis() = %s", out)
	}

	buf.Reset()
	Simple{}.RenderXAxis(&buf, []layout.Tick{{Pos: 177, Text: "A&B"}}, 320)
	out = buf.String()
	if !strings.Contains(out, `translate(0,320.00)`) || !strings.Contains(out, "A&amp;B") {
		t.Errorf("RenderXAxis() = %s", out)
	}
}

func TestBarFromBlock(t *testing.T) {
	b := BarFromBlock(layout.Block{Index: 3, Name: "Total", Class: bridge.ClassTotal, Left: 756, Right: 810, Top: 27, Bottom: 320})
	want := Bar{ID: "bar-3", Name: "Total", Class: bridge.ClassTotal, X: 756, Y: 27, W: 54, H: 293}
	if b != want {
		t.Errorf("BarFromBlock() = %+v, want %+v", b, want)
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"a<b", "a&lt;b"},
		{`"quoted"`, "&#34;quoted&#34;"},
		{"R&D", "R&amp;D"},
	}
	for _, tt := range tests {
		if got := EscapeXML(tt.in); got != tt.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
