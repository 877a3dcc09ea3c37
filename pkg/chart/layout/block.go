package layout

import (
	"encoding/json"

	"github.com/matzehuels/waterfall/pkg/bridge"
)

// Block represents a single bar rectangle in plot coordinates.
// Top is the upper screen edge, so Top <= Bottom.
type Block struct {
	Index       int
	Name        string
	Class       bridge.Class
	Left, Right float64
	Top, Bottom float64
}

type jsonBlock struct {
	Index  int          `json:"index"`
	Name   string       `json:"name"`
	Class  bridge.Class `json:"class"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonBlock{
		Index:  b.Index,
		Name:   b.Name,
		Class:  b.Class,
		X:      b.Left,
		Y:      b.Top,
		Width:  b.Width(),
		Height: b.Height(),
	})
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Bottom + b.Top) / 2 }

// Label is the value text drawn for one bar.
type Label struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	// Above places the text baseline above Y (shifted up by 0.75em);
	// otherwise it hangs below Y. Only negative bars hang below.
	Above bool `json:"above"`
}

// Connector is the horizontal line joining a bar's end level to the next
// bar slot.
type Connector struct {
	From int     `json:"from"`
	X1   float64 `json:"x1"`
	X2   float64 `json:"x2"`
	Y    float64 `json:"y"`
}

// Length returns the horizontal length of the connector.
func (c Connector) Length() float64 { return c.X2 - c.X1 }

// Tick is one axis tick: a position along the axis and its text.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Text  string  `json:"text"`
}
