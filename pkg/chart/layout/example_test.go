package layout_test

import (
	"fmt"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
)

func ExampleBuild() {
	bars, _ := bridge.PrepareSteps([]bridge.Step{
		{Name: "Expiring", Value: 4500},
		{Name: "Exposure", Value: 750},
		{Name: "Rate", Value: -450},
	}, "Renewed")

	l := layout.Build(bars, layout.Frame{Width: 960, Height: 320})

	for _, b := range l.Blocks {
		fmt.Printf("%-8s x=%3.0f w=%.0f %s\n", b.Name, b.Left, b.Width(), b.Class)
	}
	fmt.Println("connectors:", len(l.Connectors))
	// Output:
	// Expiring x=150 w=54 base
	// Exposure x=352 w=54 positive
	// Rate     x=554 w=54 negative
	// Renewed  x=756 w=54 total
	// connectors: 3
}

func ExampleNiceTicks() {
	fmt.Println(layout.NiceTicks(0, 4800, 10))
	// Output:
	// [0 500 1000 1500 2000 2500 3000 3500 4000 4500]
}
