package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// chartFlags binds the chart option flags shared by prepare, render and
// preview. Only flags the user actually set override the configuration.
type chartFlags struct {
	mode        string
	layer       int
	field       string
	totalLabel  string
	currency    string
	scale       float64
	aspectRatio float64
	barPadding  float64
}

func (f *chartFlags) register(cmd *cobra.Command, geometry bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.mode, "mode", "m", string(chart.DefaultMode), "input mode: delta or layered")
	fs.IntVar(&f.layer, "layer", chart.DefaultLayerIndex, "layer index (layered mode)")
	fs.StringVar(&f.field, "field", chart.DefaultValueField, "layer value field: attachment, cover, frequency, loss")
	fs.StringVar(&f.totalLabel, "total-label", bridge.DefaultTotalLabel, "name of the synthetic total bar (delta mode)")
	fs.StringVar(&f.currency, "currency", chart.DefaultCurrency, "label currency prefix")
	if geometry {
		fs.Float64Var(&f.scale, "scale", chart.DefaultScale, "chart scale (plot width = 100 x scale)")
		fs.Float64Var(&f.aspectRatio, "aspect-ratio", chart.DefaultAspectRatio, "plot width / height")
		fs.Float64Var(&f.barPadding, "bar-padding", chart.DefaultBarPadding, "band padding in [0, 1]")
	}
}

// patch returns the options set on the command line.
func (f *chartFlags) patch(cmd *cobra.Command) (*chart.Patch, error) {
	fs := cmd.Flags()
	p := &chart.Patch{}
	if fs.Changed("mode") {
		m, err := bridge.ParseMode(f.mode)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "--mode")
		}
		p.Mode = &m
	}
	if fs.Changed("layer") {
		p.LayerIndex = &f.layer
	}
	if fs.Changed("field") {
		p.ValueField = &f.field
	}
	if fs.Changed("total-label") {
		p.TotalLabel = &f.totalLabel
	}
	if fs.Changed("currency") {
		p.Currency = &f.currency
	}
	if fs.Changed("scale") {
		p.Scale = &f.scale
	}
	if fs.Changed("aspect-ratio") {
		p.AspectRatio = &f.aspectRatio
	}
	if fs.Changed("bar-padding") {
		p.BarPadding = &f.barPadding
	}
	return p, nil
}

// resolveChart layers the command-line options over the configured ones and
// validates the result.
func (c *CLI) resolveChart(cmd *cobra.Command, f *chartFlags) (chart.Options, error) {
	p, err := f.patch(cmd)
	if err != nil {
		return chart.Options{}, err
	}
	opts := p.Apply(c.Config.Chart, chart.MergeShallow)
	if err := opts.Validate(); err != nil {
		return chart.Options{}, err
	}
	return opts, nil
}
