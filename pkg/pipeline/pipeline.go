// Package pipeline runs the import → layout → render flow for waterfall
// charts.
//
// The CLI and the HTTP server share this package so that both produce the
// same artifacts for the same inputs and share one cache layout.
//
// # Stages
//
//  1. Import: read the input file (or take an in-memory dataset)
//  2. Layout: create a chart session on an in-memory SVG surface and draw it
//  3. Render: produce each requested format from the drawn layout
//
// Artifacts are cached per format under a key derived from the dataset hash
// and the resolved chart options, so a repeated run with the same inputs
// skips rendering entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "bridge.csv",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("bridge.svg", result.Artifacts["svg"], 0o644)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/render"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	// FormatDOT is the Graphviz source of the step chain diagram.
	FormatDOT = "dot"
	// FormatFlow is the step chain diagram rendered to SVG.
	FormatFlow = "flow"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF, FormatDOT, FormatFlow}

// DefaultStyle is the only bar style shipped.
const DefaultStyle = "simple"

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Options configures a pipeline run.
type Options struct {
	// Input is the path of a .json, .toml, .csv or .xlsx file. It is
	// ignored when Data is set.
	Input string `json:"input,omitempty"`
	// Sheet selects the worksheet of an .xlsx input; empty is the first.
	Sheet string `json:"sheet,omitempty"`
	// Data is an in-memory dataset used instead of Input.
	Data *bridge.Dataset `json:"data,omitempty"`

	// Chart overrides the default chart options.
	Chart *chart.Patch `json:"chart,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Title   string   `json:"title,omitempty"`
	// PNGScale is the raster zoom factor (default render.DefaultPNGScale).
	PNGScale float64 `json:"png_scale,omitempty"`

	// Refresh re-renders and overwrites cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the imported dataset.
	Data bridge.Dataset
	// DataHash is the content hash of Data.
	DataHash string
	// Chart is the resolved chart configuration.
	Chart chart.Options
	// Bars are the prepared bars.
	Bars []bridge.Bar
	// Layout is the drawn chart geometry.
	Layout layout.Layout
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	Bars       int
	ImportTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache use per format.
type CacheInfo struct {
	// Hits lists the formats served from cache.
	Hits []string
	// RenderHit is true when every requested format came from cache.
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Data == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input path or data is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Style != DefaultStyle {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid style: %q (must be %s)", o.Style, DefaultStyle)
	}
	if o.PNGScale == 0 {
		o.PNGScale = render.DefaultPNGScale
	}
	if err := errors.ValidatePositive("png_scale", o.PNGScale); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Mode returns the input mode requested by the chart patch.
func (o *Options) Mode() (bridge.Mode, error) {
	if o.Chart == nil || o.Chart.Mode == nil {
		return chart.DefaultMode, nil
	}
	m, err := bridge.ParseMode(string(*o.Chart.Mode))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidOptions, err, "mode")
	}
	return m, nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string, resolved chart.Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: o.Style, Options: resolved}
	if format == FormatPNG {
		k.Scale = o.PNGScale
	}
	if format == FormatSVG || format == FormatPNG || format == FormatPDF {
		k.Options = struct {
			chart.Options
			Title string `json:"title,omitempty"`
		}{resolved, o.Title}
	}
	return k
}

func (o *Options) source() string {
	if o.Data != nil {
		return "<data>"
	}
	return o.Input
}
