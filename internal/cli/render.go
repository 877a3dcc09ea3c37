package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chart    chartFlags
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats
	sheet    string   // worksheet of an .xlsx input
	title    string   // accessible SVG title
	pngScale float64  // raster zoom factor
	noCache  bool     // bypass the artifact cache
	refresh  bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command for generating chart files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{pngScale: render.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a bridge chart to SVG, JSON, PNG, PDF or Graphviz",
		Long: `Render reads a data file, lays out the bridge chart and writes one file per
requested format. Rendered artifacts are cached by content, so repeated
renders of unchanged data are served from the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			opts.formats = formats
			resolved, err := c.resolveChart(cmd, &opts.chart)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], resolved, &opts)
		},
	}

	opts.chart.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf, dot, flow (comma-separated)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet of an .xlsx input (default: first)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title embedded in SVG output")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, resolved chart.Options, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if slices.ContainsFunc(opts.formats, slowFormat) {
		spin = newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.formats, ", "))
		spin.Start()
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:    input,
		Sheet:    opts.sheet,
		Chart:    chart.PatchFrom(resolved),
		Formats:  opts.formats,
		Title:    opts.title,
		PNGScale: opts.pngScale,
		Refresh:  opts.refresh,
		Logger:   logger,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	logger.Debug("pipeline finished",
		"import", result.Stats.ImportTime, "layout", result.Stats.LayoutTime, "render", result.Stats.RenderTime)

	if opts.output == "-" {
		if len(opts.formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.formats))
		}
		_, err := os.Stdout.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
	}

	printSuccess("Rendered %s", input)
	fmt.Println(statsLine(result.Stats.Records, result.Stats.Bars, result.CacheInfo.RenderHit))
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	return nil
}

// slowFormat reports whether a format shells out or runs Graphviz.
func slowFormat(format string) bool {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatFlow:
		return true
	}
	return false
}

// extensions maps output formats to file suffixes.
var extensions = map[string]string{
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatJSON: ".json",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatPDF:  ".pdf",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatFlow: ".flow.svg",
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.HasSuffix(output, extensions[pipeline.FormatFlow]) {
		return strings.TrimSuffix(output, extensions[pipeline.FormatFlow])
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths returns the file each format is written to. A single format
// with an explicit output path is written exactly there.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + extensions[f]
	}
	return paths
}
