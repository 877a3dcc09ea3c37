package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

const (
	scaleStep  = 1.25
	aspectStep = 0.25
	minAspect  = 0.5
)

var (
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	previewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Command
// =============================================================================

type previewOpts struct {
	chart   chartFlags
	sheet   string
	once    bool
	columns int
}

// previewCommand creates the preview command: an interactive terminal
// rendering of a chart session.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Preview a bridge chart in the terminal",
		Long: `Preview draws the chart in the terminal and lets you change the layer,
value field, scale and aspect ratio interactively. Each change goes through
a chart session update, so unchanged bars are not redrawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := c.resolveChart(cmd, &opts.chart)
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), cmd.OutOrStdout(), args[0], resolved, &opts)
		},
	}

	opts.chart.register(cmd, true)
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet of an .xlsx input (default: first)")
	cmd.Flags().BoolVar(&opts.once, "once", false, "print the chart once and exit")
	cmd.Flags().IntVar(&opts.columns, "columns", defaultTermColumns, "chart width in terminal columns")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, w io.Writer, input string, resolved chart.Options, opts *previewOpts) error {
	// The TUI owns the terminal; session logs only go to a configured file.
	logger, closer := newServeLogger(io.Discard, c.Logger.GetLevel(), c.Config.Log)
	if closer != nil {
		defer closer.Close()
	}

	runner := pipeline.NewRunner(nil, nil, logger)
	data, err := runner.Import(pipeline.Options{Input: input, Sheet: opts.sheet}, resolved.Mode)
	if err != nil {
		return err
	}

	surf := newTermSurface(opts.columns)
	session, err := chart.New(surf, data, chart.PatchFrom(resolved), chart.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Dispose()
	if err := session.Redraw(); err != nil {
		return err
	}

	m := newPreviewModel(input, session, surf)
	if opts.once {
		_, err := fmt.Fprintln(w, m.View())
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(w)).Run()
	return err
}

// =============================================================================
// Model
// =============================================================================

// previewModel is the bubbletea model of the preview command. Every key that
// changes an option becomes one chart session update.
type previewModel struct {
	title   string
	session *chart.Session
	surface *termSurface

	status string
	err    error
}

func newPreviewModel(title string, s *chart.Session, surf *termSurface) previewModel {
	return previewModel{title: title, session: s, surface: surf, status: "ready"}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.surface.SetColumns(msg.Width)
	case tea.KeyMsg:
		o := m.session.Options()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			layer := o.LayerIndex + 1
			return m.apply(&chart.Patch{LayerIndex: &layer}, fmt.Sprintf("layer %d", layer)), nil
		case "left", "h":
			if o.LayerIndex == 0 {
				return m, nil
			}
			layer := o.LayerIndex - 1
			return m.apply(&chart.Patch{LayerIndex: &layer}, fmt.Sprintf("layer %d", layer)), nil
		case "f":
			field := nextField(o.ValueField)
			return m.apply(&chart.Patch{ValueField: &field}, "field "+field), nil
		case "s":
			scale := o.Scale * scaleStep
			return m.apply(&chart.Patch{Scale: &scale}, fmt.Sprintf("scale %.2f", scale)), nil
		case "S":
			scale := o.Scale / scaleStep
			return m.apply(&chart.Patch{Scale: &scale}, fmt.Sprintf("scale %.2f", scale)), nil
		case "+", "=":
			ratio := o.AspectRatio + aspectStep
			return m.apply(&chart.Patch{AspectRatio: &ratio}, fmt.Sprintf("aspect %.2f", ratio)), nil
		case "-":
			ratio := max(o.AspectRatio-aspectStep, minAspect)
			return m.apply(&chart.Patch{AspectRatio: &ratio}, fmt.Sprintf("aspect %.2f", ratio)), nil
		case "r":
			m.err = m.session.Redraw()
			m.status = "redrawn"
		}
	}
	return m, nil
}

// apply sends an options-only update to the session.
func (m previewModel) apply(p *chart.Patch, what string) previewModel {
	res, err := m.session.Update(nil, p)
	m.err = err
	switch {
	case err != nil:
		m.status = what + " rejected"
	case res.Resized:
		m.status = what + " · resized"
	case res.Redrawn:
		m.status = what + " · redrawn"
	default:
		m.status = what + " · unchanged"
	}
	return m
}

func (m previewModel) View() string {
	o := m.session.Options()
	w, h := m.session.Size()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %d bars · %.0fx%.0f", o.Mode, len(m.session.Bars()), w, h)))
	if o.Mode == bridge.ModeLayered {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · layer %d · %s", o.LayerIndex, o.ValueField)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.surface.String())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(previewErrorStyle.Render(iconError + " " + m.err.Error()))
	} else {
		b.WriteString(previewStatusStyle.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("←/→ layer  f field  s/S scale  +/- aspect  r redraw  q quit"))
	return b.String()
}

// nextField cycles through the selectable layer fields.
func nextField(current string) string {
	i := slices.Index(bridge.Fields, current)
	return bridge.Fields[(i+1)%len(bridge.Fields)]
}
