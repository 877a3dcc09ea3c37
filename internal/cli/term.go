package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/errors"
)

const (
	defaultTermColumns = 80
	minTermColumns     = 20
	termGutter         = 8 // y-axis tick text plus the axis line
	minPlotRows        = 4
	maxPlotRows        = 40
	// cellAspect is how much taller a terminal cell is than it is wide.
	cellAspect = 2.0
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBar
	cellConnector
	cellAxis
	cellText
)

type cell struct {
	r     rune
	kind  cellKind
	class bridge.Class
}

// termSurface is a chart.Surface that draws into a character grid. The
// allocated pixel size only sets the grid's aspect ratio; its width follows
// the terminal.
type termSurface struct {
	columns int
	width   float64
	height  float64

	plotCols, plotRows int
	grid               [][]cell
	drawn              *layout.Layout

	allocated, detached bool

	Allocations, Clears, Draws int
}

func newTermSurface(columns int) *termSurface {
	if columns <= 0 {
		columns = defaultTermColumns
	}
	return &termSurface{columns: max(columns, minTermColumns)}
}

func (s *termSurface) Allocate(width, height float64) error {
	if s.detached {
		return errors.New(errors.ErrCodeInvalidState, "terminal surface detached")
	}
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid surface size %vx%v", width, height)
	}
	s.width, s.height = width, height
	s.allocated = true
	s.drawn = nil
	s.resize()
	s.Allocations++
	return nil
}

func (s *termSurface) Clear() {
	s.drawn = nil
	s.reset()
	s.Clears++
}

func (s *termSurface) Draw(l layout.Layout) error {
	switch {
	case s.detached:
		return errors.New(errors.ErrCodeInvalidState, "terminal surface detached")
	case !s.allocated:
		return errors.New(errors.ErrCodeInvalidState, "terminal surface not allocated")
	}
	s.drawn = &l
	s.paint()
	s.Draws++
	return nil
}

func (s *termSurface) Detach() {
	s.detached = true
	s.drawn = nil
	s.grid = nil
}

// SetColumns adapts the grid to a new terminal width and repaints whatever
// was drawn. It is not a surface operation of the session.
func (s *termSurface) SetColumns(n int) {
	s.columns = max(n, minTermColumns)
	if !s.allocated || s.detached {
		return
	}
	s.resize()
	if s.drawn != nil {
		s.paint()
	}
}

func (s *termSurface) resize() {
	s.plotCols = s.columns - termGutter
	rows := math.Round(float64(s.plotCols) * s.height / s.width / cellAspect)
	s.plotRows = int(min(max(rows, minPlotRows), maxPlotRows))
	s.reset()
}

// reset blanks the grid: plot rows plus one row of bar names.
func (s *termSurface) reset() {
	s.grid = make([][]cell, s.plotRows+1)
	for i := range s.grid {
		s.grid[i] = make([]cell, s.columns)
	}
}

func (s *termSurface) paint() {
	s.reset()
	l := *s.drawn
	if l.Frame.Width <= 0 || l.Frame.Height <= 0 {
		return
	}
	sx := float64(s.plotCols) / l.Frame.Width
	sy := float64(s.plotRows) / l.Frame.Height
	col := func(x float64) int { return termGutter + clamp(int(x*sx), 0, s.plotCols-1) }
	row := func(y float64) int { return clamp(int(y*sy), 0, s.plotRows-1) }

	for r := 0; r < s.plotRows; r++ {
		s.set(r, termGutter-1, cell{r: '│', kind: cellAxis})
	}
	for _, t := range l.YTicks {
		r := row(t.Pos)
		s.set(r, termGutter-1, cell{r: '┤', kind: cellAxis})
		s.write(r, termGutter-2-len([]rune(t.Text))+1, t.Text, cellAxis, false)
	}

	for _, b := range l.Blocks {
		c0, c1 := col(b.Left), max(col(b.Left), termGutter+clamp(int(math.Ceil(b.Right*sx))-1, 0, s.plotCols-1))
		r0, r1 := row(b.Top), max(row(b.Top), clamp(int(math.Ceil(b.Bottom*sy))-1, 0, s.plotRows-1))
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				s.set(r, c, cell{r: '█', kind: cellBar, class: b.Class})
			}
		}
		name := truncate(b.Name, c1-c0+1)
		s.write(s.plotRows, (c0+c1+1)/2-len([]rune(name))/2, name, cellText, true)
	}

	for _, cn := range l.Connectors {
		r := row(cn.Y)
		for c := col(cn.X1); c <= col(cn.X2); c++ {
			if s.grid[r][c].kind == cellEmpty {
				s.set(r, c, cell{r: '┄', kind: cellConnector})
			}
		}
	}

	for _, lb := range l.Labels {
		r := row(lb.Y)
		if lb.Above {
			r--
		} else {
			r++
		}
		if r < 0 || r >= s.plotRows {
			continue
		}
		s.write(r, col(lb.X)-len([]rune(lb.Text))/2, lb.Text, cellText, false)
	}
}

func (s *termSurface) set(r, c int, v cell) {
	if r < 0 || r >= len(s.grid) || c < 0 || c >= s.columns {
		return
	}
	s.grid[r][c] = v
}

// write places text starting at column c. Unless force is set, it only
// fills empty cells, so labels never cut through bars.
func (s *termSurface) write(r, c int, text string, kind cellKind, force bool) {
	for i, ch := range []rune(text) {
		cc := c + i
		if cc < 0 || cc >= s.columns || r < 0 || r >= len(s.grid) {
			continue
		}
		if !force && s.grid[r][cc].kind != cellEmpty && s.grid[r][cc].kind != cellConnector {
			continue
		}
		s.grid[r][cc] = cell{r: ch, kind: kind}
	}
}

var (
	styleTermAxis      = lipgloss.NewStyle().Foreground(colorDim)
	styleTermConnector = lipgloss.NewStyle().Foreground(colorDim)
	styleTermText      = lipgloss.NewStyle().Foreground(colorWhite)
)

func (c cell) style() lipgloss.Style {
	switch c.kind {
	case cellBar:
		return classStyle(c.class)
	case cellConnector:
		return styleTermConnector
	case cellAxis:
		return styleTermAxis
	case cellText:
		return styleTermText
	}
	return lipgloss.NewStyle()
}

// String renders the grid. Runs of equally styled cells share one style
// call.
func (s *termSurface) String() string {
	if !s.allocated || s.detached {
		return ""
	}
	var b strings.Builder
	for i, line := range s.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for start < len(line) {
			end := start + 1
			for end < len(line) && line[end].kind == line[start].kind && line[end].class == line[start].class {
				end++
			}
			var run strings.Builder
			for _, c := range line[start:end] {
				if c.r == 0 {
					run.WriteByte(' ')
				} else {
					run.WriteRune(c.r)
				}
			}
			b.WriteString(line[start].style().Render(run.String()))
			start = end
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Size returns the allocated pixel size.
func (s *termSurface) Size() (width, height float64) { return s.width, s.height }

// Grid returns the grid dimensions in cells.
func (s *termSurface) Grid() (cols, rows int) { return s.columns, len(s.grid) }

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-1]) + "…"
}
