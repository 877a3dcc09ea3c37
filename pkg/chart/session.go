package chart

import (
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tiendc/go-deepcopy"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/chart/layout"
	"github.com/matzehuels/waterfall/pkg/errors"
)

// State is the lifecycle state of a [Session].
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	}
	return "uninitialized"
}

// Surface is the rendering target owned by a session.
type Surface interface {
	// Allocate (re)creates the surface at the given outer size.
	Allocate(width, height float64) error
	// Clear removes everything previously drawn.
	Clear()
	// Draw renders a layout onto the surface.
	Draw(l layout.Layout) error
	// Detach releases the surface. No calls follow.
	Detach()
}

// UpdateResult reports what an [Session.Update] did to the surface.
type UpdateResult struct {
	Redrawn bool `json:"redrawn"`
	Resized bool `json:"resized"`
}

// Stats counts surface operations performed by a session.
type Stats struct {
	Allocations int `json:"allocations"`
	Clears      int `json:"clears"`
	Draws       int `json:"draws"`
	Updates     int `json:"updates"`
	Skipped     int `json:"skipped"` // updates that left the surface untouched
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithMergeMode selects how option patches merge the margin
// (default [MergeShallow]).
func WithMergeMode(m MergeMode) SessionOption { return func(s *Session) { s.merge = m } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) SessionOption { return func(s *Session) { s.logger = l } }

// Session holds the current data and options of one chart and keeps its
// surface in sync with them. A Session is single-owner: it must not be used
// from multiple goroutines at once.
type Session struct {
	surface Surface
	state   State
	merge   MergeMode
	logger  *log.Logger

	data   bridge.Dataset
	opts   Options
	// allocated holds the options the surface was last allocated for. It
	// trails opts after an update that changed only scale or aspect ratio.
	allocated Options
	bars   []bridge.Bar
	layout layout.Layout
	stats  Stats
}

// New merges patch over [DefaultOptions], validates the result, prepares
// data and allocates the surface. The returned session is ready but has not
// drawn anything yet; call [Session.Redraw].
func New(surface Surface, data bridge.Dataset, patch *Patch, opts ...SessionOption) (*Session, error) {
	if surface == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "surface is required")
	}
	s := &Session{
		surface: surface,
		merge:   MergeShallow,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	o, err := s.resolve(DefaultOptions(), patch)
	if err != nil {
		return nil, err
	}
	owned, err := copyDataset(data)
	if err != nil {
		return nil, err
	}
	bars, err := bridge.Prepare(owned, o.EngineConfig())
	if err != nil {
		return nil, err
	}

	if err := s.allocate(o); err != nil {
		return nil, err
	}
	s.data, s.opts, s.bars = owned, o, bars
	s.state = StateReady
	s.logger.Debug("chart session created", "bars", len(bars), "width", o.Width, "height", o.Height)
	return s, nil
}

// Redraw clears the surface and draws the current bars. It never
// reallocates the surface.
func (s *Session) Redraw() error {
	if err := s.ready("redraw"); err != nil {
		return err
	}
	return s.draw(s.bars, s.opts)
}

// Update merges patch over the current options and re-prepares data (or the
// current data when data is nil).
//
// The update is atomic: on any error the session keeps its previous data,
// options and bars. When the prepared bars are structurally equal to the
// previous ones the surface is not touched at all. Otherwise the surface is
// reallocated if AspectRatio or Scale differ from the ones it was allocated
// for, then cleared and redrawn. An options-only change with equal bars is
// therefore applied to the surface on the next update that redraws.
func (s *Session) Update(data *bridge.Dataset, patch *Patch) (UpdateResult, error) {
	if err := s.ready("update"); err != nil {
		return UpdateResult{}, err
	}

	next, err := s.resolve(s.opts, patch)
	if err != nil {
		return UpdateResult{}, err
	}
	nextData := s.data
	if data != nil {
		if nextData, err = copyDataset(*data); err != nil {
			return UpdateResult{}, err
		}
	}
	bars, err := bridge.Prepare(nextData, next.EngineConfig())
	if err != nil {
		return UpdateResult{}, err
	}

	var res UpdateResult
	if !bridge.Equal(s.bars, bars) {
		if s.allocated.needsResize(next) {
			if err := s.allocate(next); err != nil {
				return UpdateResult{}, err
			}
			res.Resized = true
		}
		if err := s.draw(bars, next); err != nil {
			return UpdateResult{}, err
		}
		res.Redrawn = true
	} else {
		s.stats.Skipped++
	}

	s.data, s.opts, s.bars = nextData, next, bars
	s.stats.Updates++
	s.logger.Debug("chart session updated", "redrawn", res.Redrawn, "resized", res.Resized, "bars", len(bars))
	return res, nil
}

// Dispose detaches the surface. Later Redraw and Update calls fail with
// INVALID_STATE. Disposing twice is a no-op.
func (s *Session) Dispose() {
	if s.state == StateDisposed {
		return
	}
	s.surface.Detach()
	s.state = StateDisposed
	s.logger.Debug("chart session disposed", "draws", s.stats.Draws)
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Options returns the current options.
func (s *Session) Options() Options { return s.opts }

// Size returns the outer surface size.
func (s *Session) Size() (width, height float64) { return s.opts.OuterSize() }

// Bars returns a copy of the current prepared bars.
func (s *Session) Bars() []bridge.Bar {
	out := slices.Clone(s.bars)
	for i := range out {
		out[i].Fields = maps.Clone(out[i].Fields)
	}
	return out
}

// Data returns a copy of the current input data.
func (s *Session) Data() bridge.Dataset {
	d, _ := copyDataset(s.data)
	return d
}

// Layout returns the most recently drawn layout, or the zero Layout when
// nothing has been drawn.
func (s *Session) Layout() layout.Layout { return s.layout }

// Stats returns the surface operation counters.
func (s *Session) Stats() Stats { return s.stats }

func (s *Session) ready(op string) error {
	if s.state != StateReady {
		return errors.New(errors.ErrCodeInvalidState, "cannot %s a %s chart session", op, s.state)
	}
	return nil
}

func (s *Session) resolve(base Options, patch *Patch) (Options, error) {
	o := patch.Apply(base, s.merge)
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	o.Mode, _ = bridge.ParseMode(string(o.Mode))
	return o, nil
}

func (s *Session) allocate(o Options) error {
	w, h := o.OuterSize()
	if err := s.surface.Allocate(w, h); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "allocate %.0fx%.0f surface", w, h)
	}
	s.allocated = o
	s.stats.Allocations++
	return nil
}

func (s *Session) draw(bars []bridge.Bar, o Options) error {
	l := layout.Build(bars, o.Frame(), o.LayoutOptions()...)
	s.surface.Clear()
	s.stats.Clears++
	if err := s.surface.Draw(l); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "draw %d bars", len(bars))
	}
	s.layout = l
	s.stats.Draws++
	return nil
}

func copyDataset(d bridge.Dataset) (bridge.Dataset, error) {
	var out bridge.Dataset
	if err := deepcopy.Copy(&out, &d); err != nil {
		return bridge.Dataset{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "copy chart data")
	}
	return out, nil
}
