package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/buildinfo"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/sink"
	"github.com/matzehuels/waterfall/pkg/errors"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// chartRequest is the body of prepare, render, create and update calls.
// Data holds the same document shapes accepted by JSON input files.
type chartRequest struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Options *chart.Patch    `json:"options,omitempty"`
	Title   string          `json:"title,omitempty"`
}

type chartSummary struct {
	ID      string         `json:"id"`
	State   string         `json:"state"`
	Created time.Time      `json:"created"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Options *chart.Options `json:"options,omitempty"`
	Bars    []bridge.Bar   `json:"bars,omitempty"`
	Stats   *chart.Stats   `json:"stats,omitempty"`
}

type updateResponse struct {
	Redrawn bool    `json:"redrawn"`
	Resized bool    `json:"resized"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatFlow: "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (chartRequest, error) {
	var req chartRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return req, nil
}

// dataset decodes the request data for mode. ok is false when the request
// carries no data.
func (req chartRequest) dataset(mode bridge.Mode) (data bridge.Dataset, ok bool, err error) {
	raw := bytes.TrimSpace(req.Data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return bridge.Dataset{}, false, nil
	}
	data, err = wio.ReadJSON(bytes.NewReader(raw), mode)
	return data, err == nil, err
}

// resolve merges a patch over the defaults the same way a new session does.
func (s *Server) resolve(patch *chart.Patch) (chart.Options, error) {
	o := patch.Apply(chart.DefaultOptions(), s.cfg.MergeMode)
	if err := o.Validate(); err != nil {
		return chart.Options{}, err
	}
	o.Mode, _ = bridge.ParseMode(string(o.Mode))
	return o, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.resolve(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, _, err := req.dataset(o.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	bars, hit, err := s.runner.Prepare(r.Context(), data, o.EngineConfig())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bars == nil {
		bars = []bridge.Bar{}
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, map[string]any{"mode": o.Mode, "bars": bars})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.resolve(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, _, err := req.dataset(o.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Data:    &data,
		Chart:   req.Options,
		Formats: []string{format},
		Title:   req.Title,
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	_, _ = w.Write(res.Artifacts[format])
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	o, err := s.resolve(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, _, err := req.dataset(o.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	surf := sink.NewSVGSurface(sink.WithTitle(req.Title))
	sess, err := chart.New(surf, data, req.Options, chart.WithMergeMode(s.cfg.MergeMode), chart.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Redraw(); err != nil {
		sess.Dispose()
		s.writeError(w, r, err)
		return
	}
	e := s.registry.add(sess, surf)
	width, height := sess.Size()
	s.logger.Debug("chart created", "id", e.id, "bars", len(sess.Bars()))
	writeJSON(w, http.StatusCreated, chartSummary{
		ID: e.id, State: sess.State().String(), Created: e.created, Width: width, Height: height,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.registry.with(id, func(e *entry) error {
		width, height := e.session.Size()
		o, stats := e.session.Options(), e.session.Stats()
		writeJSON(w, http.StatusOK, chartSummary{
			ID: e.id, State: e.session.State().String(), Created: e.created,
			Width: width, Height: height, Options: &o, Bars: e.session.Bars(), Stats: &stats,
		})
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	err = s.registry.with(id, func(e *entry) error {
		mode := e.session.Options().Mode
		if req.Options != nil && req.Options.Mode != nil {
			m, err := bridge.ParseMode(string(*req.Options.Mode))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidOptions, err, "mode")
			}
			mode = m
		}
		data, ok, err := req.dataset(mode)
		if err != nil {
			return err
		}
		var dp *bridge.Dataset
		if ok {
			dp = &data
		}
		res, err := e.session.Update(dp, req.Options)
		if err != nil {
			return err
		}
		width, height := e.session.Size()
		writeJSON(w, http.StatusOK, updateResponse{Redrawn: res.Redrawn, Resized: res.Resized, Width: width, Height: height})
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	err := s.registry.with(chi.URLParam(r, "id"), func(e *entry) error {
		w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
		_, _ = w.Write(e.surface.Bytes())
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	err := s.registry.with(chi.URLParam(r, "id"), func(e *entry) error {
		data, err := sink.RenderJSON(e.session.Layout(), e.session.Bars(),
			sink.WithJSONStyle(pipeline.DefaultStyle), sink.WithJSONMode(e.session.Options().Mode))
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", contentTypes[pipeline.FormatJSON])
		_, _ = w.Write(data)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
