package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

const stepsBody = `{"data": [{"name": "Expiring", "value": 4500}, {"name": "Exposure", "value": 750}, {"name": "Rate", "value": -450}]}`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{}, nil, log.NewWithOptions(io.Discard, log.Options{}))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Registry().Close()
	})
	return s, ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", data, err)
	}
	return v
}

func createChart(t *testing.T, ts *httptest.Server, body string) chartSummary {
	t.Helper()
	resp, data := do(t, http.MethodPost, ts.URL+"/v1/charts", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, data)
	}
	return decodeJSON[chartSummary](t, data)
}

func TestHealthAndVersion(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}
	resp, data := do(t, http.MethodGet, ts.URL+"/v1/version", "")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(data, []byte(`"version"`)) {
		t.Errorf("version = %d %s", resp.StatusCode, data)
	}
}

func TestPrepare(t *testing.T) {
	_, ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/prepare", stepsBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	out := decodeJSON[struct {
		Mode string `json:"mode"`
		Bars []struct {
			Name  string  `json:"name"`
			End   float64 `json:"end"`
			Class string  `json:"class"`
		} `json:"bars"`
	}](t, data)
	if out.Mode != "delta" || len(out.Bars) != 4 || out.Bars[3].End != 4800 || out.Bars[3].Class != "total" {
		t.Errorf("prepare = %+v", out)
	}
}

func TestPrepareCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{}, pipeline.NewRunner(fc, nil, logger), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Registry().Close()
	})

	resp, first := do(t, http.MethodPost, ts.URL+"/v1/prepare", stepsBody)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Cache") != "MISS" {
		t.Fatalf("first prepare = %d X-Cache %q", resp.StatusCode, resp.Header.Get("X-Cache"))
	}
	resp, second := do(t, http.MethodPost, ts.URL+"/v1/prepare", stepsBody)
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second prepare X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}
	if !bytes.Equal(first, second) {
		t.Errorf("cached response differs:\n%s\n%s", first, second)
	}
}

func TestPrepareLayered(t *testing.T) {
	_, ts := newTestServer(t)

	body := `{"options": {"mode": "layered"}, "data": [
		{"displayName": "Gross", "layers": [{"loss": 5000}]},
		{"displayName": "Net", "currency": "USD", "layers": [{"loss": 4000}]}
	]}`
	resp, data := do(t, http.MethodPost, ts.URL+"/v1/prepare", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if !bytes.Contains(data, []byte(`"currency":"USD"`)) {
		t.Errorf("item fields not carried onto bars: %s", data)
	}
}

func TestErrorStatuses(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed body", http.MethodPost, "/v1/prepare", `{"data": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"non-finite", http.MethodPost, "/v1/prepare", `{"data": [{"name": "A", "value": "NaN"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad options", http.MethodPost, "/v1/charts", `{"options": {"scale": -1}}`, http.StatusUnprocessableEntity, errors.ErrCodeInvalidOptions},
		{"unknown chart", http.MethodGet, "/v1/charts/nope", "", http.StatusNotFound, errors.ErrCodeSessionNotFound},
		{"unknown chart delete", http.MethodDelete, "/v1/charts/nope", "", http.StatusNotFound, errors.ErrCodeSessionNotFound},
		{"bad format", http.MethodPost, "/v1/render?format=gif", stepsBody, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.status, data)
			}
			body := decodeJSON[errorBody](t, data)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestChartLifecycle(t *testing.T) {
	s, ts := newTestServer(t)

	created := createChart(t, ts, stepsBody)
	if created.ID == "" || created.Width != 1030 || created.Height != 370 || created.State != "ready" {
		t.Fatalf("created = %+v", created)
	}
	if s.Registry().Len() != 1 {
		t.Errorf("registry size = %d, want 1", s.Registry().Len())
	}
	base := ts.URL + "/v1/charts/" + created.ID

	resp, data := do(t, http.MethodGet, base, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decodeJSON[chartSummary](t, data)
	if len(got.Bars) != 4 || got.Stats == nil || got.Stats.Draws != 1 {
		t.Errorf("summary = %+v", got)
	}

	resp, data = do(t, http.MethodGet, base+"/svg", "")
	if resp.Header.Get("Content-Type") != "image/svg+xml" || !bytes.Contains(data, []byte("waterfall__bar--total")) {
		t.Errorf("svg = %s %s", resp.Header.Get("Content-Type"), data)
	}

	resp, data = do(t, http.MethodGet, base+"/layout", "")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(data, []byte(`"connectors"`)) {
		t.Errorf("layout = %d %s", resp.StatusCode, data)
	}

	resp, _ = do(t, http.MethodDelete, base, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, http.MethodGet, base, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
	if s.Registry().Len() != 0 {
		t.Errorf("registry size = %d, want 0", s.Registry().Len())
	}
}

func TestChartUpdate(t *testing.T) {
	_, ts := newTestServer(t)
	base := ts.URL + "/v1/charts/" + createChart(t, ts, stepsBody).ID

	resp, data := do(t, http.MethodPatch, base, stepsBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if got := decodeJSON[updateResponse](t, data); got.Redrawn || got.Resized {
		t.Errorf("identical update = %+v, want no redraw", got)
	}

	resp, data = do(t, http.MethodPatch, base, `{"options": {"scale": 5}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if got := decodeJSON[updateResponse](t, data); got.Redrawn || got.Width != 570 {
		t.Errorf("options-only update = %+v, want no redraw and width 570", got)
	}

	resp, data = do(t, http.MethodPatch, base, `{"data": [{"name": "A", "value": 100}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if got := decodeJSON[updateResponse](t, data); !got.Redrawn {
		t.Errorf("data update = %+v, want redraw", got)
	}

	resp, data = do(t, http.MethodPatch, base, `{"options": {"aspect_ratio": 0}}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid update status = %d, body %s", resp.StatusCode, data)
	}
	_, data = do(t, http.MethodGet, base, "")
	if got := decodeJSON[chartSummary](t, data); len(got.Bars) != 2 {
		t.Errorf("failed update changed bars: %+v", got.Bars)
	}
}

func TestRender(t *testing.T) {
	_, ts := newTestServer(t)

	resp, data := do(t, http.MethodPost, ts.URL+"/v1/render?format=dot", stepsBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if resp.Header.Get("Content-Type") != "text/vnd.graphviz" || !bytes.Contains(data, []byte("digraph G")) {
		t.Errorf("render = %s %s", resp.Header.Get("Content-Type"), data)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}
}

func TestStatusFor(t *testing.T) {
	if statusFor(errors.ErrCodeInvalidState) != http.StatusConflict {
		t.Error("INVALID_STATE should map to 409")
	}
	if statusFor(errors.ErrCodeRender) != http.StatusInternalServerError {
		t.Error("RENDER_FAILED should map to 500")
	}
	if statusFor(errors.ErrCodeUnsupported) != http.StatusNotImplemented {
		t.Error("UNSUPPORTED should map to 501")
	}
}
