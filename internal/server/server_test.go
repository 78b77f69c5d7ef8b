package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/pipeline"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// testServer builds a server around a tiny poster config. The overlay and
// labels are disabled so rendering needs no font files.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := Config{
		Addr:         ":0",
		CacheBackend: BackendNone,
		ThumbEdge:    64,
	}

	pcfg := poster.Default()
	pcfg.Page.WidthMM = 100
	pcfg.Page.HeightMM = 150
	pcfg.Page.DPI = 25
	pcfg.Grid.Columns = 5
	pcfg.Grid.Rows = 10
	pcfg.Grid.PerspectiveStartRow = 8
	pcfg.Labels.Enabled = false
	pcfg.Overlay.Enabled = false

	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	srv := New(cfg, pcfg, runner, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)

	resp := get(t, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestPosterSVG(t *testing.T) {
	ts := testServer(t)

	resp := get(t, ts.URL+"/poster.svg", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if resp.Header.Get("ETag") == "" {
		t.Error("response should carry an ETag")
	}
	if resp.Header.Get("X-Run-Id") == "" {
		t.Error("response should carry a run ID")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("body should start with <svg, got %.40q", data)
	}
}

func TestConditionalGet(t *testing.T) {
	ts := testServer(t)

	first := get(t, ts.URL+"/poster.svg", nil)
	etag := first.Header.Get("ETag")
	if etag == "" {
		t.Fatal("first response should carry an ETag")
	}
	io.Copy(io.Discard, first.Body)

	second := get(t, ts.URL+"/poster.svg", http.Header{"If-None-Match": {etag}})
	if second.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.StatusCode)
	}
}

func TestMetaJSON(t *testing.T) {
	ts := testServer(t)

	resp := get(t, ts.URL+"/meta.json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var meta poster.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatalf("decoding metadata: %v", err)
	}
	if meta.Precision == 0 {
		t.Error("metadata should report the resolved precision")
	}
	if meta.Columns != 5 {
		t.Errorf("columns = %d, want 5", meta.Columns)
	}
	if meta.ConfigHash == "" {
		t.Error("metadata should carry the config hash")
	}
}

func TestThumbPNG(t *testing.T) {
	ts := testServer(t)

	resp := get(t, ts.URL+"/thumb.png", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("body should be a PNG")
	}
}

func TestPrecisionOverride(t *testing.T) {
	ts := testServer(t)

	resp := get(t, ts.URL+"/meta.json?precision=12", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var meta poster.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		t.Fatalf("decoding metadata: %v", err)
	}
	if meta.Precision != 12 {
		t.Errorf("precision = %d, want 12", meta.Precision)
	}
}

func TestInvalidPrecision(t *testing.T) {
	ts := testServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"not a number", "?precision=abc"},
		{"negative", "?precision=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts.URL+"/meta.json"+tt.query, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Error.Code == "" {
				t.Error("error body should carry a machine code")
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"file backend", func(c *Config) { c.CacheBackend = BackendFile }, false},
		{"none backend", func(c *Config) { c.CacheBackend = BackendNone }, false},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }, true},
		{"zero thumb edge", func(c *Config) { c.ThumbEdge = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{CacheBackend: BackendFile, ThumbEdge: 600}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
