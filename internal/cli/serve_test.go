package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hydrograph/pkg/network"
	"github.com/matzehuels/hydrograph/pkg/observability"
	"github.com/matzehuels/hydrograph/pkg/pipeline"
	"github.com/matzehuels/hydrograph/pkg/results"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	net, err := network.ReadJSON(strings.NewReader(testNetwork))
	if err != nil {
		t.Fatal(err)
	}
	res, err := results.ReadJSON(strings.NewReader(testResults))
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := newPreviewServer(&inputs{net: net, res: res}, pipeline.NewRunner(nil, nil, logger), pipeline.Options{Time: 1}, logger)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestServeHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health map[string]any
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health["status"] != "ok" || health["network"] != "Tiny" || health["results"] != true {
		t.Errorf("health = %v", health)
	}
	if _, err := uuid.Parse(resp.Header.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID", resp.Header.Get("X-Request-ID"))
	}
}

func TestServeKeepsIncomingRequestID(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.New().String()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestServeGraphDOT(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/graph.dot?time=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"h = 88", "d = 0.003", "CV"} {
		if !strings.Contains(body, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS with caching disabled", resp.Header.Get("X-Cache"))
	}
}

func TestServeErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/graph.gif", http.StatusNotFound, "not_found"},
		{"/graph.dot?time=abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"/graph.dot?time=0", http.StatusBadRequest, "INVALID_INPUT"},
		{"/graph.dot?time=-1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/graph.dot?time=5", http.StatusNotFound, "TIME_STEP_NOT_FOUND"},
		{"/graph.dot?colorby=pressure", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var e map[string]string
			if err := json.Unmarshal([]byte(body), &e); err != nil {
				t.Fatalf("decode error body %q: %v", body, err)
			}
			if e["error"] != tt.code {
				t.Errorf("error = %q, want %q", e["error"], tt.code)
			}
		})
	}
}

func TestServeGraphSVGFallback(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/graph.svg?layout=spring&colorby=head")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "<svg") {
		t.Error("body is not SVG")
	}
	if got := resp.Header.Get("X-Layout-Fallback"); got != "dot" {
		t.Errorf("X-Layout-Fallback = %q, want dot", got)
	}
}

func TestServeLegend(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/legend.png?colorby=head")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "image/png" || !strings.HasPrefix(body, "\x89PNG") {
		t.Error("legend should be a PNG")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestServeEmitsHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts.URL+"/healthz")
	get(t, ts.URL+"/graph.gif")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 404 {
		t.Errorf("statuses = %v, want [200 404]", hooks.statuses)
	}
}
