package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/config"
	"github.com/matzehuels/yardbook/pkg/observability"
	"github.com/matzehuels/yardbook/pkg/pipeline"
)

func readCourse(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "course.json"))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, "api:"), nil)
	return New(config.Default(), runner, nil)
}

func post(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("health = %+v", got)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("response should carry a request id")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t)

	const id = "3f1e6f0a-7d8b-4c1e-9a55-1c2b3d4e5f60"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got == "not a uuid" || got == "" {
		t.Errorf("malformed request id should be replaced, got %q", got)
	}
}

func TestPlace(t *testing.T) {
	s := newTestServer(t)
	last := 2
	body := placeRequest{Document: readCourse(t), Formats: []string{"svg", "json"}, LastUnit: &last}

	rec := post(t, s, "/v1/place", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got placeResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Report == nil || got.Report.Placed != 1 || got.Report.Failed != 1 {
		t.Fatalf("report = %+v", got.Report)
	}
	if !bytes.Contains(got.Artifacts["svg"], []byte(`id="green_01_detail"`)) {
		t.Error("svg artifact should contain the green clone")
	}
	if len(got.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
	if got.Cached.Place {
		t.Error("first request should not hit the cache")
	}
	if got.RequestID == "" || got.PlacementHash == "" {
		t.Errorf("response = %+v", got)
	}

	rec = post(t, s, "/v1/place", body)
	var again placeResponse
	if err := json.NewDecoder(rec.Body).Decode(&again); err != nil {
		t.Fatal(err)
	}
	if !again.Cached.Place || !again.Cached.Render {
		t.Errorf("second request cached = %+v, want both hits", again.Cached)
	}
	if again.PlacementHash != got.PlacementHash {
		t.Error("placement hash changed between cached and fresh runs")
	}
}

func TestPlaceErrors(t *testing.T) {
	s := newTestServer(t)
	course := readCourse(t)
	bad := "sideways"

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"document":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"doc":{}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing document", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid document", `{"document":{"root":{"kind":"blob"}}}`, http.StatusBadRequest, "INVALID_DOCUMENT"},
		{"invalid format", `{"document":` + string(course) + `,"formats":["png"]}`, http.StatusBadRequest, "INVALID_FORMAT"},
	}
	direction, _ := json.Marshal(placeRequest{Document: course, Direction: &bad})
	tests = append(tests, struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{"invalid direction", string(direction), http.StatusBadRequest, "INVALID_CONFIG"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/place", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body)
			}
			var got errorBody
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", got.Code, tt.wantErr)
			}
			if got.Error == "" || got.RequestID == "" {
				t.Errorf("error body = %+v", got)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	s := newTestServer(t)

	rec := post(t, s, "/v1/measure", measureRequest{Document: readCourse(t), IDs: []string{"fw_01", "line_02"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got measureResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Measurements) != 2 {
		t.Fatalf("got %d measurements, want 2", len(got.Measurements))
	}
	b := got.Measurements[0].Bounds
	if b.X != 0 || b.Y != 20 || b.Width != 20 || b.Height != 100 {
		t.Errorf("fw_01 bounds = %+v", b)
	}

	rec = post(t, s, "/v1/measure", measureRequest{Document: readCourse(t), IDs: []string{"nope"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
	rec = post(t, s, "/v1/measure", measureRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing document status = %d, want 400", rec.Code)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/place", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/place", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/place status = %d, want 405", rec.Code)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	routes    []string
	statuses  []int
	errorSeen int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errorSeen++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	post(t, s, "/v1/measure", measureRequest{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 2 || hooks.routes[0] != "/v1/measure" || hooks.routes[1] != "/healthz" {
		t.Errorf("routes = %v", hooks.routes)
	}
	if hooks.statuses[0] != http.StatusBadRequest || hooks.statuses[1] != http.StatusOK {
		t.Errorf("statuses = %v", hooks.statuses)
	}
	if hooks.errorSeen != 1 {
		t.Errorf("errors = %d, want 1", hooks.errorSeen)
	}
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
