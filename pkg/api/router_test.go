package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/graphd/internal/cli/health"
	"github.com/marmos91/graphd/pkg/graph"
	"github.com/marmos91/graphd/pkg/sequencer"
)

// testProber satisfies probe.Prober without touching the network.
type testProber struct{}

func (testProber) Probe(ctx context.Context) error { return nil }
func (testProber) Target() string                  { return "neo4j:7687" }

// testStartup reports a fixed sequencer position.
type testStartup struct {
	state    sequencer.State
	degraded bool
	reason   string
}

func (f *testStartup) State() sequencer.State   { return f.state }
func (f *testStartup) Degraded() (bool, string) { return f.degraded, f.reason }

// newTestGraph creates an initialized graph service backed by a stub
// prober so tests never touch the network.
func newTestGraph(t *testing.T) *graph.Service {
	t.Helper()

	svc := graph.New(graph.Options{
		URI:          "bolt://neo4j:7687",
		User:         "neo4j",
		Password:     "secret",
		OpenAIAPIKey: "sk-test",
	}, graph.WithProber(testProber{}))
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize graph service: %v", err)
	}

	return svc
}

// routerSetup builds a router wired to an initialized in-memory graph
// service and a sequencer stub in the serving state.
func routerSetup(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	return NewRouter(cfg, newTestGraph(t), &testStartup{state: sequencer.StateServing}, nil)
}

func TestRouter_RootBanner(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{Version: "0.9.0"}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var banner health.RootResponse
	if err := json.NewDecoder(resp.Body).Decode(&banner); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if banner.Message != "Graphd Knowledge Server" {
		t.Errorf("Expected message 'Graphd Knowledge Server', got '%s'", banner.Message)
	}
	if banner.Version != "0.9.0" {
		t.Errorf("Expected version '0.9.0', got '%s'", banner.Version)
	}
	if len(banner.Endpoints) != 4 {
		t.Errorf("Expected 4 endpoints, got %d", len(banner.Endpoints))
	}
}

func TestRouter_Healthcheck(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthcheck")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if got := strings.TrimSpace(string(body)); got != `{"status":"healthy"}` {
		t.Errorf("Expected body '{\"status\":\"healthy\"}', got '%s'", got)
	}
}

func TestRouter_Readiness(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthcheck/ready")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var ready health.ReadyResponse
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if ready.Status != "ready" {
		t.Errorf("Expected status 'ready', got '%s'", ready.Status)
	}
	if ready.State != "serving" {
		t.Errorf("Expected state 'serving', got '%s'", ready.State)
	}
}

func TestRouter_IngestRetrieveFlow(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{}))
	defer ts.Close()

	ingestBody := `{"name":"incident","content":"The cache cluster failed over at noon"}`
	resp, err := http.Post(ts.URL+"/ingest", "application/json", strings.NewReader(ingestBody))
	if err != nil {
		t.Fatalf("Failed to ingest: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}

	var episode graph.Episode
	if err := json.NewDecoder(resp.Body).Decode(&episode); err != nil {
		t.Fatalf("Failed to decode episode: %v", err)
	}
	if episode.ID == "" {
		t.Error("Expected episode ID to be assigned")
	}

	resp2, err := http.Post(ts.URL+"/retrieve", "application/json", strings.NewReader(`{"query":"cache cluster"}`))
	if err != nil {
		t.Fatalf("Failed to retrieve: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, resp2.StatusCode)
	}

	var result struct {
		Episodes []graph.Episode `json:"episodes"`
		Count    int             `json:"count"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}

	if result.Count != 1 {
		t.Fatalf("Expected 1 episode, got %d", result.Count)
	}
	if result.Episodes[0].ID != episode.ID {
		t.Errorf("Expected episode %s, got %s", episode.ID, result.Episodes[0].ID)
	}
}

func TestRouter_UnknownRoute_ReturnsProblem(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Expected Content-Type 'application/problem+json', got '%s'", ct)
	}
}

func TestRouter_WrongMethod_ReturnsProblem(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/ingest", nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status %d, got %d", http.StatusMethodNotAllowed, resp.StatusCode)
	}
}

func TestRouter_OversizedBody_Returns413(t *testing.T) {
	ts := httptest.NewServer(routerSetup(t, Config{MaxBodySize: 64}))
	defer ts.Close()

	big := fmt.Sprintf(`{"content":"%s"}`, strings.Repeat("x", 1024))
	resp, err := http.Post(ts.URL+"/ingest", "application/json", strings.NewReader(big))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, resp.StatusCode)
	}
}

// recordingMetrics counts middleware calls so tests can verify wiring.
type recordingMetrics struct {
	mu       sync.Mutex
	requests int
	statuses []int
	starts   int
	ends     int
}

func (m *recordingMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.statuses = append(m.statuses, status)
}

func (m *recordingMetrics) RecordRequestStart(method, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
}

func (m *recordingMetrics) RecordRequestEnd(method, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ends++
}

func TestRouter_RecordsMetrics(t *testing.T) {
	rec := &recordingMetrics{}
	router := NewRouter(Config{}, nil, &testStartup{state: sequencer.StateServing}, rec)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthcheck")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	_ = resp.Body.Close()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.requests != 1 {
		t.Errorf("Expected 1 recorded request, got %d", rec.requests)
	}
	if rec.starts != 1 || rec.ends != 1 {
		t.Errorf("Expected balanced start/end counts, got %d/%d", rec.starts, rec.ends)
	}
	if len(rec.statuses) == 1 && rec.statuses[0] != http.StatusOK {
		t.Errorf("Expected recorded status %d, got %d", http.StatusOK, rec.statuses[0])
	}
}
