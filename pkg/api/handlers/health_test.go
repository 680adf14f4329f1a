package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/marmos91/graphd/internal/cli/health"
	"github.com/marmos91/graphd/pkg/graph"
	"github.com/marmos91/graphd/pkg/sequencer"
)

// stubProber satisfies probe.Prober without dialing anything. The error
// can be flipped after initialization to simulate a backend outage.
type stubProber struct {
	mu  sync.Mutex
	err error
}

func (p *stubProber) Probe(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubProber) Target() string {
	return "neo4j:7687"
}

func (p *stubProber) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// newReadyGraph creates an initialized graph service backed by a stub
// prober so tests never touch the network.
func newReadyGraph(t *testing.T) (*graph.Service, *stubProber) {
	t.Helper()

	prober := &stubProber{}
	svc := graph.New(graph.Options{
		URI:          "bolt://neo4j:7687",
		User:         "neo4j",
		Password:     "secret",
		OpenAIAPIKey: "sk-test",
	}, graph.WithProber(prober))

	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize graph service: %v", err)
	}

	return svc, prober
}

// fakeStartup reports a fixed sequencer position.
type fakeStartup struct {
	state    sequencer.State
	degraded bool
	reason   string
}

func (f *fakeStartup) State() sequencer.State {
	return f.state
}

func (f *fakeStartup) Degraded() (bool, string) {
	return f.degraded, f.reason
}

func TestLiveness_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil, nil)
	req := httptest.NewRequest("GET", "/healthcheck", nil)
	w := httptest.NewRecorder()

	handler.Liveness(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
	}

	// The liveness body is part of the deployment contract, so pin the
	// serialized form rather than just the decoded fields.
	body := strings.TrimSpace(w.Body.String())
	if body != `{"status":"healthy"}` {
		t.Errorf("Expected body '{\"status\":\"healthy\"}', got '%s'", body)
	}
}

func TestReadiness_WhileWaiting_Returns503(t *testing.T) {
	svc, _ := newReadyGraph(t)
	startup := &fakeStartup{state: sequencer.StateWaitingForDependency}
	handler := NewHealthHandler(svc, startup)
	req := httptest.NewRequest("GET", "/healthcheck/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp health.ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "not_ready" {
		t.Errorf("Expected status 'not_ready', got '%s'", resp.Status)
	}
	if resp.State != "waiting_for_dependency" {
		t.Errorf("Expected state 'waiting_for_dependency', got '%s'", resp.State)
	}
	if !strings.Contains(resp.Reason, "waiting_for_dependency") {
		t.Errorf("Expected reason to mention the state, got '%s'", resp.Reason)
	}
}

func TestReadiness_Degraded_Returns503(t *testing.T) {
	svc, _ := newReadyGraph(t)
	startup := &fakeStartup{
		state:    sequencer.StateServing,
		degraded: true,
		reason:   "dependency unavailable: dial tcp: connection refused",
	}
	handler := NewHealthHandler(svc, startup)
	req := httptest.NewRequest("GET", "/healthcheck/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp health.ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", resp.Status)
	}
	if resp.Reason != startup.reason {
		t.Errorf("Expected reason '%s', got '%s'", startup.reason, resp.Reason)
	}
}

func TestReadiness_GraphUnreachable_Returns503(t *testing.T) {
	svc, prober := newReadyGraph(t)
	prober.fail(errors.New("dial tcp: connection refused"))

	startup := &fakeStartup{state: sequencer.StateServing}
	handler := NewHealthHandler(svc, startup)
	req := httptest.NewRequest("GET", "/healthcheck/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp health.ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "not_ready" {
		t.Errorf("Expected status 'not_ready', got '%s'", resp.Status)
	}
	if !strings.Contains(resp.Reason, "unreachable") {
		t.Errorf("Expected reason to mention unreachable, got '%s'", resp.Reason)
	}
}

func TestReadiness_Serving_ReturnsOK(t *testing.T) {
	svc, _ := newReadyGraph(t)
	startup := &fakeStartup{state: sequencer.StateServing}
	handler := NewHealthHandler(svc, startup)
	req := httptest.NewRequest("GET", "/healthcheck/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp health.ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "ready" {
		t.Errorf("Expected status 'ready', got '%s'", resp.Status)
	}
	if resp.State != "serving" {
		t.Errorf("Expected state 'serving', got '%s'", resp.State)
	}
	if resp.StartedAt == "" {
		t.Error("Expected started_at to be set")
	}
	if resp.Uptime == "" {
		t.Error("Expected uptime to be set")
	}
	if resp.Reason != "" {
		t.Errorf("Expected no reason when ready, got '%s'", resp.Reason)
	}
}

func TestReadiness_NoCollaborators_ReturnsOK(t *testing.T) {
	// Without a sequencer or graph service attached the endpoint degrades
	// to a plain liveness signal instead of failing.
	handler := NewHealthHandler(nil, nil)
	req := httptest.NewRequest("GET", "/healthcheck/ready", nil)
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp health.ReadyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Status != "ready" {
		t.Errorf("Expected status 'ready', got '%s'", resp.Status)
	}
}
