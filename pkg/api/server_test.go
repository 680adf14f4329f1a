package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/marmos91/graphd/pkg/sequencer"
)

// serverSetup creates a server on the given port wired to an initialized
// in-memory graph service.
func serverSetup(t *testing.T, port int, startup *testStartup) *Server {
	t.Helper()

	svc := newTestGraph(t)
	cfg := Config{
		Host:    "127.0.0.1",
		Port:    port,
		Version: "test",
	}

	return NewServer(cfg, svc, startup, nil)
}

func TestServer_Lifecycle(t *testing.T) {
	server := serverSetup(t, 18180, &testStartup{state: sequencer.StateServing})

	ctx, cancel := context.WithCancel(context.Background())

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	// Make request to health endpoint
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/healthcheck", server.Port()))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
	}

	// Shutdown
	cancel()

	// Wait for server to stop
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Expected nil on graceful shutdown, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shutdown in time")
	}
}

func TestServer_Port(t *testing.T) {
	server := serverSetup(t, 9999, &testStartup{state: sequencer.StateServing})

	if server.Port() != 9999 {
		t.Errorf("Expected port 9999, got %d", server.Port())
	}
}

func TestServer_DefaultConfig(t *testing.T) {
	server := NewServer(Config{}, nil, nil, nil)

	// After applyDefaults, port should be 8000
	if server.Port() != 8000 {
		t.Errorf("Expected default port 8000, got %d", server.Port())
	}
	if server.Addr() != "0.0.0.0:8000" {
		t.Errorf("Expected addr '0.0.0.0:8000', got '%s'", server.Addr())
	}
}

func TestServer_ReadinessWhileWaiting(t *testing.T) {
	server := serverSetup(t, 18181, &testStartup{state: sequencer.StateWaitingForDependency})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start server in background
	go func() {
		_ = server.Start(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	// Liveness should pass even before the startup sequence finished
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/healthcheck", server.Port()))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	// Readiness should fail while the dependency wait is in progress
	resp2, err := http.Get(fmt.Sprintf("http://localhost:%d/healthcheck/ready", server.Port()))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	if resp2.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, resp2.StatusCode)
	}

	var ready struct {
		Status string `json:"status"`
		State  string `json:"state"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&ready); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if ready.Status != "not_ready" {
		t.Errorf("Expected status 'not_ready', got '%s'", ready.Status)
	}
	if ready.State != "waiting_for_dependency" {
		t.Errorf("Expected state 'waiting_for_dependency', got '%s'", ready.State)
	}
}
