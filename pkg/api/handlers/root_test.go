package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marmos91/graphd/internal/cli/health"
)

func TestRoot_ReturnsBanner(t *testing.T) {
	handler := NewRootHandler("1.2.3")
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.Root(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp health.RootResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Message != "Graphd Knowledge Server" {
		t.Errorf("Expected message 'Graphd Knowledge Server', got '%s'", resp.Message)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("Expected version '1.2.3', got '%s'", resp.Version)
	}

	expected := map[string]string{
		"healthcheck": "/healthcheck",
		"ingest":      "/ingest",
		"retrieve":    "/retrieve",
		"readiness":   "/healthcheck/ready",
	}
	if len(resp.Endpoints) != len(expected) {
		t.Errorf("Expected %d endpoints, got %d", len(expected), len(resp.Endpoints))
	}
	for name, path := range expected {
		if resp.Endpoints[name] != path {
			t.Errorf("Expected endpoint %s -> %s, got '%s'", name, path, resp.Endpoints[name])
		}
	}
}
