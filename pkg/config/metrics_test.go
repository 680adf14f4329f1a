package config

import "testing"

func TestInitializeMetrics_Disabled(t *testing.T) {
	cfg := GetDefaultConfig()

	result := InitializeMetrics(cfg)
	if result == nil {
		t.Fatal("Expected a result even with metrics disabled")
	}
	if result.Server != nil {
		t.Error("Expected no metrics server while disabled")
	}
	if result.Wait != nil || result.Startup != nil || result.HTTP != nil || result.Graph != nil {
		t.Error("Expected nil recorders while disabled")
	}
}

func TestInitializeMetrics_Enabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)

	result := InitializeMetrics(cfg)
	if result.Server == nil {
		t.Fatal("Expected a metrics server when enabled")
	}
	if result.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("Expected metrics server on 127.0.0.1:9090, got %q", result.Server.Addr())
	}
	if result.Wait == nil {
		t.Error("Expected wait recorder when enabled")
	}
	if result.Startup == nil {
		t.Error("Expected startup recorder when enabled")
	}
	if result.HTTP == nil {
		t.Error("Expected http recorder when enabled")
	}
	if result.Graph == nil {
		t.Error("Expected graph recorder when enabled")
	}
}
