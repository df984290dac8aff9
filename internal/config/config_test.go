package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might interfere
	envVars := []string{
		"NODE_ID", "NODE_SAMPLE_RATE", "NODE_BIT_DEPTH",
		"NODE_CAPTURE_SECONDS", "NODE_PIPELINE_MODE", "NODE_WORKERS",
		"NODE_DECIMATION", "NODE_CYCLE_INTERVAL", "NODE_MAX_CYCLES",
		"NODE_PAYLOAD_SAMPLES", "NODE_UPLINK_SUCCESS", "NODE_SEED",
		"NODE_PORT", "NODE_LOG_LEVEL",
	}
	for _, k := range envVars {
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.NodeID != "sensor_001" {
		t.Errorf("NodeID = %q, want 'sensor_001'", cfg.NodeID)
	}
	if cfg.SampleRate != 400000 {
		t.Errorf("SampleRate = %d, want 400000", cfg.SampleRate)
	}
	if cfg.BitDepth != 24 {
		t.Errorf("BitDepth = %d, want 24", cfg.BitDepth)
	}
	if cfg.CaptureSeconds != 1 {
		t.Errorf("CaptureSeconds = %d, want 1", cfg.CaptureSeconds)
	}
	if cfg.PipelineMode != "split" {
		t.Errorf("PipelineMode = %q, want 'split'", cfg.PipelineMode)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if cfg.Decimation != 4 {
		t.Errorf("Decimation = %d, want 4", cfg.Decimation)
	}
	if cfg.CycleInterval != 2*time.Second {
		t.Errorf("CycleInterval = %v, want 2s", cfg.CycleInterval)
	}
	if cfg.MaxCycles != 0 {
		t.Errorf("MaxCycles = %d, want 0", cfg.MaxCycles)
	}
	if cfg.PayloadSamples != 100 {
		t.Errorf("PayloadSamples = %d, want 100", cfg.PayloadSamples)
	}
	if cfg.UplinkSuccess != 0.9 {
		t.Errorf("UplinkSuccess = %f, want 0.9", cfg.UplinkSuccess)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want 'info'", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NODE_ID", "sensor_042")
	t.Setenv("NODE_SAMPLE_RATE", "48000")
	t.Setenv("NODE_BIT_DEPTH", "16")
	t.Setenv("NODE_CAPTURE_SECONDS", "2")
	t.Setenv("NODE_PIPELINE_MODE", "parallel")
	t.Setenv("NODE_WORKERS", "8")
	t.Setenv("NODE_DECIMATION", "8")
	t.Setenv("NODE_CYCLE_INTERVAL", "10")
	t.Setenv("NODE_MAX_CYCLES", "3")
	t.Setenv("NODE_PAYLOAD_SAMPLES", "50")
	t.Setenv("NODE_UPLINK_SUCCESS", "0.5")
	t.Setenv("NODE_SEED", "1234")
	t.Setenv("NODE_PORT", "3000")
	t.Setenv("NODE_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.NodeID != "sensor_042" {
		t.Errorf("NodeID = %q, want env override", cfg.NodeID)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", cfg.BitDepth)
	}
	if cfg.CaptureSeconds != 2 {
		t.Errorf("CaptureSeconds = %d, want 2", cfg.CaptureSeconds)
	}
	if cfg.PipelineMode != "parallel" {
		t.Errorf("PipelineMode = %q, want 'parallel'", cfg.PipelineMode)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Decimation != 8 {
		t.Errorf("Decimation = %d, want 8", cfg.Decimation)
	}
	if cfg.CycleInterval != 10*time.Second {
		t.Errorf("CycleInterval = %v, want 10s", cfg.CycleInterval)
	}
	if cfg.MaxCycles != 3 {
		t.Errorf("MaxCycles = %d, want 3", cfg.MaxCycles)
	}
	if cfg.PayloadSamples != 50 {
		t.Errorf("PayloadSamples = %d, want 50", cfg.PayloadSamples)
	}
	if cfg.UplinkSuccess != 0.5 {
		t.Errorf("UplinkSuccess = %f, want 0.5", cfg.UplinkSuccess)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want 'debug'", cfg.LogLevel)
	}
}

func TestEnvIntInvalidFallsBack(t *testing.T) {
	t.Setenv("NODE_PORT", "not-a-number")
	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Invalid int env should fallback to default: got %d, want 8080", cfg.Port)
	}
}

func TestEnvFloatInvalidFallsBack(t *testing.T) {
	t.Setenv("NODE_UPLINK_SUCCESS", "ninety percent")
	cfg := Load()
	if cfg.UplinkSuccess != 0.9 {
		t.Errorf("Invalid float env should fallback to default: got %f, want 0.9", cfg.UplinkSuccess)
	}
}

func TestEnvStrEmpty(t *testing.T) {
	// Empty string should use fallback
	os.Unsetenv("NODE_ID")
	cfg := Load()
	if cfg.NodeID != "sensor_001" {
		t.Errorf("Unset env should use fallback: got %q", cfg.NodeID)
	}
}
