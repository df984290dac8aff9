package config

import (
	"os"
	"strconv"
	"time"
)

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Node identity
	NodeID string

	// Signal shape
	SampleRate     int // samples per second
	BitDepth       int // bits per sample (sample range is +/- 2^(bits-1))
	CaptureSeconds int // seconds of signal generated per cycle

	// Pipeline behavior
	PipelineMode  string        // sequential, split, parallel
	Workers       int           // 0 = GOMAXPROCS
	Decimation    int           // keep every Nth sample
	CycleInterval time.Duration // sleep between cycles
	MaxCycles     int           // 0 = run forever

	// Uplink
	PayloadSamples int     // samples included in a payload
	UplinkSuccess  float64 // simulated delivery probability

	// Misc
	Seed     int64 // 0 = time-based
	Port     int
	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		NodeID: envStr("NODE_ID", "sensor_001"),

		SampleRate:     envInt("NODE_SAMPLE_RATE", 400000),
		BitDepth:       envInt("NODE_BIT_DEPTH", 24),
		CaptureSeconds: envInt("NODE_CAPTURE_SECONDS", 1),

		PipelineMode:  envStr("NODE_PIPELINE_MODE", "split"),
		Workers:       envInt("NODE_WORKERS", 0),
		Decimation:    envInt("NODE_DECIMATION", 4),
		CycleInterval: time.Duration(envInt("NODE_CYCLE_INTERVAL", 2)) * time.Second,
		MaxCycles:     envInt("NODE_MAX_CYCLES", 0),

		PayloadSamples: envInt("NODE_PAYLOAD_SAMPLES", 100),
		UplinkSuccess:  envFloat("NODE_UPLINK_SUCCESS", 0.9),

		Seed:     int64(envInt("NODE_SEED", 0)),
		Port:     envInt("NODE_PORT", 8080),
		LogLevel: envStr("NODE_LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
