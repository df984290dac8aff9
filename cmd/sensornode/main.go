package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/omnisent/sensornode/internal/capture"
	"github.com/omnisent/sensornode/internal/config"
	"github.com/omnisent/sensornode/internal/logging"
	"github.com/omnisent/sensornode/internal/monitor"
	"github.com/omnisent/sensornode/internal/node"
	"github.com/omnisent/sensornode/internal/uplink"
)

func main() {
	cfg := config.Load()

	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("sensornode starting up",
		zap.String("node_id", cfg.NodeID),
		zap.String("mode", cfg.PipelineMode),
	)

	mode, err := node.ParseMode(cfg.PipelineMode)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	spec := capture.SignalSpec{
		SampleRate: cfg.SampleRate,
		BitDepth:   cfg.BitDepth,
		Duration:   cfg.CaptureSeconds,
	}
	gen := capture.NewGenerator(spec, cfg.Seed)
	transport := uplink.NewSimTransport(cfg.UplinkSuccess, cfg.Seed, log.Named("uplink"))

	sensor := node.New(cfg.NodeID, gen, transport, node.Options{
		Mode:           mode,
		Workers:        cfg.Workers,
		Decimation:     cfg.Decimation,
		PayloadSamples: cfg.PayloadSamples,
		Interval:       cfg.CycleInterval,
		MaxCycles:      cfg.MaxCycles,
	}, log.Named("node"))

	// Broadcaster: fan-out cycle reports to all feed clients
	broadcaster := monitor.NewBroadcaster()
	go broadcaster.Run(ctx, sensor.Reports())

	nodeDone := make(chan struct{})
	go func() {
		sensor.Run(ctx)
		close(nodeDone)
	}()

	// HTTP routes
	mux := http.NewServeMux()

	// Live cycle-report feed
	mux.Handle("/ws", monitor.NewFeedHandler(broadcaster, log.Named("feed")))

	// API endpoints
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		st := sensor.Status()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(map[string]any{
			"node":           st,
			"feed_listeners": broadcaster.ListenerCount(),
			"config": map[string]any{
				"sample_rate":     spec.SampleRate,
				"bit_depth":       spec.BitDepth,
				"capture_seconds": spec.Duration,
				"decimation":      cfg.Decimation,
				"payload_samples": cfg.PayloadSamples,
				"uplink_success":  cfg.UplinkSuccess,
			},
		})
	})

	mux.HandleFunc("/api/cycle", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		sensor.Wake()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Mode     *string `json:"mode"`
			Interval *int    `json:"interval_seconds"`
			Workers  *int    `json:"workers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Mode != nil {
			m, err := node.ParseMode(*req.Mode)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			sensor.SetMode(m)
		}
		if req.Interval != nil {
			v := *req.Interval
			if v < 1 || v > 86400 {
				http.Error(w, "interval_seconds must be 1-86400", http.StatusBadRequest)
				return
			}
			sensor.SetInterval(time.Duration(v) * time.Second)
		}
		if req.Workers != nil {
			v := *req.Workers
			if v < 0 || v > 256 {
				http.Error(w, "workers must be 0-256", http.StatusBadRequest)
				return
			}
			sensor.SetWorkers(v)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "node": sensor.Status()})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
		case <-nodeDone:
			log.Info("sensor finished, shutting down")
		}
		server.Close()
	}()

	log.Info("sensornode live", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}
	<-nodeDone
}
