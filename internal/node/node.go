// Package node runs the sensor cycle loop: generate a synthetic capture,
// decimate it, hand the payload to the uplink, sleep, repeat.
package node

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omnisent/sensornode/internal/capture"
	"github.com/omnisent/sensornode/internal/compress"
	"github.com/omnisent/sensornode/internal/uplink"
)

// Options holds the node's tunable cycle parameters.
type Options struct {
	Mode           Mode
	Workers        int // 0 = GOMAXPROCS
	Decimation     int
	PayloadSamples int
	Interval       time.Duration // sleep between cycles
	MaxCycles      int           // 0 = run forever
}

// SensorNode is one simulated sensor device.
type SensorNode struct {
	id        string
	gen       *capture.Generator
	transport uplink.Transport
	log       *zap.Logger

	reportCh chan CycleReport
	wakeCh   chan struct{}

	mu          sync.RWMutex
	opts        Options
	cycles      int
	delivered   int
	failed      int
	lastCycleID string
	sleeping    bool
}

// New creates a sensor node. A nil logger logs nowhere.
func New(id string, gen *capture.Generator, transport uplink.Transport, opts Options, log *zap.Logger) *SensorNode {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = ModeSequential
	}
	if opts.Decimation < 1 {
		opts.Decimation = 1
	}
	return &SensorNode{
		id:        id,
		gen:       gen,
		transport: transport,
		log:       log,
		opts:      opts,
		reportCh:  make(chan CycleReport, 16),
		wakeCh:    make(chan struct{}, 1),
	}
}

// Reports returns the channel of per-cycle reports. Reports are dropped
// if nothing is draining the channel.
func (n *SensorNode) Reports() <-chan CycleReport {
	return n.reportCh
}

// Status returns a snapshot of counters and settings.
func (n *SensorNode) Status() Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return Status{
		NodeID:      n.id,
		Mode:        n.opts.Mode,
		Workers:     n.opts.Workers,
		Interval:    n.opts.Interval.Seconds(),
		Cycles:      n.cycles,
		Delivered:   n.delivered,
		Failed:      n.failed,
		LastCycleID: n.lastCycleID,
		Sleeping:    n.sleeping,
	}
}

// SetMode changes the pipeline mode for future cycles.
func (n *SensorNode) SetMode(m Mode) {
	n.mu.Lock()
	n.opts.Mode = m
	n.mu.Unlock()
	n.log.Info("pipeline mode set", zap.String("mode", string(m)))
}

// SetInterval changes the sleep between cycles.
func (n *SensorNode) SetInterval(d time.Duration) {
	n.mu.Lock()
	n.opts.Interval = d
	n.mu.Unlock()
	n.log.Info("cycle interval set", zap.Duration("interval", d))
}

// SetWorkers changes the worker count for the parallel stages.
func (n *SensorNode) SetWorkers(w int) {
	n.mu.Lock()
	n.opts.Workers = w
	n.mu.Unlock()
}

// Wake cuts the current sleep short so the next cycle starts immediately.
func (n *SensorNode) Wake() {
	select {
	case n.wakeCh <- struct{}{}:
	default:
	}
}

// Run executes cycles until ctx is cancelled or MaxCycles is reached.
func (n *SensorNode) Run(ctx context.Context) {
	defer close(n.reportCh)

	for {
		if ctx.Err() != nil {
			return
		}

		if _, err := n.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			n.log.Error("cycle failed", zap.Error(err))
		}

		n.mu.RLock()
		done := n.opts.MaxCycles > 0 && n.cycles >= n.opts.MaxCycles
		interval := n.opts.Interval
		n.mu.RUnlock()

		if done {
			n.log.Info("cycle limit reached, stopping", zap.Int("cycles", n.cycles))
			return
		}

		n.setSleeping(true)
		n.log.Info("entering sleep mode", zap.Duration("interval", interval))
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			n.setSleeping(false)
			return
		case <-n.wakeCh:
			timer.Stop()
			n.log.Info("woken early")
		case <-timer.C:
		}
		n.setSleeping(false)
	}
}

// RunCycle executes one generate -> compress -> transmit pass and returns
// its report. A failed delivery is counted and reported, not an error;
// the returned error is non-nil only for context cancellation or payload
// encoding problems.
func (n *SensorNode) RunCycle(ctx context.Context) (CycleReport, error) {
	n.mu.RLock()
	opts := n.opts
	n.mu.RUnlock()

	cycleID := uuid.NewString()
	spec := n.gen.Spec()
	log := n.log.With(zap.String("cycle_id", cycleID), zap.String("mode", string(opts.Mode)))

	log.Info("sensor cycle start")
	log.Info("wake: generating audio data",
		zap.Int("samples", spec.BufferLen()),
		zap.Int("sample_rate", spec.SampleRate),
		zap.Int("bit_depth", spec.BitDepth),
	)

	buf := make([]int32, spec.BufferLen())

	var compressed []int32
	genStart := time.Now()
	var genElapsed, compElapsed time.Duration

	switch opts.Mode {
	case ModeSplit:
		// Generator streams chunks while the decimator consumes them.
		// Both stages have finished once the channel drains.
		dec := compress.NewStreamDecimator(opts.Decimation)
		for chunk := range n.gen.FillChunks(ctx, buf) {
			dec.Write(chunk)
		}
		compressed = dec.Finish()
		genElapsed = time.Since(genStart)
		compElapsed = genElapsed // stages overlap in this mode
		if ctx.Err() != nil {
			return CycleReport{}, ctx.Err()
		}
	case ModeParallel:
		n.gen.FillParallel(buf, opts.Workers)
		genElapsed = time.Since(genStart)
		log.Info("processing: compressing audio data", zap.Int("factor", opts.Decimation))
		compStart := time.Now()
		compressed = compress.DecimateParallel(buf, opts.Decimation, opts.Workers)
		compElapsed = time.Since(compStart)
	default:
		n.gen.Fill(buf)
		genElapsed = time.Since(genStart)
		log.Info("processing: compressing audio data", zap.Int("factor", opts.Decimation))
		compStart := time.Now()
		compressed = compress.Decimate(buf, opts.Decimation)
		compElapsed = time.Since(compStart)
	}

	log.Info("transmit: preparing payload", zap.Int("compressed_samples", len(compressed)))
	payload := uplink.BuildPayload(n.id, cycleID, time.Now(), compressed, opts.PayloadSamples)

	txStart := time.Now()
	err := n.transport.Send(ctx, payload)
	txElapsed := time.Since(txStart)

	delivered := err == nil
	switch {
	case delivered:
	case errors.Is(err, uplink.ErrDeliveryFailed):
		log.Warn("transmission failed, logged for retry")
	default:
		return CycleReport{}, err
	}

	n.mu.Lock()
	n.cycles++
	if delivered {
		n.delivered++
	} else {
		n.failed++
	}
	n.lastCycleID = cycleID
	number := n.cycles
	n.mu.Unlock()

	report := CycleReport{
		CycleID:    cycleID,
		Number:     number,
		Mode:       opts.Mode,
		Generated:  len(buf),
		Compressed: len(compressed),
		Payload:    len(payload.Samples),
		Delivered:  delivered,
		GenerateMS: float64(genElapsed.Microseconds()) / 1000,
		CompressMS: float64(compElapsed.Microseconds()) / 1000,
		TransmitMS: float64(txElapsed.Microseconds()) / 1000,
	}

	select {
	case n.reportCh <- report:
	default:
		// nobody draining, drop the report
	}

	return report, nil
}

func (n *SensorNode) setSleeping(v bool) {
	n.mu.Lock()
	n.sleeping = v
	n.mu.Unlock()
}
