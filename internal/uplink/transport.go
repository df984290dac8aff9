package uplink

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDeliveryFailed is returned when the simulated uplink drops a payload.
var ErrDeliveryFailed = errors.New("uplink: delivery failed")

// uplinkStream selects the PCG stream for the delivery coin. Capture derives
// its streams from the same seed using small chunk indices, so this must stay
// far outside that range.
const uplinkStream = 0x75706c696e6b

// Transport delivers an assembled payload.
type Transport interface {
	Send(ctx context.Context, p Payload) error
}

// SimTransport simulates the cloud leg: each Send succeeds with a fixed
// probability and logs a truncated payload preview on success.
type SimTransport struct {
	successRate float64
	log         *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimTransport creates a simulated transport. successRate is clamped to
// [0, 1]. A zero seed picks a time-based one.
func NewSimTransport(successRate float64, seed int64, log *zap.Logger) *SimTransport {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SimTransport{
		successRate: successRate,
		rng:         rand.New(rand.NewPCG(uint64(seed), uplinkStream)),
		log:         log,
	}
}

// Send flips the delivery coin. On success the payload preview is logged;
// on failure ErrDeliveryFailed is returned and nothing is delivered.
func (t *SimTransport) Send(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encode payload %s: %w", p.CycleID, err)
	}

	t.mu.Lock()
	ok := t.rng.Float64() < t.successRate
	t.mu.Unlock()

	if !ok {
		t.log.Warn("transmit failed",
			zap.String("cycle_id", p.CycleID),
			zap.Int("samples", len(p.Samples)),
		)
		return fmt.Errorf("send payload %s: %w", p.CycleID, ErrDeliveryFailed)
	}

	t.log.Info("sending data to cloud",
		zap.String("cycle_id", p.CycleID),
		zap.Int("samples", len(p.Samples)),
		zap.Int("bytes", len(data)),
		zap.String("payload", Preview(data, PreviewBytes)),
	)
	return nil
}
