package node

import "fmt"

// Mode selects the concurrency strategy for a cycle's generate and
// compress stages.
type Mode string

const (
	// ModeSequential runs generate then compress in order.
	ModeSequential Mode = "sequential"
	// ModeSplit overlaps generation and compression: the generator streams
	// completed chunks to a concurrent decimator, and both finish before
	// transmit.
	ModeSplit Mode = "split"
	// ModeParallel shards each stage across worker goroutines.
	ModeParallel Mode = "parallel"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSequential, ModeSplit, ModeParallel:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown pipeline mode %q", s)
}

// CycleReport describes one completed sensor cycle.
type CycleReport struct {
	CycleID    string  `json:"cycle_id"`
	Number     int     `json:"number"`
	Mode       Mode    `json:"mode"`
	Generated  int     `json:"generated_samples"`
	Compressed int     `json:"compressed_samples"`
	Payload    int     `json:"payload_samples"`
	Delivered  bool    `json:"delivered"`
	GenerateMS float64 `json:"generate_ms"`
	CompressMS float64 `json:"compress_ms"`
	TransmitMS float64 `json:"transmit_ms"`
}

// Status is a snapshot of the node's counters and settings.
type Status struct {
	NodeID      string  `json:"node_id"`
	Mode        Mode    `json:"mode"`
	Workers     int     `json:"workers"`
	Interval    float64 `json:"interval_seconds"`
	Cycles      int     `json:"cycles"`
	Delivered   int     `json:"delivered"`
	Failed      int     `json:"failed"`
	LastCycleID string  `json:"last_cycle_id"`
	Sleeping    bool    `json:"sleeping"`
}
