package capture

import (
	"context"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"
)

// ChunkSamples is the number of samples filled per RNG chunk. Each chunk
// has its own derived random stream, so the generated buffer is identical
// across the sequential, split, and parallel fill paths for a given seed,
// regardless of worker count.
const ChunkSamples = 65536

// SignalSpec describes the shape of the synthetic audio signal.
type SignalSpec struct {
	SampleRate int // samples per second
	BitDepth   int // bits per sample
	Duration   int // seconds generated per cycle
}

// Range returns the half-open sample range: values lie in [-Range, Range).
func (s SignalSpec) Range() int32 {
	return 1 << (s.BitDepth - 1)
}

// BufferLen returns the number of samples in one capture.
func (s SignalSpec) BufferLen() int {
	return s.SampleRate * s.Duration
}

// Generator produces pseudo-random audio-like samples for a SignalSpec.
// A zero seed picks a time-based one; a fixed seed makes every fill
// reproducible.
type Generator struct {
	spec SignalSpec
	seed uint64
}

// NewGenerator creates a generator for the given signal spec and seed.
func NewGenerator(spec SignalSpec, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{spec: spec, seed: uint64(seed)}
}

// Spec returns the generator's signal spec.
func (g *Generator) Spec() SignalSpec {
	return g.spec
}

// fillChunk fills one chunk from its own PCG stream derived from
// (seed, chunk index).
func (g *Generator) fillChunk(s []int32, chunk uint64) {
	rng := rand.New(rand.NewPCG(g.seed, chunk))
	span := int64(g.spec.Range()) * 2
	for i := range s {
		s[i] = int32(rng.Int64N(span) - int64(g.spec.Range()))
	}
}

// Fill populates buf sequentially with samples in [-Range, Range).
func (g *Generator) Fill(buf []int32) {
	for c := 0; c*ChunkSamples < len(buf); c++ {
		lo := c * ChunkSamples
		hi := min(lo+ChunkSamples, len(buf))
		g.fillChunk(buf[lo:hi], uint64(c))
	}
}

// FillParallel populates buf using the given number of worker goroutines.
// workers <= 0 means GOMAXPROCS. Output is identical to Fill.
func (g *Generator) FillParallel(buf []int32, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunks := (len(buf) + ChunkSamples - 1) / ChunkSamples
	if workers > chunks {
		workers = chunks
	}
	if workers <= 1 {
		g.Fill(buf)
		return
	}

	work := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for c := range work {
				lo := c * ChunkSamples
				hi := min(lo+ChunkSamples, len(buf))
				g.fillChunk(buf[lo:hi], uint64(c))
			}
		}()
	}
	for c := 0; c < chunks; c++ {
		work <- c
	}
	close(work)
	wg.Wait()
}

// FillChunks fills buf chunk by chunk in a background goroutine, emitting
// each completed chunk (a sub-slice of buf) in order. The channel closes
// once the buffer is full or ctx is cancelled. Consumers must not read a
// chunk before receiving it.
func (g *Generator) FillChunks(ctx context.Context, buf []int32) <-chan []int32 {
	out := make(chan []int32, 4)
	go func() {
		defer close(out)
		for c := 0; c*ChunkSamples < len(buf); c++ {
			lo := c * ChunkSamples
			hi := min(lo+ChunkSamples, len(buf))
			g.fillChunk(buf[lo:hi], uint64(c))
			select {
			case out <- buf[lo:hi]:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
