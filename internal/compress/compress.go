// Package compress implements the node's 4:1 sample reduction: stride
// decimation that keeps every Nth sample. It is subsampling, not a codec.
package compress

import (
	"runtime"
	"sync"
)

// OutputLen returns the decimated length for n input samples.
func OutputLen(n, factor int) int {
	if factor <= 1 {
		return n
	}
	return (n + factor - 1) / factor
}

// Decimate keeps every factor-th sample of src, starting at index 0.
// A factor <= 1 returns a copy of src.
func Decimate(src []int32, factor int) []int32 {
	if factor <= 1 {
		out := make([]int32, len(src))
		copy(out, src)
		return out
	}
	out := make([]int32, 0, OutputLen(len(src), factor))
	for i := 0; i < len(src); i += factor {
		out = append(out, src[i])
	}
	return out
}

// DecimateParallel splits src into per-worker shards aligned to the stride,
// decimates each shard into its own pre-sized region of the output, and
// joins. Output is identical to Decimate for any worker count.
func DecimateParallel(src []int32, factor, workers int) []int32 {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	outLen := OutputLen(len(src), factor)
	if factor <= 1 || workers <= 1 || outLen < workers {
		return Decimate(src, factor)
	}

	out := make([]int32, outLen)
	per := outLen / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		lo := w * per
		hi := lo + per
		if w == workers-1 {
			hi = outLen
		}
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = src[i*factor]
			}
		}(lo, hi)
	}
	wg.Wait()
	return out
}

// StreamDecimator decimates a stream of chunks as it arrives, preserving
// the stride across chunk boundaries. Not safe for concurrent use.
type StreamDecimator struct {
	factor int
	next   int // absolute index of the next sample to keep
	pos    int // absolute index of the next incoming sample
	out    []int32
}

// NewStreamDecimator creates a streaming decimator with the given factor.
func NewStreamDecimator(factor int) *StreamDecimator {
	if factor < 1 {
		factor = 1
	}
	return &StreamDecimator{factor: factor}
}

// Write consumes one chunk of the stream.
func (d *StreamDecimator) Write(chunk []int32) {
	for d.next < d.pos+len(chunk) {
		d.out = append(d.out, chunk[d.next-d.pos])
		d.next += d.factor
	}
	d.pos += len(chunk)
}

// Finish returns the decimated samples accumulated so far.
func (d *StreamDecimator) Finish() []int32 {
	return d.out
}
