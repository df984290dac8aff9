package capture

import (
	"context"
	"testing"
)

func testSpec() SignalSpec {
	return SignalSpec{SampleRate: 40000, BitDepth: 24, Duration: 1}
}

// --- SignalSpec ---

func TestSignalSpecRange(t *testing.T) {
	tests := []struct {
		bits int
		want int32
	}{
		{8, 128},
		{16, 32768},
		{24, 8388608},
	}
	for _, tt := range tests {
		s := SignalSpec{SampleRate: 1000, BitDepth: tt.bits, Duration: 1}
		if got := s.Range(); got != tt.want {
			t.Errorf("Range(bits=%d) = %d, want %d", tt.bits, got, tt.want)
		}
	}
}

func TestSignalSpecBufferLen(t *testing.T) {
	s := SignalSpec{SampleRate: 400000, BitDepth: 24, Duration: 2}
	if got := s.BufferLen(); got != 800000 {
		t.Errorf("BufferLen = %d, want 800000", got)
	}
}

// --- Fill ---

func TestFillValuesInRange(t *testing.T) {
	spec := testSpec()
	g := NewGenerator(spec, 42)
	buf := make([]int32, spec.BufferLen())
	g.Fill(buf)

	r := spec.Range()
	for i, v := range buf {
		if v < -r || v >= r {
			t.Fatalf("sample[%d] = %d outside [-%d, %d)", i, v, r, r)
		}
	}
}

func TestFillDeterministic(t *testing.T) {
	spec := testSpec()
	a := make([]int32, spec.BufferLen())
	b := make([]int32, spec.BufferLen())
	NewGenerator(spec, 7).Fill(a)
	NewGenerator(spec, 7).Fill(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at sample %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestFillSeedsDiffer(t *testing.T) {
	spec := testSpec()
	a := make([]int32, spec.BufferLen())
	b := make([]int32, spec.BufferLen())
	NewGenerator(spec, 1).Fill(a)
	NewGenerator(spec, 2).Fill(b)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical buffers")
	}
}

// --- FillParallel ---

func TestFillParallelMatchesSequential(t *testing.T) {
	spec := SignalSpec{SampleRate: 400000, BitDepth: 24, Duration: 1}
	seq := make([]int32, spec.BufferLen())
	NewGenerator(spec, 99).Fill(seq)

	for _, workers := range []int{1, 2, 4, 8} {
		par := make([]int32, spec.BufferLen())
		NewGenerator(spec, 99).FillParallel(par, workers)
		for i := range seq {
			if par[i] != seq[i] {
				t.Fatalf("workers=%d: sample[%d] = %d, want %d", workers, i, par[i], seq[i])
			}
		}
	}
}

func TestFillParallelShortBuffer(t *testing.T) {
	// Fewer samples than one chunk: must not panic, must still fill
	spec := SignalSpec{SampleRate: 100, BitDepth: 16, Duration: 1}
	g := NewGenerator(spec, 5)
	buf := make([]int32, spec.BufferLen())
	g.FillParallel(buf, 16)

	r := spec.Range()
	for i, v := range buf {
		if v < -r || v >= r {
			t.Fatalf("sample[%d] = %d outside [-%d, %d)", i, v, r, r)
		}
	}
}

// --- FillChunks ---

func TestFillChunksCoverBuffer(t *testing.T) {
	spec := SignalSpec{SampleRate: 150000, BitDepth: 24, Duration: 1}
	g := NewGenerator(spec, 11)
	buf := make([]int32, spec.BufferLen())

	total := 0
	for chunk := range g.FillChunks(context.Background(), buf) {
		total += len(chunk)
	}
	if total != len(buf) {
		t.Errorf("chunks covered %d samples, want %d", total, len(buf))
	}

	want := make([]int32, spec.BufferLen())
	NewGenerator(spec, 11).Fill(want)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("chunked fill diverged at sample %d", i)
		}
	}
}

func TestFillChunksCancel(t *testing.T) {
	spec := SignalSpec{SampleRate: 400000, BitDepth: 24, Duration: 4}
	g := NewGenerator(spec, 3)
	buf := make([]int32, spec.BufferLen())

	ctx, cancel := context.WithCancel(context.Background())
	ch := g.FillChunks(ctx, buf)
	<-ch // take one chunk
	cancel()

	// Channel must close without delivering the whole buffer
	n := 1
	for range ch {
		n++
	}
	if n >= spec.BufferLen()/ChunkSamples {
		t.Errorf("received %d chunks after cancel, expected early close", n)
	}
}
