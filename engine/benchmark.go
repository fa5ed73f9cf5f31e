package engine

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
)

const heapSampleInterval = 10 * time.Millisecond

// BenchmarkResult describes one Encode or Decode call. OriginalSize is always the
// uncompressed side and CompressedSize the compressed side, whichever way the call went.
type BenchmarkResult struct {
	Duration       time.Duration
	AllocBytes     uint64
	PeakHeap       uint64
	OriginalSize   int
	CompressedSize int
	Ratio          float64
	SpaceSaving    float64
}

func newBenchmarkResult(original, compressed int) BenchmarkResult {
	r := BenchmarkResult{OriginalSize: original, CompressedSize: compressed, Ratio: 1}
	if compressed > 0 {
		r.Ratio = float64(original) / float64(compressed)
	}
	if original > 0 {
		r.SpaceSaving = 1 - float64(compressed)/float64(original)
	}
	return r
}

// Benchmark runs c on data, encoding when compress is set and decoding otherwise, and
// measures the call. Allocation figures come from the process-wide runtime counters.
func Benchmark(c compressor.Compressor, data []byte, compress bool) ([]byte, BenchmarkResult, error) {
	run := c.Decode
	if compress {
		run = c.Encode
	}
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	sampler := startHeapSampler(before.HeapAlloc)
	start := time.Now()
	out, err := run(data)
	elapsed := time.Since(start)
	peak := sampler.stop()
	if err != nil {
		return nil, BenchmarkResult{}, err
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	var r BenchmarkResult
	if compress {
		r = newBenchmarkResult(len(data), len(out))
	} else {
		r = newBenchmarkResult(len(out), len(data))
	}
	r.Duration = elapsed
	r.AllocBytes = after.TotalAlloc - before.TotalAlloc
	r.PeakHeap = max(peak, after.HeapAlloc)
	return out, r, nil
}

type heapSampler struct {
	wg   sync.WaitGroup
	done chan struct{}
	peak uint64
}

func startHeapSampler(initial uint64) *heapSampler {
	s := &heapSampler{done: make(chan struct{}), peak: initial}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(heapSampleInterval)
		defer ticker.Stop()
		var m runtime.MemStats
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				runtime.ReadMemStats(&m)
				s.peak = max(s.peak, m.HeapAlloc)
			}
		}
	}()
	return s
}

func (s *heapSampler) stop() uint64 {
	close(s.done)
	s.wg.Wait()
	return s.peak
}

func mebibytes(n uint64) string {
	return fmt.Sprintf("%.2f", float64(n)/(1<<20))
}

// RenderBenchmark prints r as a two column table.
func RenderBenchmark(w io.Writer, title string, r BenchmarkResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{title, "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Total time (s)", fmt.Sprintf("%.4f", r.Duration.Seconds())})
	table.Append([]string{"Allocated (MiB)", mebibytes(r.AllocBytes)})
	table.Append([]string{"Peak heap (MiB)", mebibytes(r.PeakHeap)})
	table.Append([]string{"Original size (bytes)", fmt.Sprintf("%d", r.OriginalSize)})
	table.Append([]string{"Compressed size (bytes)", fmt.Sprintf("%d", r.CompressedSize)})
	table.Append([]string{"Compression ratio", fmt.Sprintf("%.2f", r.Ratio)})
	table.Append([]string{"Space saving", fmt.Sprintf("%.2f %%", 100*r.SpaceSaving)})
	table.Render()
}
