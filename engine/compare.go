package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/fatih/color"
	"github.com/klauspost/compress/zstd"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

// Configuration is one row of a comparison. New builds a fresh compressor for every
// run, so configurations can be measured concurrently.
type Configuration struct {
	Name       string
	Transforms transform.Chain
	New        func() (compressor.Compressor, error)
}

func codecConfiguration(name string, c Codec, o Options, chain transform.Chain) Configuration {
	return Configuration{
		Name:       name,
		Transforms: chain,
		New:        func() (compressor.Compressor, error) { return NewCompressor(c, o) },
	}
}

// Configurations lists what CompareAll measures.
func Configurations() []Configuration {
	bwtMTF := transform.Chain{transform.BWT, transform.MTF}
	best := DefaultOptions()
	best.DictSize, best.Strategy = dictSizes[ExtraLarge], lzw.UseMinimumRequired
	medium := DefaultOptions()
	medium.DictSize, medium.Strategy = dictSizes[Medium], lzw.StopStore
	small := DefaultOptions()
	small.DictSize, small.Strategy = dictSizes[Small], lzw.StopStore
	defaults := DefaultOptions()

	return []Configuration{
		codecConfiguration("Huffman coding (no transforms)", Huffman, defaults, nil),
		codecConfiguration("Huffman coding (BWT + MTF)", Huffman, defaults, bwtMTF),
		codecConfiguration("LZW (best compression rate, no transforms)", LZW, best, nil),
		codecConfiguration("LZW (best compression rate, BWT + MTF)", LZW, best, bwtMTF),
		codecConfiguration("LZW (medium memory usage)", LZW, medium, nil),
		codecConfiguration("LZW (smallest memory usage)", LZW, small, nil),
		codecConfiguration("RLE (no transforms)", RLE, defaults, nil),
		codecConfiguration("RLE (BWT + MTF)", RLE, defaults, bwtMTF),
		codecConfiguration(fmt.Sprintf("Arithmetic coding (PPM order %d)", defaults.Order), Arithmetic, defaults, nil),
		{Name: "zstd (reference)", New: newZstd},
	}
}

// newZstd wraps klauspost's zstd as a compressor. It is only ever used as a yardstick.
func newZstd() (compressor.Compressor, error) {
	return compressor.Func{
		EncodeFunc: func(data []byte) ([]byte, error) {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				return nil, err
			}
			defer enc.Close()
			return enc.EncodeAll(data, nil), nil
		},
		DecodeFunc: func(data []byte) ([]byte, error) {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				return nil, err
			}
			defer dec.Close()
			return dec.DecodeAll(data, nil)
		},
	}, nil
}

// Comparison is the outcome of one configuration. Sizes are measured against the
// untransformed input.
type Comparison struct {
	Name   string
	Result BenchmarkResult
}

// CompareAll compresses data with every configuration concurrently, checks that each
// output decodes back to data and returns the results best ratio first.
func CompareAll(ctx context.Context, data []byte) ([]Comparison, error) {
	return compare(ctx, data, Configurations())
}

func compare(ctx context.Context, data []byte, configs []Configuration) ([]Comparison, error) {
	digest := xxhash.Sum64(data)
	results := make([]Comparison, len(configs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := measure(cfg, data, digest)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			slog.Debug("compareDone", "config", cfg.Name, "ratio", r.Ratio, "duration", r.Duration)
			results[i] = Comparison{Name: cfg.Name, Result: r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Result.Ratio > results[b].Result.Ratio
	})
	return results, nil
}

func measure(cfg Configuration, data []byte, digest uint64) (BenchmarkResult, error) {
	c, err := cfg.New()
	if err != nil {
		return BenchmarkResult{}, err
	}
	transformed, err := cfg.Transforms.EncodeData(data)
	if err != nil {
		return BenchmarkResult{}, err
	}
	encoded, r, err := Benchmark(c, transformed, true)
	if err != nil {
		return BenchmarkResult{}, err
	}

	// A fresh instance proves the stream carries everything needed to decode it.
	d, err := cfg.New()
	if err != nil {
		return BenchmarkResult{}, err
	}
	decoded, err := d.Decode(encoded)
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("verifying: %w", err)
	}
	if decoded, err = cfg.Transforms.DecodeData(decoded); err != nil {
		return BenchmarkResult{}, fmt.Errorf("verifying: %w", err)
	}
	if xxhash.Sum64(decoded) != digest || !bytes.Equal(decoded, data) {
		return BenchmarkResult{}, fmt.Errorf("verifying: output does not decode to the input")
	}

	sized := newBenchmarkResult(len(data), len(encoded))
	sized.Duration, sized.AllocBytes, sized.PeakHeap = r.Duration, r.AllocBytes, r.PeakHeap
	return sized, nil
}

var savingColors = []struct {
	from float64
	c    *color.Color
}{
	{0.4, color.New(color.FgHiGreen)},
	{0.15, color.New(color.FgGreen)},
	{0, color.New(color.FgYellow)},
}

var negativeSaving = color.New(color.FgHiRed)

func savingColor(saving float64) *color.Color {
	for _, s := range savingColors {
		if saving >= s.from {
			return s.c
		}
	}
	return negativeSaving
}

// RenderComparisons prints rows in the order given.
func RenderComparisons(w io.Writer, rows []Comparison) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Total time (s)", "Allocated (MiB)", "Original size (bytes)",
		"Compressed size (bytes)", "Compression ratio", "Space saving"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)
	for _, row := range rows {
		r := row.Result
		paint := savingColor(r.SpaceSaving)
		table.Append([]string{
			row.Name,
			fmt.Sprintf("%.4f", r.Duration.Seconds()),
			mebibytes(r.AllocBytes),
			fmt.Sprintf("%d", r.OriginalSize),
			fmt.Sprintf("%d", r.CompressedSize),
			paint.Sprintf("%.2f", r.Ratio),
			paint.Sprintf("%.2f %%", 100*r.SpaceSaving),
		})
	}
	table.Render()
}
