package engine

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/huffman"
)

func TestBenchmarkResultSizes(t *testing.T) {
	r := newBenchmarkResult(200, 50)
	assert.Equal(t, 4.0, r.Ratio)
	assert.InDelta(t, 0.75, r.SpaceSaving, 1e-9)

	r = newBenchmarkResult(10, 20)
	assert.Equal(t, 0.5, r.Ratio)
	assert.InDelta(t, -1.0, r.SpaceSaving, 1e-9)

	r = newBenchmarkResult(0, 0)
	assert.Equal(t, 1.0, r.Ratio)
	assert.Zero(t, r.SpaceSaving)
}

func TestBenchmark(t *testing.T) {
	c := huffman.New()
	encoded, r, err := Benchmark(c, sample, true)
	require.NoError(t, err)
	assert.Equal(t, len(sample), r.OriginalSize)
	assert.Equal(t, len(encoded), r.CompressedSize)
	assert.Greater(t, r.Ratio, 1.0)
	assert.Positive(t, r.PeakHeap)

	decoded, r, err := Benchmark(c, encoded, false)
	require.NoError(t, err)
	assert.Equal(t, sample, decoded)
	assert.Equal(t, len(sample), r.OriginalSize)
	assert.Equal(t, len(encoded), r.CompressedSize)

	_, _, err = Benchmark(c, []byte{1, 2, 3, 200}, false)
	assert.ErrorIs(t, err, compressor.ErrFormat)
}

func TestRenderBenchmark(t *testing.T) {
	var out bytes.Buffer
	RenderBenchmark(&out, "Huffman", newBenchmarkResult(100, 40))
	assert.Contains(t, out.String(), "Compression ratio")
	assert.Contains(t, out.String(), "2.50")
	assert.Contains(t, out.String(), "60.00 %")
}

func TestCompareAll(t *testing.T) {
	rows, err := CompareAll(context.Background(), sample)
	require.NoError(t, err)
	require.Len(t, rows, len(Configurations()))

	names := make(map[string]bool)
	for i, row := range rows {
		names[row.Name] = true
		assert.Equal(t, len(sample), row.Result.OriginalSize, row.Name)
		assert.Positive(t, row.Result.CompressedSize, row.Name)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].Result.Ratio, row.Result.Ratio)
		}
	}
	assert.True(t, names["zstd (reference)"])
	assert.True(t, names["LZW (smallest memory usage)"])
}

func TestCompareAllRandomInput(t *testing.T) {
	data := make([]byte, 3000)
	rand.New(rand.NewSource(9)).Read(data)
	rows, err := CompareAll(context.Background(), data)
	require.NoError(t, err)
	assert.Len(t, rows, len(Configurations()))
}

func TestCompareReportsFailures(t *testing.T) {
	broken := Configuration{
		Name: "lossy",
		New: func() (compressor.Compressor, error) {
			return compressor.Func{
				EncodeFunc: func(data []byte) ([]byte, error) { return data[:len(data)/2], nil },
				DecodeFunc: func(data []byte) ([]byte, error) { return data, nil },
			}, nil
		},
	}
	failing := Configuration{
		Name: "failing",
		New:  func() (compressor.Compressor, error) { return nil, errors.New("no codec") },
	}
	_, err := compare(context.Background(), sample, []Configuration{broken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lossy")

	_, err = compare(context.Background(), sample, []Configuration{failing})
	assert.ErrorContains(t, err, "no codec")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = compare(ctx, sample, Configurations())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSavingColor(t *testing.T) {
	assert.Same(t, savingColors[0].c, savingColor(0.9))
	assert.Same(t, savingColors[0].c, savingColor(0.4))
	assert.Same(t, savingColors[1].c, savingColor(0.2))
	assert.Same(t, savingColors[2].c, savingColor(0))
	assert.Same(t, negativeSaving, savingColor(-0.01))
}

func TestRenderComparisons(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	RenderComparisons(&out, []Comparison{
		{Name: "good", Result: newBenchmarkResult(100, 25)},
		{Name: "bad", Result: newBenchmarkResult(100, 120)},
	})
	text := out.String()
	assert.Less(t, strings.Index(text, "good"), strings.Index(text, "bad"))
	assert.Contains(t, text, "4.00")
	assert.Contains(t, text, "-20.00 %")
}
