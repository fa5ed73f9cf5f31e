package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/container"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

var sample = []byte(strings.Repeat("she sells sea shells by the sea shore, ", 30))

func TestParseCodec(t *testing.T) {
	for _, c := range Codecs() {
		parsed, err := ParseCodec(strings.ToUpper(c.String()))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.True(t, strings.HasPrefix(c.Extension(), "."))
	}
	_, err := ParseCodec("lz77")
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.False(t, Codec(0).Valid())
	assert.Equal(t, "Codec(9)", Codec(9).String())
}

func TestNewCompressorRoundTrip(t *testing.T) {
	for _, c := range Codecs() {
		t.Run(c.String(), func(t *testing.T) {
			comp, err := NewCompressor(c, DefaultOptions())
			require.NoError(t, err)
			for _, input := range [][]byte{nil, {0}, sample} {
				encoded, err := comp.Encode(input)
				require.NoError(t, err)
				decoded, err := comp.Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, len(input), len(decoded))
				assert.True(t, bytes.Equal(input, decoded))
			}
		})
	}
	_, err := NewCompressor(Codec(42), DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownCodec)

	bad := DefaultOptions()
	bad.DictSize = 0
	_, err = NewCompressor(LZW, bad)
	assert.ErrorIs(t, err, lzw.ErrInvalidDictSize)
}

func TestDictSizes(t *testing.T) {
	tests := []struct {
		name   string
		custom int
		want   int
	}{
		{"small", 0, 1_000},
		{"MEDIUM", 0, 10_000},
		{"Large", 0, 100_000},
		{"extra_large", 0, 1_000_000},
		{"custom", 77, 77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDictSize(tt.name)
			require.NoError(t, err)
			n, err := d.Entries(tt.custom)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
	_, err := Custom.Entries(0)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = ParseDictSize("huge")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestOptionParams(t *testing.T) {
	o := DefaultOptions()
	o.Order, o.Bits, o.BlockBits = 5, 20, 3
	assert.Equal(t, []byte{5, 20}, o.Params(Arithmetic))
	assert.Equal(t, []byte{3}, o.Params(RLE))
	assert.Nil(t, o.Params(Huffman))
	assert.Nil(t, o.Params(LZW))

	restored, err := DefaultOptions().WithParams(Arithmetic, o.Params(Arithmetic))
	require.NoError(t, err)
	assert.Equal(t, 5, restored.Order)
	assert.Equal(t, 20, restored.Bits)

	_, err = DefaultOptions().WithParams(RLE, nil)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = DefaultOptions().WithParams(Huffman, []byte{1})
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "toolkit.toml", []byte(`
log_level = "debug"
progress = false
transforms = ["bwt", "mtf"]

[extensions]
huffman = "hf"

[lzw]
dict_size = "custom"
custom_size = 4096
memory_strategy = "stop_store"

[arithmetic]
order = 3
bits = 24

[rle]
block_bits = 3
`))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Progress)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, Options{DictSize: 4096, Strategy: lzw.StopStore, Order: 3, Bits: 24, BlockBits: 3}, o)

	chain, err := cfg.Chain()
	require.NoError(t, err)
	assert.Equal(t, transform.Chain{transform.BWT, transform.MTF}, chain)

	assert.Equal(t, ".hf", cfg.Extension(Huffman))
	assert.Equal(t, ".lzw", cfg.Extension(LZW))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), o)

	partial := writeFile(t, "partial.toml", []byte("log_level = \"warn\"\n"))
	cfg, err = LoadConfig(partial)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Progress)
	assert.Equal(t, string(Medium), cfg.LZW.DictSize)
}

func TestLoadConfigErrors(t *testing.T) {
	unknown := writeFile(t, "unknown.toml", []byte("colour = true\n"))
	_, err := LoadConfig(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")

	broken := writeFile(t, "broken.toml", []byte("log_level = \n"))
	_, err = LoadConfig(broken)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.LZW.Strategy = "panic"
	_, err = cfg.Options()
	assert.ErrorIs(t, err, ErrInvalidOption)

	cfg = DefaultConfig()
	cfg.LogLevel = "chatty"
	_, err = cfg.Level()
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	chains := []transform.Chain{nil, {transform.BWT, transform.MTF}}
	for _, c := range Codecs() {
		for _, chain := range chains {
			for _, framed := range []bool{false, true} {
				name := c.String() + "/" + chain.String()
				if framed {
					name += "/container"
				}
				t.Run(name, func(t *testing.T) {
					input := writeFile(t, "input.txt", sample)
					dir := filepath.Dir(input)
					job := Job{
						Codec:      c,
						Options:    DefaultOptions(),
						Transforms: chain,
						Input:      input,
						Output:     filepath.Join(dir, "input"+c.Extension()),
						Container:  framed,
					}
					report, err := CompressFile(context.Background(), job)
					require.NoError(t, err)
					assert.Equal(t, len(sample), report.InputSize)
					assert.Nil(t, report.Benchmark)

					back := job
					back.Input, back.Output = job.Output, filepath.Join(dir, "output.txt")
					if framed {
						back.Codec, back.Transforms = 0, nil
					}
					report, err = DecompressFile(context.Background(), back)
					require.NoError(t, err)
					assert.Equal(t, c, report.Codec)
					assert.Equal(t, len(sample), report.OutputSize)

					got, err := os.ReadFile(back.Output)
					require.NoError(t, err)
					assert.Equal(t, sample, got)
				})
			}
		}
	}
}

func TestContainerCarriesCodecParams(t *testing.T) {
	input := writeFile(t, "input.txt", sample)
	dir := filepath.Dir(input)
	opts := DefaultOptions()
	opts.Order, opts.Bits = 3, 24
	job := Job{Codec: Arithmetic, Options: opts, Input: input, Output: filepath.Join(dir, "input.ac"), Container: true}
	_, err := CompressFile(context.Background(), job)
	require.NoError(t, err)

	back := Job{Codec: Arithmetic, Options: DefaultOptions(), Input: job.Output, Output: filepath.Join(dir, "out.txt"), Container: true}
	_, err = DecompressFile(context.Background(), back)
	require.NoError(t, err)
	got, err := os.ReadFile(back.Output)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	wrong := back
	wrong.Codec = Huffman
	wrong.Extension = ".ac"
	_, err = DecompressFile(context.Background(), wrong)
	assert.ErrorIs(t, err, ErrCodec)
}

func TestContainerDetectsCorruption(t *testing.T) {
	input := writeFile(t, "input.txt", sample)
	dir := filepath.Dir(input)
	job := Job{Codec: Huffman, Options: DefaultOptions(), Input: input, Output: filepath.Join(dir, "input.huff"), Container: true}
	_, err := CompressFile(context.Background(), job)
	require.NoError(t, err)

	frame, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	frame[len(frame)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(job.Output, frame, 0644))

	_, err = DecompressFile(context.Background(), Job{Codec: Huffman, Options: DefaultOptions(), Input: job.Output, Output: filepath.Join(dir, "out.txt"), Container: true})
	assert.ErrorIs(t, err, container.ErrSize)
}

func TestDecompressMalformed(t *testing.T) {
	input := writeFile(t, "garbage.huff", []byte{0xFF, 0xFF, 0xFF, 0x09})
	_, err := DecompressFile(context.Background(), Job{Codec: Huffman, Options: DefaultOptions(), Input: input, Output: input + ".out"})
	assert.ErrorIs(t, err, compressor.ErrFormat)
	_, err = os.Stat(input + ".out")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidatePaths(t *testing.T) {
	input := writeFile(t, "data.bin", sample)
	dir := filepath.Dir(input)
	opts := DefaultOptions()

	_, err := CompressFile(context.Background(), Job{Codec: LZW, Options: opts, Input: input, Output: filepath.Join(dir, "data.huff")})
	assert.ErrorIs(t, err, ErrExtension)

	_, err = DecompressFile(context.Background(), Job{Codec: LZW, Options: opts, Input: input, Output: filepath.Join(dir, "data.out")})
	assert.ErrorIs(t, err, ErrExtension)

	same := writeFile(t, "loop.rle", sample)
	_, err = CompressFile(context.Background(), Job{Codec: RLE, Options: opts, Input: same, Output: same})
	assert.ErrorIs(t, err, ErrSamePath)
	_, err = DecompressFile(context.Background(), Job{Codec: RLE, Options: opts, Input: same, Output: filepath.Join(filepath.Dir(same), ".", "loop.rle")})
	assert.ErrorIs(t, err, ErrSamePath)

	_, err = CompressFile(context.Background(), Job{Codec: Huffman, Options: opts, Input: filepath.Join(dir, "absent"), Output: filepath.Join(dir, "absent.huff")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLZWAbortSurfacesError(t *testing.T) {
	input := writeFile(t, "input.txt", sample)
	opts := DefaultOptions()
	opts.DictSize, opts.Strategy = 1, lzw.Abort
	_, err := CompressFile(context.Background(), Job{Codec: LZW, Options: opts, Input: input, Output: input + ".lzw"})
	assert.ErrorIs(t, err, lzw.ErrTooManyEncodings)
}

func TestBenchmarkedJobAndDelete(t *testing.T) {
	input := writeFile(t, "input.txt", sample)
	job := Job{Codec: Huffman, Options: DefaultOptions(), Input: input, Output: input + ".huff", Benchmark: true, Delete: true}
	report, err := CompressFile(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, report.Benchmark)
	assert.Equal(t, len(sample), report.Benchmark.OriginalSize)
	assert.Equal(t, report.OutputSize, report.Benchmark.CompressedSize)
	assert.Greater(t, report.Benchmark.SpaceSaving, 0.0)

	_, err = os.Stat(input)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	back := Job{Codec: Huffman, Options: DefaultOptions(), Input: job.Output, Output: input, Benchmark: true, Container: false}
	report, err = DecompressFile(context.Background(), back)
	require.NoError(t, err)
	require.NotNil(t, report.Benchmark)
	assert.Equal(t, len(sample), report.Benchmark.OriginalSize)
}

func TestCanceledJob(t *testing.T) {
	input := writeFile(t, "input.txt", sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompressFile(ctx, Job{Codec: Huffman, Options: DefaultOptions(), Input: input, Output: input + ".huff"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = os.Stat(input + ".huff")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOutputPath(t *testing.T) {
	j := Job{Codec: RLE}
	out, err := OutputPath(j, "notes.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt.rle", out)

	out, err = OutputPath(j, "notes.txt.rle", false)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", out)

	_, err = OutputPath(j, "notes.txt", false)
	assert.ErrorIs(t, err, ErrExtension)

	out, err = OutputPath(Job{Container: true}, "notes.txt.ac", false)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", out)

	j.Extension = ".r"
	out, err = OutputPath(j, "notes.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt.r", out)
}

func TestCompressFiles(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.txt", "b.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, append([]byte(name), sample...), 0644))
		inputs = append(inputs, path)
	}
	job := Job{Codec: LZW, Options: DefaultOptions(), Transforms: transform.Chain{transform.MTF}}
	reports, err := CompressFiles(context.Background(), job, inputs)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for _, input := range inputs {
		require.NoError(t, os.Remove(input))
	}
	compressed := []string{inputs[0] + ".lzw", inputs[1] + ".lzw"}
	reports, err = DecompressFiles(context.Background(), job, compressed)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, input := range inputs {
		got, err := os.ReadFile(input)
		require.NoError(t, err)
		assert.Equal(t, append([]byte(filepath.Base(input)), sample...), got)
	}

	reports, err = DecompressFiles(context.Background(), job, []string{compressed[0], filepath.Join(dir, "c.txt")})
	assert.ErrorIs(t, err, ErrExtension)
	assert.Len(t, reports, 1)
}
