package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/FitrahHaque/Compression-Toolkit/compressor"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/container"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

var (
	ErrSamePath  = errors.New("input and output must be different files")
	ErrExtension = errors.New("wrong file extension")
	ErrCodec     = errors.New("codec does not match the file")
)

// Job describes one file compression or decompression.
type Job struct {
	Codec      Codec
	Options    Options
	Transforms transform.Chain
	Input      string
	Output     string
	// Extension overrides the codec's default suffix for compressed files.
	Extension string
	Benchmark bool
	// Container frames the output so that decompression needs neither the codec nor
	// the transforms, and verifies a checksum of the original.
	Container bool
	// Delete removes Input once Output has been written.
	Delete   bool
	Progress bool
}

// Report summarizes a finished job.
type Report struct {
	Codec      Codec
	Transforms transform.Chain
	InputSize  int
	OutputSize int
	Benchmark  *BenchmarkResult
}

func (j Job) extension() string {
	if j.Extension != "" {
		return j.Extension
	}
	return j.Codec.Extension()
}

// validatePaths requires the compressed side to carry ext and the two paths to name
// different files.
func validatePaths(ext, input, output string, compressing bool) error {
	checked, role := output, "output"
	if !compressing {
		checked, role = input, "input"
	}
	if ext != "" && !strings.HasSuffix(checked, ext) {
		return fmt.Errorf("%w: %s file must end in %q", ErrExtension, role, ext)
	}
	in, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	if in == out {
		return ErrSamePath
	}
	if a, err := os.Stat(in); err == nil {
		if b, err := os.Stat(out); err == nil && os.SameFile(a, b) {
			return ErrSamePath
		}
	}
	return nil
}

func readInput(path string, prog *progress) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	r, done := prog.reader(f, info.Size())
	defer done()
	return io.ReadAll(r)
}

func applyTransforms(prog *progress, chain transform.Chain, data []byte, inverse bool) ([]byte, error) {
	var err error
	if inverse {
		for i := len(chain) - 1; i >= 0; i-- {
			done := prog.stage(fmt.Sprintf("Computing inverse %v...", chain[i]))
			data, err = chain[i].DecodeData(data)
			done()
			if err != nil {
				return nil, fmt.Errorf("inverse %v: %w", chain[i], err)
			}
		}
		return data, nil
	}
	for _, t := range chain {
		done := prog.stage(fmt.Sprintf("Computing %v...", t))
		data, err = t.EncodeData(data)
		done()
		if err != nil {
			return nil, fmt.Errorf("%v: %w", t, err)
		}
	}
	return data, nil
}

// run calls c once, measuring the call when benchmark is set.
func run(c compressor.Compressor, data []byte, compress, benchmark bool) ([]byte, *BenchmarkResult, error) {
	if benchmark {
		out, r, err := Benchmark(c, data, compress)
		if err != nil {
			return nil, nil, err
		}
		return out, &r, nil
	}
	if compress {
		out, err := c.Encode(data)
		return out, nil, err
	}
	out, err := c.Decode(data)
	return out, nil, err
}

func finish(j Job, output []byte) error {
	if err := os.WriteFile(j.Output, output, 0644); err != nil {
		return err
	}
	if j.Delete {
		if err := os.Remove(j.Input); err != nil {
			return fmt.Errorf("deleting %s: %w", j.Input, err)
		}
	}
	return nil
}

// CompressFile reads j.Input, runs the transforms and the codec over it and writes the
// result to j.Output.
func CompressFile(ctx context.Context, j Job) (Report, error) {
	if err := validatePaths(j.extension(), j.Input, j.Output, true); err != nil {
		return Report{}, err
	}
	c, err := NewCompressor(j.Codec, j.Options)
	if err != nil {
		return Report{}, err
	}
	prog := newProgress(j.Progress)
	data, err := readInput(j.Input, prog)
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	transformed, err := applyTransforms(prog, j.Transforms, data, false)
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	done := prog.stage("Encoding data...")
	encoded, bench, err := run(c, transformed, true, j.Benchmark)
	done()
	if err != nil {
		return Report{}, fmt.Errorf("%v: %w", j.Codec, err)
	}
	if j.Container {
		h := container.Header{Codec: byte(j.Codec), Transforms: j.Transforms, Params: j.Options.Params(j.Codec)}
		encoded = container.Wrap(h, encoded, container.NewTrailer(data))
	}

	done = prog.stage("Writing to output file...")
	err = finish(j, encoded)
	done()
	if err != nil {
		return Report{}, err
	}
	slog.Debug("compressDone", "codec", j.Codec, "transforms", j.Transforms, "in", len(data), "out", len(encoded))
	return Report{Codec: j.Codec, Transforms: j.Transforms, InputSize: len(data), OutputSize: len(encoded), Benchmark: bench}, nil
}

// DecompressFile undoes CompressFile. With j.Container set the codec, its parameters and
// the transforms come from the frame, and j.Codec, when set, must agree with it.
func DecompressFile(ctx context.Context, j Job) (Report, error) {
	ext := j.extension()
	if j.Container && !j.Codec.Valid() {
		ext = j.Extension
	}
	if err := validatePaths(ext, j.Input, j.Output, false); err != nil {
		return Report{}, err
	}
	prog := newProgress(j.Progress)
	data, err := readInput(j.Input, prog)
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var (
		decoded []byte
		bench   *BenchmarkResult
		report  = Report{Codec: j.Codec, Transforms: j.Transforms, InputSize: len(data)}
	)
	if j.Container {
		done := prog.stage("Decoding frame...")
		var h container.Header
		decoded, h, err = container.Open(data, j.resolver(&bench))
		done()
		if err != nil {
			return Report{}, err
		}
		report.Codec, report.Transforms = Codec(h.Codec), h.Transforms
	} else {
		c, err := NewCompressor(j.Codec, j.Options)
		if err != nil {
			return Report{}, err
		}
		done := prog.stage("Decoding data...")
		decoded, bench, err = run(c, data, false, j.Benchmark)
		done()
		if err != nil {
			return Report{}, fmt.Errorf("%v: %w", j.Codec, err)
		}
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if decoded, err = applyTransforms(prog, j.Transforms, decoded, true); err != nil {
			return Report{}, err
		}
	}

	done := prog.stage("Writing to output file...")
	err = finish(j, decoded)
	done()
	if err != nil {
		return Report{}, err
	}
	slog.Debug("decompressDone", "codec", report.Codec, "transforms", report.Transforms, "in", len(data), "out", len(decoded))
	report.OutputSize = len(decoded)
	report.Benchmark = bench
	return report, nil
}

// resolver builds the codec a frame names. When j.Benchmark is set the decode call is
// measured into *bench.
func (j Job) resolver(bench **BenchmarkResult) container.Resolver {
	return func(h container.Header) (compressor.Compressor, error) {
		codec := Codec(h.Codec)
		if !codec.Valid() {
			return nil, fmt.Errorf("%w: codec id %d", container.ErrHeader, h.Codec)
		}
		if j.Codec.Valid() && codec != j.Codec {
			return nil, fmt.Errorf("%w: frame holds %v data, not %v", ErrCodec, codec, j.Codec)
		}
		opts, err := j.Options.WithParams(codec, h.Params)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", container.ErrHeader, err)
		}
		c, err := NewCompressor(codec, opts)
		if err != nil {
			return nil, err
		}
		if !j.Benchmark {
			return c, nil
		}
		return compressor.Func{
			EncodeFunc: c.Encode,
			DecodeFunc: func(data []byte) ([]byte, error) {
				out, r, err := run(c, data, false, true)
				*bench = r
				return out, err
			},
		}, nil
	}
}
