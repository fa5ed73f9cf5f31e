// Package engine runs the codecs and transforms over files and measures them.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath names the file a job writes when the caller gave none: the compressed
// side gains the extension, the decompressed side loses it.
func OutputPath(j Job, input string, compressing bool) (string, error) {
	ext := j.extension()
	if compressing {
		return input + ext, nil
	}
	if ext == "" {
		ext = filepath.Ext(input)
	}
	trimmed, ok := strings.CutSuffix(input, ext)
	if !ok || ext == "" || trimmed == "" {
		return "", fmt.Errorf("%w: cannot derive an output name from %s without %q", ErrExtension, input, ext)
	}
	return trimmed, nil
}

// CompressFiles compresses every input next to itself. It stops at the first failure
// and returns the reports of the files done so far.
func CompressFiles(ctx context.Context, j Job, inputs []string) ([]Report, error) {
	return runFiles(ctx, j, inputs, true)
}

// DecompressFiles undoes CompressFiles.
func DecompressFiles(ctx context.Context, j Job, inputs []string) ([]Report, error) {
	return runFiles(ctx, j, inputs, false)
}

func runFiles(ctx context.Context, j Job, inputs []string, compressing bool) ([]Report, error) {
	reports := make([]Report, 0, len(inputs))
	for _, input := range inputs {
		output, err := OutputPath(j, input, compressing)
		if err != nil {
			return reports, err
		}
		job := j
		job.Input, job.Output = input, output
		var r Report
		if compressing {
			r, err = CompressFile(ctx, job)
		} else {
			r, err = DecompressFile(ctx, job)
		}
		if err != nil {
			return reports, fmt.Errorf("%s: %w", input, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
