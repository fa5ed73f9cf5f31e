package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/FitrahHaque/Compression-Toolkit/compressor/arithmetic"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/engine"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

var (
	dictSizeFlag = &cli.StringFlag{
		Name:    "dict-size",
		Aliases: []string{"ds"},
		Usage:   "Maximum LZW dictionary size: SMALL (1_000), MEDIUM (10_000), LARGE (100_000), EXTRA_LARGE (1_000_000) or CUSTOM",
	}
	customSizeFlag = &cli.IntFlag{
		Name:  "custom-size",
		Usage: "Dictionary entries for --dict-size CUSTOM, must be positive",
	}
	memoryStrategyFlag = &cli.StringFlag{
		Name:    "memory-strategy",
		Aliases: []string{"ms"},
		Usage: "What LZW does when the dictionary is full: ABORT stops the compression, " +
			"STOP_STORE stops adding entries, USE_MINIMUM_REQUIRED grows the dictionary as needed",
	}
	orderFlag = &cli.IntFlag{
		Name:  "order",
		Usage: fmt.Sprintf("Longest context the PPM models condition on, 0 to %d", arithmetic.MaxOrder),
	}
	bitsFlag = &cli.IntFlag{
		Name:  "bits",
		Usage: fmt.Sprintf("Arithmetic coder register width, %d to %d", arithmetic.MinBits, arithmetic.MaxBits),
	}
	blockBitsFlag = &cli.IntFlag{
		Name:  "block-bits",
		Usage: "RLE block width in bits, 2 to 8",
	}
	transFlag = &cli.StringSliceFlag{
		Name:    "trans",
		Aliases: []string{"t"},
		Usage:   "Pre-compression transformation, repeatable. Applied in the order given, undone in reverse: " + transformHelp(),
	}
	benchmarkFlag = &cli.BoolFlag{
		Name:    "benchmark",
		Aliases: []string{"b"},
		Usage:   "Print the time and memory the codec used",
	}
	containerFlag = &cli.BoolFlag{
		Name:  "container",
		Usage: "Frame the output with its codec, transforms and a checksum of the original",
	}
	deleteFlag = &cli.BoolFlag{
		Name:  "delete",
		Usage: "Delete each input once its output is written",
	}
	outExtFlag = &cli.StringFlag{
		Name:  "outfileext",
		Usage: "Extension of compressed files, replaces the codec's default",
	}
)

var jobFlags = []cli.Flag{transFlag, benchmarkFlag, containerFlag, deleteFlag, outExtFlag}

var codecFlags = map[engine.Codec][]cli.Flag{
	engine.LZW:        {dictSizeFlag, customSizeFlag, memoryStrategyFlag},
	engine.RLE:        {blockBitsFlag},
	engine.Arithmetic: {orderFlag, bitsFlag},
}

var codecUsage = map[engine.Codec]string{
	engine.Huffman:    "Huffman coding",
	engine.LZW:        "Lempel-Ziv-Welch",
	engine.RLE:        "bit-level run-length encoding",
	engine.Arithmetic: "arithmetic coding over PPM context models",
}

var compressCommand = &cli.Command{
	Name:        "compress",
	Usage:       "Compress files",
	Description: "Each input is compressed on its own. Without an output path the result is written next to the input with the codec's extension.",
	Subcommands: codecCommands(true),
}

func transformHelp() string {
	parts := make([]string, 0, len(transform.All()))
	for _, t := range transform.All() {
		parts = append(parts, fmt.Sprintf("%v (%s)", t, t.Help()))
	}
	return strings.Join(parts, "; ")
}

func codecCommands(compressing bool) []*cli.Command {
	verb := "Compress"
	if !compressing {
		verb = "Decompress"
	}
	var cmds []*cli.Command
	for _, c := range engine.Codecs() {
		c := c
		cmds = append(cmds, &cli.Command{
			Name:      c.String(),
			Usage:     fmt.Sprintf("%s with %s", verb, codecUsage[c]),
			ArgsUsage: "<input>[,<input>...] [output]",
			Flags:     append(append([]cli.Flag{}, jobFlags...), codecFlags[c]...),
			Action: func(ctx *cli.Context) error {
				return runJobs(ctx, c, compressing)
			},
		})
	}
	return cmds
}

// jobFromFlags starts from the configuration and lets the command's flags override it.
// Without a codec the job can only be a framed one.
func jobFromFlags(ctx *cli.Context, codec engine.Codec) (engine.Job, error) {
	opts, err := config.Options()
	if err != nil {
		return engine.Job{}, err
	}
	if ctx.IsSet(dictSizeFlag.Name) || ctx.IsSet(customSizeFlag.Name) {
		preset, custom := config.LZW.DictSize, config.LZW.CustomSize
		if ctx.IsSet(dictSizeFlag.Name) {
			preset = ctx.String(dictSizeFlag.Name)
		}
		if ctx.IsSet(customSizeFlag.Name) {
			custom = ctx.Int(customSizeFlag.Name)
		}
		d, err := engine.ParseDictSize(preset)
		if err != nil {
			return engine.Job{}, err
		}
		if opts.DictSize, err = d.Entries(custom); err != nil {
			return engine.Job{}, err
		}
	}
	if ctx.IsSet(memoryStrategyFlag.Name) {
		if opts.Strategy, err = lzw.ParseStrategy(ctx.String(memoryStrategyFlag.Name)); err != nil {
			return engine.Job{}, err
		}
	}
	if ctx.IsSet(orderFlag.Name) {
		opts.Order = ctx.Int(orderFlag.Name)
	}
	if ctx.IsSet(bitsFlag.Name) {
		opts.Bits = ctx.Int(bitsFlag.Name)
	}
	if ctx.IsSet(blockBitsFlag.Name) {
		opts.BlockBits = ctx.Int(blockBitsFlag.Name)
	}

	chain, err := config.Chain()
	if err != nil {
		return engine.Job{}, err
	}
	if ctx.IsSet(transFlag.Name) {
		if chain, err = transform.ParseChain(ctx.StringSlice(transFlag.Name)); err != nil {
			return engine.Job{}, err
		}
	}

	ext := ""
	if codec.Valid() {
		ext = config.Extension(codec)
	}
	if ctx.IsSet(outExtFlag.Name) {
		ext = ctx.String(outExtFlag.Name)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}
	return engine.Job{
		Codec:      codec,
		Options:    opts,
		Transforms: chain,
		Extension:  ext,
		Benchmark:  ctx.Bool(benchmarkFlag.Name),
		Container:  ctx.Bool(containerFlag.Name) || !codec.Valid(),
		Delete:     ctx.Bool(deleteFlag.Name),
		Progress:   config.Progress,
	}, nil
}

func splitInputs(arg string) []string {
	var inputs []string
	for _, s := range strings.Split(arg, ",") {
		if s = strings.TrimSpace(s); s != "" {
			inputs = append(inputs, s)
		}
	}
	return inputs
}

func runJobs(ctx *cli.Context, codec engine.Codec, compressing bool) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return errors.New("expected <input>[,<input>...] [output]")
	}
	job, err := jobFromFlags(ctx, codec)
	if err != nil {
		return err
	}
	inputs := splitInputs(ctx.Args().Get(0))
	if len(inputs) == 0 {
		return errors.New("no input file given")
	}

	var reports []engine.Report
	if ctx.NArg() == 2 {
		if len(inputs) != 1 {
			return errors.New("an output path can only be given for a single input")
		}
		job.Input, job.Output = inputs[0], ctx.Args().Get(1)
		var r engine.Report
		if compressing {
			r, err = engine.CompressFile(ctx.Context, job)
		} else {
			r, err = engine.DecompressFile(ctx.Context, job)
		}
		if err == nil {
			reports = append(reports, r)
		}
	} else if compressing {
		reports, err = engine.CompressFiles(ctx.Context, job, inputs)
	} else {
		reports, err = engine.DecompressFiles(ctx.Context, job, inputs)
	}
	for _, r := range reports {
		printReport(os.Stdout, r, compressing)
	}
	return err
}

func printReport(w io.Writer, r engine.Report, compressing bool) {
	if r.Benchmark != nil {
		engine.RenderBenchmark(w, fmt.Sprintf("%v (%v)", r.Codec, r.Transforms), *r.Benchmark)
	}
	original, compressed := r.InputSize, r.OutputSize
	verb := "compressed"
	if !compressing {
		original, compressed = compressed, original
		verb = "decompressed"
	}
	color.New(color.FgGreen, color.Bold).Fprintf(w, "File %s successfully!\n", verb)
	fmt.Fprintf(w, "Original size (in bytes): %v\n", original)
	fmt.Fprintf(w, "Compressed size (in bytes): %v\n", compressed)
	if original > 0 {
		fmt.Fprintf(w, "Compression ratio: %.2f%%\n", float64(compressed)/float64(original)*100)
	}
}
