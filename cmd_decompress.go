package main

import "github.com/urfave/cli/v2"

var decompressCommand = &cli.Command{
	Name:  "decompress",
	Usage: "Decompress files",
	Description: "The transformations must be given in the same order as when compressing. " +
		"Without an output path the codec's extension is stripped from the input.",
	Subcommands: append(codecCommands(false), frameCommand),
}

// frameCommand decodes files written with --container without being told how they
// were made.
var frameCommand = &cli.Command{
	Name:      "frame",
	Usage:     "Decompress files written with --container, whatever codec made them",
	ArgsUsage: "<input>[,<input>...] [output]",
	Flags:     []cli.Flag{benchmarkFlag, deleteFlag, outExtFlag},
	Action: func(ctx *cli.Context) error {
		return runJobs(ctx, 0, false)
	},
}
