package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/FitrahHaque/Compression-Toolkit/engine"
)

var compareCommand = &cli.Command{
	Name:      "compare-all",
	Usage:     "Compress a file with every algorithm and compare the results",
	ArgsUsage: "<input>",
	Description: "Every configuration runs concurrently and is checked by decoding its output. " +
		"No output file is written.",
	Action: compareAll,
}

func compareAll(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected exactly one input file")
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Comparing %d configurations...\n", len(engine.Configurations()))
	rows, err := engine.CompareAll(ctx.Context, data)
	if err != nil {
		return err
	}
	engine.RenderComparisons(os.Stdout, rows)
	return nil
}
