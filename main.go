package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/FitrahHaque/Compression-Toolkit/engine"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level: debug, info, warn or error",
	}
	noProgressFlag = &cli.BoolFlag{
		Name:  "no-progress",
		Usage: "Never draw progress bars",
	}
)

// config holds the configuration file merged with the global flags. It is set before
// any command runs.
var config = engine.DefaultConfig()

var app = &cli.App{
	Name:                 "compression-toolkit",
	Usage:                "compress files with Huffman, LZW, RLE and arithmetic coding",
	HideHelpCommand:      true,
	EnableBashCompletion: true,
	Flags:                []cli.Flag{configFlag, verbosityFlag, noProgressFlag},
	Commands:             []*cli.Command{compressCommand, decompressCommand, compareCommand},
	Before:               setup,
}

func setup(ctx *cli.Context) error {
	cfg, err := engine.LoadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.LogLevel = ctx.String(verbosityFlag.Name)
	}
	if ctx.Bool(noProgressFlag.Name) {
		cfg.Progress = false
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	config = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
