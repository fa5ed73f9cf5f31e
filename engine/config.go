package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/FitrahHaque/Compression-Toolkit/compressor/arithmetic"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/lzw"
	"github.com/FitrahHaque/Compression-Toolkit/compressor/rle"
	"github.com/FitrahHaque/Compression-Toolkit/transform"
)

// Config is the on-disk configuration. Command line flags override it.
type Config struct {
	LogLevel   string            `toml:"log_level"`
	Progress   bool              `toml:"progress"`
	Transforms []string          `toml:"transforms"`
	Extensions map[string]string `toml:"extensions"`
	LZW        LZWConfig         `toml:"lzw"`
	Arithmetic ArithmeticConfig  `toml:"arithmetic"`
	RLE        RLEConfig         `toml:"rle"`
}

type LZWConfig struct {
	DictSize   string `toml:"dict_size"`
	CustomSize int    `toml:"custom_size"`
	Strategy   string `toml:"memory_strategy"`
}

type ArithmeticConfig struct {
	Order int `toml:"order"`
	Bits  int `toml:"bits"`
}

type RLEConfig struct {
	BlockBits int `toml:"block_bits"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Progress: true,
		LZW: LZWConfig{
			DictSize: string(Medium),
			Strategy: lzw.Abort.String(),
		},
		Arithmetic: ArithmeticConfig{Order: arithmetic.DefaultOrder, Bits: arithmetic.DefaultBits},
		RLE:        RLEConfig{BlockBits: rle.BlockBits},
	}
}

// LoadConfig reads path over the defaults. An empty path, or one that does not exist,
// yields the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("configMissing", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config log_level: %w", err)
	}
	return level, nil
}

func (c Config) Options() (Options, error) {
	preset, err := ParseDictSize(c.LZW.DictSize)
	if err != nil {
		return Options{}, err
	}
	entries, err := preset.Entries(c.LZW.CustomSize)
	if err != nil {
		return Options{}, err
	}
	strategy, err := lzw.ParseStrategy(c.LZW.Strategy)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return Options{
		DictSize:  entries,
		Strategy:  strategy,
		Order:     c.Arithmetic.Order,
		Bits:      c.Arithmetic.Bits,
		BlockBits: c.RLE.BlockBits,
	}, nil
}

func (c Config) Chain() (transform.Chain, error) {
	return transform.ParseChain(c.Transforms)
}

// Extension returns the suffix for files compressed with codec.
func (c Config) Extension(codec Codec) string {
	if ext, ok := c.Extensions[codec.String()]; ok && ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}
	return codec.Extension()
}
