// Package config holds the assembler tool configuration and its YAML
// loader.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
)

// Output formats.
const (
	FormatHex   = "hex"
	FormatBin   = "bin"
	FormatTable = "table"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config configures one run of the assembler tool.
type Config struct {
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	ABINames bool   `yaml:"abi_names"`
	Verify   bool   `yaml:"verify"`
	Color    string `yaml:"color"`
	Log      Log    `yaml:"log"`
}

// Log configures the slog handler installed by the CLI.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given: hex
// words on stdout, numeric registers only, info logging.
func Default() Config {
	return Config{
		Format: FormatHex,
		Color:  ColorAuto,
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a YAML config file on top of Default. Fields the file does
// not set keep their default; unknown fields are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Decode is Load for an already open reader.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Format {
	case FormatHex, FormatBin, FormatTable:
	default:
		return fmt.Errorf("%w: format %q, want hex, bin or table", ErrInvalidConfig, c.Format)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color %q, want auto, always or never", ErrInvalidConfig, c.Color)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel maps the level name to a slog level. "trace" selects
// core.LevelTrace; the rest follow slog's own names.
func (l Log) SlogLevel() (slog.Level, error) {
	if strings.EqualFold(l.Level, "trace") {
		return core.LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, l.Level)
	}

	return level, nil
}

// AssemblerBuilder returns a core.Builder set up from c.
func (c Config) AssemblerBuilder() core.Builder {
	return core.NewBuilder().WithABINames(c.ABINames)
}
