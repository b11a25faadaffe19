// Command rvasm assembles RV32I/M source into machine code.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/mariocodesforfun/risc-v-to-machine/api"
	"github.com/mariocodesforfun/risc-v-to-machine/config"
	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/verify"
)

var errVerifyFailed = errors.New("verification failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(stop)

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		atexit.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "rvasm: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

type options struct {
	configPath string
	input      string
	cfg        config.Config
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var (
		opts     options
		flagCfg  config.Config
		logLevel string
	)

	fs := flag.NewFlagSet("rvasm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&flagCfg.Output, "o", "", "Output file (default: stdout)")
	fs.StringVar(&flagCfg.Format, "format", config.FormatHex, "Output format: hex, bin or table")
	fs.BoolVar(&flagCfg.ABINames, "abi", false, "Accept ABI register names (zero, ra, sp, a0...)")
	fs.BoolVar(&flagCfg.Verify, "verify", false, "Lint the source and decode the output back")
	fs.StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn or error")
	fs.BoolVar(&flagCfg.Log.JSON, "log-json", false, "Log as JSON")
	fs.StringVar(&flagCfg.Color, "color", config.ColorAuto, "Table colours: auto, always or never")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rvasm [options] input.s|input.yaml|-\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	opts.input = fs.Arg(0)

	opts.cfg = config.Default()
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return options{}, err
		}
		opts.cfg = cfg
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			opts.cfg.Output = flagCfg.Output
		case "format":
			opts.cfg.Format = flagCfg.Format
		case "abi":
			opts.cfg.ABINames = flagCfg.ABINames
		case "verify":
			opts.cfg.Verify = flagCfg.Verify
		case "log-level":
			opts.cfg.Log.Level = logLevel
		case "log-json":
			opts.cfg.Log.JSON = flagCfg.Log.JSON
		case "color":
			opts.cfg.Color = flagCfg.Color
		}
	})

	if err := opts.cfg.Validate(); err != nil {
		return options{}, err
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	toStdout := cfg.Output == "" || cfg.Output == "-"

	var out bytes.Buffer
	sink, err := newSink(cfg.Format, &out, toStdout && useColor(cfg.Color, stdout))
	if err != nil {
		return err
	}

	asm := cfg.AssemblerBuilder().Build()
	driver := api.DriverBuilder{}.
		WithAssembler(asm).
		WithLogger(logger).
		WithSink(sink).
		Build("rvasm")

	var res *core.Result
	if opts.input == "-" {
		res, err = driver.AssembleSource(ctx, stdin)
	} else {
		res, err = driver.AssembleFile(ctx, opts.input)
	}
	if err != nil {
		return err
	}

	if toStdout {
		if _, err := stdout.Write(out.Bytes()); err != nil {
			return err
		}
	} else if err := os.WriteFile(cfg.Output, out.Bytes(), 0o644); err != nil {
		return err
	}

	if !cfg.Verify {
		return nil
	}

	report := verify.GenerateReport(res.Layout.Statements, res, asm.Encoder())
	report.WriteReport(stderr)
	if !report.Passed() {
		return errVerifyFailed
	}

	return nil
}

func newLogger(c config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.JSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func newSink(format string, w io.Writer, color bool) (api.Sink, error) {
	switch format {
	case config.FormatHex:
		return api.NewHexSink(w), nil
	case config.FormatBin:
		return api.NewBinarySink(w), nil
	case config.FormatTable:
		return api.NewTableSink(w, color), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// useColor resolves a colour mode. Auto colours only a terminal.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
