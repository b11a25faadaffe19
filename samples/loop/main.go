package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mariocodesforfun/risc-v-to-machine/api"
	"github.com/tebeka/atexit"
)

//go:embed loop.asm
var loopKernel string

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)

	driver := api.DriverBuilder{}.
		WithLogger(logger).
		WithSink(api.NewTableSink(os.Stdout, false)).
		Build("Driver")

	res, err := driver.AssembleSource(context.Background(), strings.NewReader(loopKernel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Printf("% x\n", res.Bytes())

	atexit.Exit(0)
}
