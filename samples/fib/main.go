package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mariocodesforfun/risc-v-to-machine/api"
	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/verify"
	"github.com/tebeka/atexit"
)

func main() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: core.LevelTrace,
	})
	slog.SetDefault(slog.New(handler))

	asm := core.NewBuilder().Build()
	driver := api.DriverBuilder{}.
		WithAssembler(asm).
		WithSink(api.NewHexSink(os.Stdout)).
		Build("Driver")

	res, err := driver.AssembleFile(context.Background(), "samples/fib/fib.yaml")
	if err != nil {
		slog.Error("Assembly failed", "err", err)
		atexit.Exit(1)
	}

	report := verify.GenerateReport(res.Layout.Statements, res, asm.Encoder())
	report.WriteReport(os.Stdout)

	atexit.Exit(0)
}
