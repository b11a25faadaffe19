package api

import (
	"log/slog"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	assembler *core.Assembler
	logger    *slog.Logger
	sinks     []Sink
}

// WithAssembler sets the assembler. The default is an RV32IM assembler
// without ABI register names.
func (b DriverBuilder) WithAssembler(a *core.Assembler) DriverBuilder {
	b.assembler = a
	return b
}

// WithLogger sets the logger. The default is slog.Default().
func (b DriverBuilder) WithLogger(logger *slog.Logger) DriverBuilder {
	b.logger = logger
	return b
}

// WithSink registers a sink on the driver being built.
func (b DriverBuilder) WithSink(sink Sink) DriverBuilder {
	b.sinks = append(b.sinks[:len(b.sinks):len(b.sinks)], sink)
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		name:      name,
		assembler: b.assembler,
		logger:    b.logger,
	}

	if d.assembler == nil {
		d.assembler = core.NewBuilder().Build()
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	for _, s := range b.sinks {
		d.RegisterSink(s)
	}

	return d
}
