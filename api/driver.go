// Package api defines the driver API that connects sources, the
// assembler and output sinks.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

// Driver provides the interface to assemble programs.
type Driver interface {
	// RegisterSink adds a sink. Every successful run is delivered to all
	// registered sinks in registration order.
	RegisterSink(sink Sink)

	// AssembleFile loads a .s source or a .yaml statement file and
	// assembles it.
	AssembleFile(ctx context.Context, path string) (*core.Result, error)

	// AssembleSource assembles assembly text.
	AssembleSource(ctx context.Context, r io.Reader) (*core.Result, error)

	// Assemble assembles already tokenized statements.
	Assemble(ctx context.Context, stmts []instr.Statement) (*core.Result, error)
}

type driverImpl struct {
	name      string
	assembler *core.Assembler
	logger    *slog.Logger

	sinks []Sink
}

// RegisterSink adds a sink to the driver.
func (d *driverImpl) RegisterSink(sink Sink) {
	d.sinks = append(d.sinks, sink)
}

func (d *driverImpl) AssembleFile(ctx context.Context, path string) (*core.Result, error) {
	stmts, err := core.LoadProgramFile(path)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Loaded program", "driver", d.name, "path", path, "statements", len(stmts))

	return d.Assemble(ctx, stmts)
}

func (d *driverImpl) AssembleSource(ctx context.Context, r io.Reader) (*core.Result, error) {
	stmts, err := core.ParseASM(r)
	if err != nil {
		return nil, err
	}

	return d.Assemble(ctx, stmts)
}

func (d *driverImpl) Assemble(ctx context.Context, stmts []instr.Statement) (*core.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := d.assembler.Assemble(stmts)
	if err != nil {
		d.logger.Debug("Assembly failed", "driver", d.name, "err", err)
		return nil, err
	}

	d.logger.Info("Assembled",
		"driver", d.name,
		"instructions", len(res.Insts),
		"labels", len(res.Layout.Labels),
		"bytes", res.Layout.Size,
	)

	if err := d.deliver(ctx, res); err != nil {
		return nil, err
	}

	return res, nil
}

func (d *driverImpl) deliver(ctx context.Context, res *core.Result) error {
	for i, sink := range d.sinks {
		if err := d.deliverOne(ctx, sink, res); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}

	return nil
}

func (d *driverImpl) deliverOne(ctx context.Context, sink Sink, res *core.Result) error {
	if err := sink.Begin(res.Layout); err != nil {
		return err
	}

	for _, inst := range res.Insts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := sink.Emit(inst); err != nil {
			return err
		}
	}

	return sink.End()
}
