package api

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mariocodesforfun/risc-v-to-machine/core"
)

// Sink receives the output of one assembly run: Begin once with the
// layout, Emit for every instruction in program order, then End.
type Sink interface {
	Begin(layout *core.Layout) error
	Emit(inst core.EncodedInst) error
	End() error
}

type hexSink struct {
	w io.Writer
}

// NewHexSink writes one zero-padded hex word per line.
func NewHexSink(w io.Writer) Sink {
	return &hexSink{w: w}
}

func (s *hexSink) Begin(*core.Layout) error {
	return nil
}

func (s *hexSink) Emit(inst core.EncodedInst) error {
	_, err := fmt.Fprintf(s.w, "%08x\n", inst.Word)
	return err
}

func (s *hexSink) End() error {
	return nil
}

type binarySink struct {
	w   io.Writer
	buf [core.InstSize]byte
}

// NewBinarySink writes the raw little-endian program image.
func NewBinarySink(w io.Writer) Sink {
	return &binarySink{w: w}
}

func (s *binarySink) Begin(*core.Layout) error {
	return nil
}

func (s *binarySink) Emit(inst core.EncodedInst) error {
	binary.LittleEndian.PutUint32(s.buf[:], inst.Word)
	_, err := s.w.Write(s.buf[:])
	return err
}

func (s *binarySink) End() error {
	return nil
}

type tableSink struct {
	w      io.Writer
	color  bool
	t      table.Writer
	layout *core.Layout
}

// NewTableSink renders a field-by-field breakdown table followed by the
// label table.
func NewTableSink(w io.Writer, color bool) Sink {
	return &tableSink{w: w, color: color}
}

func (s *tableSink) Begin(layout *core.Layout) error {
	s.layout = layout
	s.t = core.NewBreakdownTable(
		fmt.Sprintf("Machine code (%d bytes)", layout.Size), s.color)

	return nil
}

func (s *tableSink) Emit(inst core.EncodedInst) error {
	core.AppendBreakdown(s.t, inst, s.color)
	return nil
}

func (s *tableSink) End() error {
	if _, err := fmt.Fprintln(s.w, s.t.Render()); err != nil {
		return err
	}

	if len(s.layout.Labels) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.layout.Labels))
	for name := range s.layout.Labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ai, aj := s.layout.Labels[names[i]], s.layout.Labels[names[j]]
		if ai != aj {
			return ai < aj
		}
		return names[i] < names[j]
	})

	labels := table.NewWriter()
	labels.SetTitle("Labels")
	labels.AppendHeader(table.Row{"Label", "Address"})
	labels.SetStyle(table.StyleLight)
	for _, name := range names {
		labels.AppendRow(table.Row{name, fmt.Sprintf("0x%04x", s.layout.Labels[name])})
	}

	_, err := fmt.Fprintln(s.w, labels.Render())

	return err
}
