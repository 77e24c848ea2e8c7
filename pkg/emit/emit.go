package emit

import (
	"bufio"
	"io"
	"strings"

	"github.com/kartiknair/metac/pkg/opcode"
)

// Line is one line of the instruction stream: a label definition when
// Label is set, an instruction otherwise.
type Line struct {
	Label   string
	Op      opcode.Opcode
	Operand string
}

func (l Line) IsLabel() bool {
	return l.Label != ""
}

func (l Line) String() string {
	if l.IsLabel() {
		return l.Label
	}
	if l.Operand == "" {
		return "\t" + l.Op.String()
	}

	return "\t" + l.Op.String() + " " + l.Operand
}

// Sink receives the instruction stream in order.
type Sink interface {
	Label(name string)
	Instruction(op opcode.Opcode, operand string)
}

// Writer prints each line as it arrives. The first write error is kept
// and reported by Flush.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(l Line) {
	if w.err != nil {
		return
	}

	_, w.err = w.w.WriteString(l.String() + "\n")
}

func (w *Writer) Label(name string) {
	w.write(Line{Label: name})
}

func (w *Writer) Instruction(op opcode.Opcode, operand string) {
	w.write(Line{Op: op, Operand: operand})
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}

	w.err = w.w.Flush()
	return w.err
}

// Recorder keeps the stream in memory.
type Recorder struct {
	Lines []Line
}

func (r *Recorder) Label(name string) {
	r.Lines = append(r.Lines, Line{Label: name})
}

func (r *Recorder) Instruction(op opcode.Opcode, operand string) {
	r.Lines = append(r.Lines, Line{Op: op, Operand: operand})
}

func (r *Recorder) String() string {
	var sb strings.Builder
	for _, l := range r.Lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}
