// Package listing reads an emitted instruction stream back in and checks
// it for the structural defects a well-formed grammar never produces.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kartiknair/metac/pkg/emit"
	"github.com/kartiknair/metac/pkg/opcode"
)

type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("listing: line %d: %s", e.Line, e.Message)
}

// Parse reads one label or instruction per line. Instructions are the
// indented lines; blank lines are ignored.
func Parse(r io.Reader) ([]emit.Line, error) {
	var lines []emit.Line

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}

		if text[0] != ' ' && text[0] != '\t' {
			if strings.ContainsAny(trimmed, " \t") {
				return nil, &ParseError{Line: n, Message: fmt.Sprintf("malformed label %q", trimmed)}
			}
			lines = append(lines, emit.Line{Label: trimmed})
			continue
		}

		name, operand, _ := strings.Cut(trimmed, " ")
		operand = strings.TrimSpace(operand)

		op, ok := opcode.Lookup(name)
		if !ok {
			return nil, &ParseError{Line: n, Message: fmt.Sprintf("unknown opcode %q", name)}
		}
		if op.HasOperand() && operand == "" {
			return nil, &ParseError{Line: n, Message: fmt.Sprintf("%s needs an operand", op)}
		}
		if !op.HasOperand() && operand != "" {
			return nil, &ParseError{Line: n, Message: fmt.Sprintf("%s takes no operand, got %q", op, operand)}
		}

		lines = append(lines, emit.Line{Op: op, Operand: operand})
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
