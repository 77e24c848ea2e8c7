// Package compiler translates a META II grammar into instructions for the
// parsing machine in a single pass. There is no syntax tree: each
// construct is emitted as soon as it is recognized, and forward branches
// work because their labels are allocated before the code they skip.
package compiler

import (
	"github.com/alecthomas/repr"
	"github.com/go-logr/logr"

	"github.com/kartiknair/metac/pkg/emit"
	"github.com/kartiknair/metac/pkg/label"
	"github.com/kartiknair/metac/pkg/opcode"
	"github.com/kartiknair/metac/pkg/scanner"
)

// lookahead is how much upcoming input a trace entry shows.
const lookahead = 10

type Options struct {
	// Trace enables the step-by-step trace on Logger.
	Trace  bool
	Logger logr.Logger
}

type Compiler struct {
	s      *scanner.Scanner
	labels label.Allocator
	out    emit.Sink
	log    logr.Logger
}

func New(src []byte, out emit.Sink, opts Options) *Compiler {
	log := logr.Discard()
	if opts.Trace {
		log = opts.Logger
	}

	return &Compiler{
		s:   scanner.New(src),
		out: out,
		log: log,
	}
}

// Compile translates a whole grammar. Lines emitted before an error are
// not taken back.
func Compile(src []byte, out emit.Sink, opts Options) error {
	return New(src, out, opts).Program()
}

func (c *Compiler) trace(msg string, keysAndValues ...interface{}) {
	if !c.log.V(1).Enabled() {
		return
	}

	kv := append([]interface{}{"pos", c.s.Pos(), "next", c.s.Lookahead(lookahead)}, keysAndValues...)
	c.log.V(1).Info(msg, kv...)
}

func (c *Compiler) emit(op opcode.Opcode, operand string) {
	c.trace("emit", "line", repr.String(emit.Line{Op: op, Operand: operand}, repr.NoIndent()))
	c.out.Instruction(op, operand)
}

func (c *Compiler) label(name string) {
	c.trace("emit", "label", name)
	c.out.Label(name)
}

// expect consumes lit and the whitespace after it.
func (c *Compiler) expect(lit string) error {
	if err := c.s.Expect(lit); err != nil {
		return err
	}

	c.s.SkipWhitespace()
	return nil
}

func (c *Compiler) identifier() (string, error) {
	id, err := c.s.Identifier()
	if err != nil {
		return "", err
	}

	c.s.SkipWhitespace()
	return id, nil
}

func (c *Compiler) str() (string, error) {
	lit, err := c.s.String()
	if err != nil {
		return "", err
	}

	c.s.SkipWhitespace()
	return lit, nil
}

// Program = '.SYNTAX' .ID $rule '.END'
func (c *Compiler) Program() error {
	c.trace("program")

	c.s.SkipWhitespace()
	if err := c.expect(".SYNTAX"); err != nil {
		return err
	}

	root, err := c.identifier()
	if err != nil {
		return err
	}
	c.emit(opcode.ADR, root)

	for scanner.IsAlphaNumeric(c.s.Current()) {
		if err := c.rule(); err != nil {
			return err
		}
	}

	if err := c.s.Expect(".END"); err != nil {
		return err
	}
	c.emit(opcode.END, "")

	return nil
}

// rule = .ID '=' alternation '.,'
func (c *Compiler) rule() error {
	name, err := c.identifier()
	if err != nil {
		return err
	}
	c.trace("rule", "name", name)
	c.label(name)

	if err := c.expect("="); err != nil {
		return err
	}
	if err := c.alternation(); err != nil {
		return err
	}
	if err := c.expect(".,"); err != nil {
		return err
	}

	c.emit(opcode.R, "")
	return nil
}

// alternation = sequence $('/' sequence)
//
// Every alternative after the first is guarded by BT so a match in an
// earlier one skips straight to the exit label.
func (c *Compiler) alternation() error {
	c.trace("alternation")

	exit := c.labels.New()
	if err := c.sequence(); err != nil {
		return err
	}

	for c.s.Current() == '/' {
		if err := c.expect("/"); err != nil {
			return err
		}
		c.emit(opcode.BT, exit)

		if err := c.sequence(); err != nil {
			return err
		}
	}

	c.label(exit)
	return nil
}

func isBuiltin(sym string) bool {
	switch sym {
	case ".EMPTY", ".ID", ".NUMBER", ".STRING":
		return true
	}

	return false
}

func isOutput(sym string) bool {
	return sym == ".OUT" || sym == ".LABEL"
}

func canStartPrimary(ch byte) bool {
	return scanner.IsLetter(ch) || ch == '\'' || ch == '(' || ch == '$'
}

// sequence = (primary | output) $(primary | output)
//
// Only the first primary may fail softly (BF to the end of the sequence).
// Once it has matched, a failing later primary aborts the parse with BE.
func (c *Compiler) sequence() error {
	c.trace("sequence")

	fail := c.labels.New()

	if c.s.Current() == '.' {
		sym, err := c.s.MetaSymbol()
		if err != nil {
			return err
		}

		switch {
		case isOutput(sym):
			if err := c.output(sym); err != nil {
				return err
			}
		case isBuiltin(sym):
			if err := c.primary(); err != nil {
				return err
			}
			c.emit(opcode.BF, fail)
		default:
			return c.s.Errorf("unknown symbol `%s`", sym)
		}
	} else if canStartPrimary(c.s.Current()) {
		if err := c.primary(); err != nil {
			return err
		}
		c.emit(opcode.BF, fail)
	} else {
		return c.s.Errorf("expected symbol")
	}

	for canStartPrimary(c.s.Current()) || c.s.Current() == '.' {
		if c.s.Current() == '.' {
			sym, err := c.s.MetaSymbol()
			if err != nil {
				return err
			}
			if sym == ".," {
				break
			}

			switch {
			case isOutput(sym):
				if err := c.output(sym); err != nil {
					return err
				}
				continue
			case !isBuiltin(sym):
				return c.s.Errorf("unknown symbol `%s`", sym)
			}
		}

		if err := c.primary(); err != nil {
			return err
		}
		c.emit(opcode.BE, "")
	}

	c.label(fail)
	return nil
}

// primary = builtin | '(' alternation ')' | '$' primary | .STRING | .ID
func (c *Compiler) primary() error {
	c.trace("primary")

	switch ch := c.s.Current(); {
	case ch == '.':
		sym, err := c.s.MetaSymbol()
		if err != nil {
			return err
		}

		var op opcode.Opcode
		switch sym {
		case ".EMPTY":
			op = opcode.SET
		case ".ID":
			op = opcode.ID
		case ".NUMBER":
			op = opcode.NUM
		case ".STRING":
			op = opcode.STR
		default:
			return c.s.Errorf("unknown symbol `%s`", sym)
		}

		if err := c.expect(sym); err != nil {
			return err
		}
		c.emit(op, "")

	case ch == '(':
		if err := c.expect("("); err != nil {
			return err
		}
		if err := c.alternation(); err != nil {
			return err
		}
		if err := c.expect(")"); err != nil {
			return err
		}

	case ch == '$':
		if err := c.expect("$"); err != nil {
			return err
		}

		loop := c.labels.New()
		c.label(loop)
		if err := c.primary(); err != nil {
			return err
		}
		c.emit(opcode.BT, loop)
		// zero iterations still succeed
		c.emit(opcode.SET, "")

	case ch == '\'':
		lit, err := c.str()
		if err != nil {
			return err
		}
		c.emit(opcode.TST, lit)

	case scanner.IsLetter(ch):
		name, err := c.identifier()
		if err != nil {
			return err
		}
		c.emit(opcode.CLL, name)

	default:
		return c.s.Errorf("expected identifier, string, symbol, `$`, or `(`")
	}

	return nil
}

// output = '.OUT(' $item ')' | '.LABEL' item
func (c *Compiler) output(sym string) error {
	c.trace("output", "action", sym)

	switch sym {
	case ".OUT":
		if err := c.expect(".OUT("); err != nil {
			return err
		}
		for c.s.Current() != ')' {
			if err := c.outputItem(); err != nil {
				return err
			}
		}
		if err := c.expect(")"); err != nil {
			return err
		}

	case ".LABEL":
		if err := c.expect(".LABEL"); err != nil {
			return err
		}
		c.emit(opcode.LB, "")
		if err := c.outputItem(); err != nil {
			return err
		}

	default:
		return c.s.Errorf("unknown symbol `%s`", sym)
	}

	c.emit(opcode.OUT, "")
	return nil
}

// item = '*1' | '*2' | '*' | .STRING
func (c *Compiler) outputItem() error {
	switch c.s.Current() {
	case '*':
		if err := c.s.Expect("*"); err != nil {
			return err
		}

		switch c.s.Current() {
		case '1':
			if err := c.s.Expect("1"); err != nil {
				return err
			}
			c.emit(opcode.GN1, "")
		case '2':
			if err := c.s.Expect("2"); err != nil {
				return err
			}
			c.emit(opcode.GN2, "")
		default:
			c.emit(opcode.CI, "")
		}
		c.s.SkipWhitespace()

	case '\'':
		lit, err := c.str()
		if err != nil {
			return err
		}
		c.emit(opcode.CL, lit)

	default:
		return c.s.Errorf("expected `*` or a quoted literal")
	}

	return nil
}
