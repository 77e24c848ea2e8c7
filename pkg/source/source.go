package source

import (
	"bytes"
	"fmt"
	"strings"
)

// File is a grammar source held in memory for the whole run.
type File struct {
	Path string
	Text []byte
}

type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Position maps a byte offset to a 1-based line and column. Offsets past
// the end are clamped to the end of the text.
func (f *File) Position(offset int) Pos {
	if offset > len(f.Text) {
		offset = len(f.Text)
	}
	if offset < 0 {
		offset = 0
	}

	before := f.Text[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	column := offset - bytes.LastIndexByte(before, '\n')

	return Pos{Line: line, Column: column}
}

func (f *File) lines() []string {
	text := strings.ReplaceAll(string(f.Text), "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Context renders the line holding offset with its neighbours and a
// caret under the offending column.
func (f *File) Context(offset int) string {
	pos := f.Position(offset)
	sourceLines := f.lines()
	current := sourceLines[pos.Line-1]

	highlight := make([]byte, pos.Column)
	for i := 0; i < pos.Column-1; i++ {
		if i < len(current) && current[i] == '\t' {
			highlight[i] = '\t'
		} else {
			highlight[i] = ' '
		}
	}
	highlight[pos.Column-1] = '^'

	var sb strings.Builder
	if pos.Line > 1 {
		fmt.Fprintf(&sb, "\n%4d | %s", pos.Line-1, sourceLines[pos.Line-2])
	}
	fmt.Fprintf(&sb, "\n%4d | %s", pos.Line, current)
	fmt.Fprintf(&sb, "\n     | %s", highlight)
	if pos.Line < len(sourceLines) && sourceLines[pos.Line] != "" {
		fmt.Fprintf(&sb, "\n%4d | %s", pos.Line+1, sourceLines[pos.Line])
	}

	return sb.String()
}
