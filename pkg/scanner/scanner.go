package scanner

import (
	"fmt"
)

// EOF is returned by Current once the input is exhausted. It never
// matches a letter, digit, quote or punctuation test.
const EOF byte = 0

// Error is a fatal grammar syntax violation. Translation stops at the
// first one.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
}

type Scanner struct {
	text []byte
	pos  int
}

func New(text []byte) *Scanner {
	return &Scanner{text: text}
}

func (s *Scanner) Pos() int {
	return s.pos
}

func (s *Scanner) Len() int {
	return len(s.text)
}

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.text)
}

func (s *Scanner) Errorf(format string, args ...interface{}) *Error {
	return &Error{Pos: s.pos, Message: fmt.Sprintf(format, args...)}
}

func (s *Scanner) peek(distance int) byte {
	i := s.pos + distance
	if i < 0 || i >= len(s.text) {
		return EOF
	}

	return s.text[i]
}

func (s *Scanner) Current() byte {
	return s.peek(0)
}

// Next moves past the current byte and returns the one after it.
func (s *Scanner) Next() (byte, error) {
	if s.isAtEnd() {
		return EOF, s.Errorf("unexpected end of input")
	}

	s.pos++
	return s.Current(), nil
}

// Expect consumes lit byte by byte. Whitespace is not skipped.
func (s *Scanner) Expect(lit string) error {
	for i := 0; i < len(lit); i++ {
		if s.Current() != lit[i] {
			return s.Errorf("expected `%s`", lit)
		}
		s.pos++
	}

	return nil
}

func (s *Scanner) SkipWhitespace() {
	for IsSpace(s.Current()) {
		s.pos++
	}
}

func (s *Scanner) Identifier() (string, error) {
	if !IsLetter(s.Current()) {
		return "", s.Errorf("expected identifier")
	}

	start := s.pos
	for IsAlphaNumeric(s.Current()) {
		s.pos++
	}

	return string(s.text[start:s.pos]), nil
}

// MetaSymbol returns the `.`-prefixed word at the cursor, such as
// `.OUT` or the end-of-alternative marker `.,`. The cursor does not move.
func (s *Scanner) MetaSymbol() (string, error) {
	if s.Current() != '.' {
		return "", s.Errorf("expected `.`")
	}

	n := 1
	for c := s.peek(n); IsAlphaNumeric(c) || c == ','; c = s.peek(n) {
		n++
	}

	return string(s.text[s.pos : s.pos+n]), nil
}

// String consumes a quoted literal and returns it with both quotes.
func (s *Scanner) String() (string, error) {
	if s.Current() != '\'' {
		return "", s.Errorf("expected `'`")
	}

	start := s.pos
	for {
		c, err := s.Next()
		if err != nil || s.isAtEnd() {
			return "", &Error{Pos: start, Message: "unterminated string"}
		}
		if c == '\'' {
			break
		}
	}

	s.pos++
	return string(s.text[start:s.pos]), nil
}

// Lookahead returns at most n bytes starting at the cursor.
func (s *Scanner) Lookahead(n int) string {
	if s.isAtEnd() || n <= 0 {
		return ""
	}

	end := s.pos + n
	if end > len(s.text) {
		end = len(s.text)
	}

	return string(s.text[s.pos:end])
}

func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsAlphaNumeric(c byte) bool {
	return IsLetter(c) || IsDigit(c)
}
