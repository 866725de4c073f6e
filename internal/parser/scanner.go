package parser

import (
	"strconv"

	"tagforce-string/internal/textenc"
)

// scanner walks an encoded text one logical character at a time.
type scanner struct {
	enc  textenc.Encoding
	data []byte
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.data)
}

// peekAt returns the character starting at byte offset off.
func (s *scanner) peekAt(off int) []byte {
	n := s.enc.CharLen(s.data[off:])
	return s.data[off : off+n]
}

// ascii returns the ASCII value of c, or 0 when c is anything else.
func (s *scanner) ascii(c []byte) byte {
	if len(c) != s.enc.UnitSize() {
		return 0
	}
	if u := s.enc.Unit(c); u < 0x80 {
		return byte(u)
	}
	return 0
}

// lineEnd returns the offset of the '\n' ending the line at off, or the end of
// input, and the offset just after it.
func (s *scanner) lineEnd(off int) (end, next int) {
	for off < len(s.data) {
		c := s.peekAt(off)
		if s.ascii(c) == '\n' {
			return off, off + len(c)
		}
		off += len(c)
	}
	return off, off
}

// readLine consumes one line and returns it without its '\n'.
func (s *scanner) readLine() []byte {
	end, next := s.lineEnd(s.pos)
	line := s.data[s.pos:end]
	s.pos = next
	s.line++
	return line
}

// header returns the interior of a section header line. The line is
// right-trimmed of ASCII whitespace, then must be "[...]".
func (s *scanner) header(line []byte) ([]byte, bool) {
	unit := s.enc.UnitSize()
	for len(line) >= unit && isSpace(s.ascii(line[len(line)-unit:])) {
		line = line[:len(line)-unit]
	}

	if len(line) < 2*unit || len(line)%unit != 0 {
		return nil, false
	}
	if s.ascii(line[:unit]) != '[' || s.ascii(line[len(line)-unit:]) != ']' {
		return nil, false
	}
	return line[unit : len(line)-unit], true
}

// headerAt reports whether a numeric header line starts at off.
func (s *scanner) headerAt(off int) bool {
	end, _ := s.lineEnd(off)
	interior, ok := s.header(s.data[off:end])
	if !ok {
		return false
	}
	_, ok = s.index(interior)
	return ok
}

// index parses a header interior made purely of ASCII digits.
func (s *scanner) index(interior []byte) (int, bool) {
	unit := s.enc.UnitSize()
	if len(interior) == 0 {
		return 0, false
	}

	digits := make([]byte, 0, len(interior)/unit)
	for off := 0; off < len(interior); off += unit {
		c := s.ascii(interior[off : off+unit])
		if c < '0' || c > '9' {
			return 0, false
		}
		digits = append(digits, c)
	}

	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}
	return n, true
}

// readBody consumes a section body up to the next numeric header line or the
// end of input. Other bracketed lines are body text. With escaped set, "\[" and "\\" collapse to the second character; any
// other backslash stays literal and is reported through warn.
func (s *scanner) readBody(escaped bool, warn func(line int, msg string)) []byte {
	out := []byte{}
	lineStart := true

	for !s.eof() {
		c := s.peekAt(s.pos)
		a := s.ascii(c)
		if a == '[' && lineStart && s.headerAt(s.pos) {
			break
		}
		s.pos += len(c)
		lineStart = false

		if escaped && a == '\\' {
			if s.eof() {
				warn(s.line+1, "backslash at end of input kept as literal")
				out = append(out, c...)
				break
			}

			next := s.peekAt(s.pos)
			if na := s.ascii(next); na == '[' || na == '\\' {
				out = append(out, next...)
				s.pos += len(next)
				continue
			}

			warn(s.line+1, "unknown escape sequence, backslash kept as literal")
			out = append(out, c...)
			continue
		}

		out = append(out, c...)
		if a == '\n' {
			s.line++
			lineStart = true
		}
	}

	return s.trimNewline(out)
}

// trimNewline strips one trailing '\n' and then one trailing '\r'.
func (s *scanner) trimNewline(b []byte) []byte {
	unit := s.enc.UnitSize()
	if len(b) >= unit && s.ascii(b[len(b)-unit:]) == '\n' {
		b = b[:len(b)-unit]
	}
	if len(b) >= unit && s.ascii(b[len(b)-unit:]) == '\r' {
		b = b[:len(b)-unit]
	}
	return b
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
