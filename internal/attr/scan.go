package attr

import (
	"strings"

	"jinjade/internal/diag"
)

// ReportFunc receives scan errors with a byte offset relative to the scanned
// text; the caller translates offsets into spans.
type ReportFunc func(code diag.Code, off int, msg string)

// Scan parses an attribute list from src, which must start at the opening
// parenthesis. It returns the raw attributes in source order (unmerged), the
// number of bytes consumed including the closing parenthesis, and whether
// scanning succeeded. On failure the error has already been reported.
func Scan(src string, report ReportFunc) ([]Attr, int, bool) {
	s := scanner{src: src, report: report}
	if !s.eat('(') {
		s.fail(diag.AttrBadKey, s.pos, "attribute list must start with '('")
		return nil, s.pos, false
	}
	for {
		s.skipSpace()
		if s.eat(')') {
			return s.attrs, s.pos, true
		}
		if s.eof() {
			s.fail(diag.AttrUnterminated, s.pos, "unterminated attribute list")
			return nil, s.pos, false
		}
		if !s.key() {
			return nil, s.pos, false
		}
		s.skipSpace()
		switch {
		case s.eat('='):
			s.skipSpace()
			val, ok := s.expr()
			if !ok {
				return nil, s.pos, false
			}
			s.attrs = append(s.attrs, Attr{Key: s.lastKey, Val: val})
			// expr stops at ',' or ')'; consume a separating comma if present
			s.eat(',')
		case s.eat(','):
			s.attrs = append(s.attrs, Attr{Key: s.lastKey, Boolean: true})
		case s.peek() == ')':
			s.attrs = append(s.attrs, Attr{Key: s.lastKey, Boolean: true})
		default:
			s.fail(diag.AttrBadSeparator, s.pos, "expected '=', ',' or ')' after attribute key")
			return nil, s.pos, false
		}
	}
}

type scanner struct {
	src     string
	pos     int
	attrs   []Attr
	lastKey string
	report  ReportFunc
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) eat(b byte) bool {
	if !s.eof() && s.src[s.pos] == b {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) fail(code diag.Code, off int, msg string) {
	if s.report != nil {
		s.report(code, off, msg)
	}
}

func isKeyByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == ':' || b == '_'
}

func (s *scanner) key() bool {
	start := s.pos
	for !s.eof() && isKeyByte(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		s.fail(diag.AttrBadKey, s.pos, "expected attribute key")
		return false
	}
	s.lastKey = s.src[start:s.pos]
	return true
}

// expr scans an opaque value expression terminated by ',' or ')' at bracket
// depth zero. Commas and parentheses inside (), [], {} or string literals do
// not terminate; backslash escapes are honored inside strings.
func (s *scanner) expr() (string, bool) {
	openerOf := map[byte]byte{')': '(', ']': '[', '}': '{'}
	var enclose []byte
	var quoteCh byte
	start := s.pos

	for {
		if s.eof() {
			s.fail(diag.AttrUnterminated, start, "unterminated value expression")
			return "", false
		}
		b := s.src[s.pos]
		switch {
		case quoteCh != 0:
			if b == quoteCh {
				quoteCh = 0
			} else if b == '\\' {
				s.pos++
				if s.eof() {
					s.fail(diag.AttrUnterminated, s.pos, "unterminated string literal")
					return "", false
				}
			}
		case (b == ',' || b == ')') && len(enclose) == 0:
			return strings.TrimRight(s.src[start:s.pos], " \t"), true
		case b == '"' || b == '\'':
			quoteCh = b
		case b == '(' || b == '[' || b == '{':
			enclose = append(enclose, b)
		case b == ')' || b == ']' || b == '}':
			opener := openerOf[b]
			if len(enclose) == 0 || enclose[len(enclose)-1] != opener {
				s.fail(diag.AttrUnbalanced, s.pos, "unbalanced bracket in value expression")
				return "", false
			}
			enclose = enclose[:len(enclose)-1]
		}
		s.pos++
	}
}
