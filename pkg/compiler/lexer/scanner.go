package lexer

import (
	"math"
	"strings"
	"unicode"

	"github.com/agenthands/ncalc/pkg/compiler/diag"
)

// Scanner performs lexical analysis on ncalc source, one token per call.
type Scanner struct {
	source []rune
	cursor int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	return &Scanner{source: []rune(source)}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source string) {
	s.source = s.source[:0]
	for _, r := range source {
		s.source = append(s.source, r)
	}
	s.cursor = 0
}

// Pos returns the current cursor as a rune offset.
func (s *Scanner) Pos() int {
	return s.cursor
}

// Next returns the next token from the source. Once KindEOF is returned every
// later call returns KindEOF as well.
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Offset: len(s.source)}, nil
	}

	start := s.cursor
	ch := s.source[s.cursor]

	if isDigit(ch) {
		return s.scanNumber()
	}

	if isIdentStart(ch) {
		return s.scanIdentifier(), nil
	}

	if ch == '"' {
		return s.scanString()
	}

	s.cursor++
	var kind Kind
	switch ch {
	case '+':
		kind = KindPlus
	case '-':
		kind = KindMinus
	case '*':
		kind = KindMultiply
	case '/':
		kind = KindDivide
	case '(':
		kind = KindOpenParen
	case ')':
		kind = KindCloseParen
	case '=':
		kind = KindAssign
	default:
		return Token{}, diag.UnsupportedCharacter(ch, start)
	}

	return Token{Kind: kind, Offset: start}, nil
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) && unicode.IsSpace(s.source[s.cursor]) {
		s.cursor++
	}
}

func (s *Scanner) scanNumber() (Token, error) {
	start := s.cursor
	var n int64
	overflow := false
	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		if !overflow {
			n = n*10 + int64(s.source[s.cursor]-'0')
			overflow = n > math.MaxInt32
		}
		s.cursor++
	}
	if overflow {
		return Token{}, diag.NumericOverflow(string(s.source[start:s.cursor]), start)
	}
	return Token{Kind: KindNumber, Number: int32(n), Offset: start}, nil
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) && isIdentChar(s.source[s.cursor]) {
		s.cursor++
	}

	literal := string(s.source[start:s.cursor])
	switch literal {
	case "mut":
		return Token{Kind: KindMutable, Offset: start}
	case "immut":
		return Token{Kind: KindImmutable, Offset: start}
	}
	return Token{Kind: KindIdentifier, Text: literal, Offset: start}
}

func (s *Scanner) scanString() (Token, error) {
	start := s.cursor
	s.cursor++ // Skip opening '"'

	var b strings.Builder
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		switch {
		case ch == '"':
			s.cursor++
			return Token{Kind: KindString, Text: b.String(), Offset: start}, nil
		case ch == '\\' && s.cursor+1 < len(s.source):
			if esc, ok := unescape(s.source[s.cursor+1]); ok {
				b.WriteRune(esc)
				s.cursor += 2
				continue
			}
			b.WriteRune(ch)
		default:
			b.WriteRune(ch)
		}
		s.cursor++
	}

	return Token{}, diag.UnterminatedString(start)
}

func unescape(ch rune) (rune, bool) {
	switch ch {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	}
	return 0, false
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isIdentStart admits letters and '_'; digits are claimed by scanNumber first.
func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}
