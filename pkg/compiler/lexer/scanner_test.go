package lexer_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/agenthands/ncalc/pkg/compiler/diag"
	"github.com/agenthands/ncalc/pkg/compiler/lexer"
)

func scanAll(t *testing.T, src string) []lexer.Token {
	t.Helper()
	s := lexer.NewScanner(src)
	var toks []lexer.Token
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected scan error for %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == lexer.KindEOF {
			return toks
		}
	}
}

func TestScannerZeroAlloc(t *testing.T) {
	src := "(33 + 4) * 3 - 4 / 2"
	s := lexer.NewScanner(src)

	allocs := testing.AllocsPerRun(10, func() {
		s.Reset(src)
		for {
			tok, err := s.Next()
			if err != nil || tok.Kind == lexer.KindEOF {
				break
			}
		}
	})

	if allocs > 0 {
		t.Errorf("expected 0 allocations, got %f", allocs)
	}
}

func TestScannerArithmetic(t *testing.T) {
	toks := scanAll(t, "33+4*3-4/2")

	expected := []lexer.Token{
		{Kind: lexer.KindNumber, Number: 33},
		{Kind: lexer.KindPlus},
		{Kind: lexer.KindNumber, Number: 4},
		{Kind: lexer.KindMultiply},
		{Kind: lexer.KindNumber, Number: 3},
		{Kind: lexer.KindMinus},
		{Kind: lexer.KindNumber, Number: 4},
		{Kind: lexer.KindDivide},
		{Kind: lexer.KindNumber, Number: 2},
		{Kind: lexer.KindEOF},
	}

	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}
	for i, exp := range expected {
		if !toks[i].Equal(exp) {
			t.Errorf("token %d: expected %v, got %v", i, exp, toks[i])
		}
	}
}

func TestScannerStatements(t *testing.T) {
	toks := scanAll(t, "mut x_1 = (5) immut _y = \"hi\" mutable")

	expected := []lexer.Kind{
		lexer.KindMutable,
		lexer.KindIdentifier,
		lexer.KindAssign,
		lexer.KindOpenParen,
		lexer.KindNumber,
		lexer.KindCloseParen,
		lexer.KindImmutable,
		lexer.KindIdentifier,
		lexer.KindAssign,
		lexer.KindString,
		lexer.KindIdentifier,
		lexer.KindEOF,
	}

	for i, exp := range expected {
		if toks[i].Kind != exp {
			t.Errorf("token %d: expected kind %v, got %v", i, exp, toks[i].Kind)
		}
	}
	if toks[1].Text != "x_1" || toks[7].Text != "_y" || toks[10].Text != "mutable" {
		t.Errorf("unexpected identifier payloads: %q %q %q", toks[1].Text, toks[7].Text, toks[10].Text)
	}
	if toks[9].Text != "hi" {
		t.Errorf("expected string payload 'hi', got %q", toks[9].Text)
	}
}

func TestScannerNumbers(t *testing.T) {
	for _, n := range []int32{0, 7, 42, 1000, 65535, 2147483647} {
		src := strconv.FormatInt(int64(n), 10)
		toks := scanAll(t, src)
		if len(toks) != 2 {
			t.Fatalf("%s: expected Number then EOF, got %v", src, toks)
		}
		if toks[0].Kind != lexer.KindNumber || toks[0].Number != n {
			t.Errorf("%s: expected number %d, got %v", src, n, toks[0])
		}
	}
}

func TestScannerIdentifiersVerbatim(t *testing.T) {
	for _, name := range []string{"x", "mutt", "imm", "immutable", "Mut", "_", "über", "a1b2"} {
		toks := scanAll(t, name)
		if toks[0].Kind != lexer.KindIdentifier || toks[0].Text != name {
			t.Errorf("%q: expected identifier verbatim, got %v", name, toks[0])
		}
	}
}

func TestScannerStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\"b\\c\nd\qe"`)
	if toks[0].Kind != lexer.KindString {
		t.Fatalf("expected string literal, got %v", toks[0])
	}
	if want := "a\"b\\c\nd\\qe"; toks[0].Text != want {
		t.Errorf("expected %q, got %q", want, toks[0].Text)
	}
}

func TestScannerEOFIsSticky(t *testing.T) {
	s := lexer.NewScanner("  1  ")
	if tok, _ := s.Next(); tok.Kind != lexer.KindNumber {
		t.Fatalf("expected number, got %v", tok)
	}
	for i := 0; i < 3; i++ {
		tok, err := s.Next()
		if err != nil || tok.Kind != lexer.KindEOF {
			t.Fatalf("call %d: expected EOF, got %v (%v)", i, tok, err)
		}
		if s.Pos() != 5 {
			t.Errorf("cursor moved past input: %d", s.Pos())
		}
	}
}

func TestScannerOffsets(t *testing.T) {
	toks := scanAll(t, "é + 12")
	if toks[0].Kind != lexer.KindIdentifier || toks[0].Offset != 0 {
		t.Errorf("unexpected first token %v at %d", toks[0], toks[0].Offset)
	}
	if toks[1].Offset != 2 || toks[2].Offset != 4 {
		t.Errorf("offsets must count runes, got %d and %d", toks[1].Offset, toks[2].Offset)
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *diag.Error
	}{
		{"Unsupported", "1 + $", diag.UnsupportedCharacter('$', 4)},
		{"UnsupportedUnicode", "λ€", diag.UnsupportedCharacter('€', 1)},
		{"Overflow", "2147483648", diag.NumericOverflow("2147483648", 0)},
		{"Unterminated", `x = "abc`, diag.UnterminatedString(4)},
		{"TrailingBackslash", `"abc\`, diag.UnterminatedString(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := lexer.NewScanner(tt.src)
			var err error
			for err == nil {
				var tok lexer.Token
				tok, err = s.Next()
				if tok.Kind == lexer.KindEOF && err == nil {
					t.Fatalf("expected error, reached EOF")
				}
			}
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("expected *diag.Error, got %T", err)
			}
			if *de != *tt.want {
				t.Errorf("expected %+v, got %+v", *tt.want, *de)
			}
		})
	}
}

func FuzzScanner(f *testing.F) {
	f.Add("33+4*3-4/2")
	f.Add("mut x = \"hi\\n\" x = 10")
	f.Add("\"unterminated")
	f.Add("99999999999")

	f.Fuzz(func(t *testing.T, src string) {
		s := lexer.NewScanner(src)
		limit := len([]rune(src)) + 1
		for i := 0; i <= limit; i++ {
			prev := s.Pos()
			tok, err := s.Next()
			if s.Pos() < prev || s.Pos() > limit-1 {
				t.Fatalf("cursor out of bounds: %d -> %d", prev, s.Pos())
			}
			if err != nil || tok.Kind == lexer.KindEOF {
				return
			}
		}
		t.Fatalf("scanner did not terminate on %q", src)
	})
}
