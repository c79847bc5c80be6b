package parser

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/agenthands/ncalc/pkg/compiler/diag"
	"github.com/agenthands/ncalc/pkg/compiler/lexer"
	"github.com/agenthands/ncalc/pkg/compiler/symbol"
	"github.com/agenthands/ncalc/pkg/core/value"
)

// Parser evaluates ncalc source in a single pass, pulling one token of
// lookahead from the scanner at a time. A Parser is good for one call to
// Evaluate or ResolveSymbols.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	curErr  error // set instead of curTok when the scanner failed

	symbols *symbol.Table
	logger  *log.Logger
	used    bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger traces declarations, assignments and results to l.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(src string, opts ...Option) *Parser {
	p := &Parser{
		scanner: lexer.NewScanner(src),
		symbols: symbol.NewTable(),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.nextToken()
	return p
}

// Evaluate runs the program and returns its arithmetic result. Declarations
// and assignments are applied as side effects along the way.
func (p *Parser) Evaluate() (int32, error) {
	p.claim()
	result, err := p.program()
	if err != nil {
		return 0, err
	}
	p.logger.Printf("result %d", result)
	return result, nil
}

// ResolveSymbols runs the program and returns a copy of the final symbol table.
func (p *Parser) ResolveSymbols() (*symbol.Table, error) {
	p.claim()
	if _, err := p.program(); err != nil {
		return nil, err
	}
	p.logger.Printf("resolved %d symbols", p.symbols.Len())
	return p.symbols.Clone(), nil
}

func (p *Parser) claim() {
	if p.used {
		panic("parser: Parser reused after a completed parse")
	}
	p.used = true
}

func (p *Parser) nextToken() {
	p.curTok, p.curErr = p.scanner.Next()
}

// peek returns the lookahead, or the scan error that replaced it.
func (p *Parser) peek() (lexer.Token, error) {
	return p.curTok, p.curErr
}

// eat consumes the lookahead. Callers must already have checked its kind; a
// mismatch is a bug in the grammar, not bad input.
func (p *Parser) eat(kind lexer.Kind) {
	if p.curErr != nil {
		panic(fmt.Sprintf("parser: eat(%v) over scan error: %v", kind, p.curErr))
	}
	if p.curTok.Kind != kind {
		panic(fmt.Sprintf("parser: eat(%v) but lookahead is %v", kind, p.curTok))
	}
	p.nextToken()
}

// expect checks the lookahead kind and consumes it, or reports what was found.
func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok, err := p.peek()
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, unexpected(tok)
	}
	p.eat(kind)
	return tok, nil
}

func unexpected(tok lexer.Token) error {
	return diag.UnexpectedToken(tok.String(), tok.Offset)
}

// program := lead (('+' | '-') term | statement)* EOF
func (p *Parser) program() (int32, error) {
	result, err := p.lead()
	if err != nil {
		return 0, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return 0, err
		}

		switch tok.Kind {
		case lexer.KindPlus, lexer.KindMinus:
			p.eat(tok.Kind)
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			if result, err = arith(tok, result, rhs); err != nil {
				return 0, err
			}
		case lexer.KindMutable, lexer.KindImmutable:
			if err := p.declaration(); err != nil {
				return 0, err
			}
		case lexer.KindIdentifier:
			if err := p.assignment(); err != nil {
				return 0, err
			}
		case lexer.KindEOF:
			return result, nil
		case lexer.KindNumber, lexer.KindMultiply, lexer.KindDivide, lexer.KindOpenParen,
			lexer.KindCloseParen, lexer.KindAssign, lexer.KindString:
			return 0, unexpected(tok)
		default:
			panic(fmt.Sprintf("parser: unhandled token kind %v", tok.Kind))
		}
	}
}

// lead parses an optional leading term; when absent it contributes 0, which
// is what lets "-5" and a bare "mut x = 1" parse.
func (p *Parser) lead() (int32, error) {
	tok, err := p.peek()
	if err != nil {
		return 0, err
	}
	if tok.Kind == lexer.KindNumber || tok.Kind == lexer.KindOpenParen {
		return p.term()
	}
	return 0, nil
}

// additive := lead (('+' | '-') term)*
func (p *Parser) additive() (int32, error) {
	tok, err := p.peek()
	if err != nil {
		return 0, err
	}
	if !startsOperand(tok.Kind) {
		return 0, unexpected(tok)
	}

	result, err := p.lead()
	if err != nil {
		return 0, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != lexer.KindPlus && tok.Kind != lexer.KindMinus {
			return result, nil
		}
		p.eat(tok.Kind)
		rhs, err := p.term()
		if err != nil {
			return 0, err
		}
		if result, err = arith(tok, result, rhs); err != nil {
			return 0, err
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *Parser) term() (int32, error) {
	result, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return 0, err
		}
		if tok.Kind != lexer.KindMultiply && tok.Kind != lexer.KindDivide {
			return result, nil
		}
		p.eat(tok.Kind)
		rhs, err := p.factor()
		if err != nil {
			return 0, err
		}
		if result, err = arith(tok, result, rhs); err != nil {
			return 0, err
		}
	}
}

// factor := Number | '(' additive ')'
func (p *Parser) factor() (int32, error) {
	tok, err := p.peek()
	if err != nil {
		return 0, err
	}

	switch tok.Kind {
	case lexer.KindNumber:
		p.eat(lexer.KindNumber)
		return tok.Number, nil
	case lexer.KindOpenParen:
		p.eat(lexer.KindOpenParen)
		result, err := p.additive()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(lexer.KindCloseParen); err != nil {
			return 0, err
		}
		return result, nil
	default:
		return 0, unexpected(tok)
	}
}

// rhs := String | ('+' | '-')? term
//
// An initializer binds a single term; a following '+' or '-' belongs to the
// program's running sum, so "10 mut x = 5 + 3" binds 5 and evaluates to 13.
func (p *Parser) rhs() (value.Value, error) {
	tok, err := p.peek()
	if err != nil {
		return value.Value{}, err
	}

	switch tok.Kind {
	case lexer.KindString:
		p.eat(lexer.KindString)
		return value.Str(tok.Text), nil
	case lexer.KindPlus, lexer.KindMinus:
		p.eat(tok.Kind)
		n, err := p.term()
		if err != nil {
			return value.Value{}, err
		}
		if n, err = arith(tok, 0, n); err != nil {
			return value.Value{}, err
		}
		return value.Int(n), nil
	}

	n, err := p.term()
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(n), nil
}

// declaration := ('mut' | 'immut') Identifier '=' rhs
func (p *Parser) declaration() error {
	mutable := p.curTok.Kind == lexer.KindMutable
	p.eat(p.curTok.Kind)

	name, err := p.expect(lexer.KindIdentifier)
	if err != nil {
		return err
	}
	if _, err := p.expect(lexer.KindAssign); err != nil {
		return err
	}
	v, err := p.rhs()
	if err != nil {
		return err
	}

	if _, exists := p.symbols.Get(name.Text); exists {
		return diag.RedeclaredVariable(name.Text, name.Offset)
	}
	p.symbols.Add(symbol.New(name.Text, v, mutable))
	p.logger.Printf("declare %s %s = %s", mutability(mutable), name.Text, v.Literal())
	return nil
}

// assignment := Identifier '=' rhs
func (p *Parser) assignment() error {
	name := p.curTok
	p.eat(lexer.KindIdentifier)

	if _, err := p.expect(lexer.KindAssign); err != nil {
		return err
	}
	v, err := p.rhs()
	if err != nil {
		return err
	}

	existing, ok := p.symbols.Get(name.Text)
	if !ok {
		return diag.UndeclaredVariable(name.Text, name.Offset)
	}
	if !existing.Value.SameType(v) {
		return diag.IncompatibleVariableType(v.String(), name.Text, existing.Value.TypeName(), name.Offset)
	}
	if !existing.Mutable {
		return diag.ImmutableVariable(name.Text, name.Offset)
	}

	if _, ok := p.symbols.ReplaceWithSameName(symbol.New(name.Text, v, true)); !ok {
		panic(fmt.Sprintf("parser: symbol %q vanished during assignment", name.Text))
	}
	p.logger.Printf("assign %s = %s (was %s)", name.Text, v.Literal(), existing.Value.Literal())
	return nil
}

func startsOperand(k lexer.Kind) bool {
	switch k {
	case lexer.KindNumber, lexer.KindOpenParen, lexer.KindPlus, lexer.KindMinus:
		return true
	}
	return false
}

func mutability(mutable bool) string {
	if mutable {
		return "mut"
	}
	return "immut"
}

// arith applies the operator token op to a and b in 32-bit arithmetic,
// reporting division by zero and results outside the int32 range.
func arith(op lexer.Token, a, b int32) (int32, error) {
	var r int64
	var sym string
	switch op.Kind {
	case lexer.KindPlus:
		r, sym = int64(a)+int64(b), "+"
	case lexer.KindMinus:
		r, sym = int64(a)-int64(b), "-"
	case lexer.KindMultiply:
		r, sym = int64(a)*int64(b), "*"
	case lexer.KindDivide:
		if b == 0 {
			return 0, diag.DivisionByZero(op.Offset)
		}
		r, sym = int64(a)/int64(b), "/"
	default:
		panic(fmt.Sprintf("parser: %v is not an arithmetic operator", op))
	}

	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0, diag.NumericOverflow(fmt.Sprintf("%d %s %d", a, sym, b), op.Offset)
	}
	return int32(r), nil
}
