package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindNumber     // 123
	KindPlus       // +
	KindMinus      // -
	KindMultiply   // *
	KindDivide     // /
	KindOpenParen  // (
	KindCloseParen // )
	KindIdentifier // x
	KindMutable    // mut
	KindImmutable  // immut
	KindAssign     // =
	KindString     // "text"
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of input"
	case KindNumber:
		return "number"
	case KindPlus:
		return "'+'"
	case KindMinus:
		return "'-'"
	case KindMultiply:
		return "'*'"
	case KindDivide:
		return "'/'"
	case KindOpenParen:
		return "'('"
	case KindCloseParen:
		return "')'"
	case KindIdentifier:
		return "identifier"
	case KindMutable:
		return "'mut'"
	case KindImmutable:
		return "'immut'"
	case KindAssign:
		return "'='"
	case KindString:
		return "string literal"
	default:
		panic(fmt.Sprintf("lexer: unknown token kind %d", uint8(k)))
	}
}

// Token is a lexical unit. Number holds the payload of KindNumber, Text the
// payload of KindIdentifier and KindString; both are zero for other kinds.
type Token struct {
	Kind   Kind
	Number int32
	Text   string
	Offset int // rune offset of the first character
}

// Equal compares kind and payload, ignoring where the token was found.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind && t.Number == o.Number && t.Text == o.Text
}

// String describes the token for diagnostics, e.g. "identifier 'x'".
func (t Token) String() string {
	switch t.Kind {
	case KindNumber:
		return fmt.Sprintf("number %d", t.Number)
	case KindIdentifier:
		return fmt.Sprintf("identifier '%s'", t.Text)
	case KindString:
		return fmt.Sprintf("string literal %q", t.Text)
	default:
		return t.Kind.String()
	}
}
