package diag

import "fmt"

// Kind classifies a recoverable compiler error.
type Kind uint8

const (
	KindUnsupportedCharacter Kind = iota + 1
	KindUndeclaredVariable
	KindImmutableVariable
	KindIncompatibleVariableType
	KindDivisionByZero
	KindNumericOverflow
	KindUnterminatedString
	KindUnexpectedToken
	KindRedeclaredVariable
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedCharacter:
		return "unsupported character"
	case KindUndeclaredVariable:
		return "undeclared variable"
	case KindImmutableVariable:
		return "immutable variable"
	case KindIncompatibleVariableType:
		return "incompatible variable type"
	case KindDivisionByZero:
		return "division by zero"
	case KindNumericOverflow:
		return "numeric overflow"
	case KindUnterminatedString:
		return "unterminated string"
	case KindUnexpectedToken:
		return "unexpected token"
	case KindRedeclaredVariable:
		return "redeclared variable"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the single error type returned by the scanner and parser.
// Fields other than Kind and Position are only set for the kinds that use them.
type Error struct {
	Kind     Kind
	Char     rune
	Name     string
	Offered  string
	Required string
	Text     string
	// Position is the 0-based rune offset into the source, or -1 if unknown.
	Position int
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrUnsupportedCharacter     = &Error{Kind: KindUnsupportedCharacter, Position: -1}
	ErrUndeclaredVariable       = &Error{Kind: KindUndeclaredVariable, Position: -1}
	ErrImmutableVariable        = &Error{Kind: KindImmutableVariable, Position: -1}
	ErrIncompatibleVariableType = &Error{Kind: KindIncompatibleVariableType, Position: -1}
	ErrDivisionByZero           = &Error{Kind: KindDivisionByZero, Position: -1}
	ErrNumericOverflow          = &Error{Kind: KindNumericOverflow, Position: -1}
	ErrUnterminatedString       = &Error{Kind: KindUnterminatedString, Position: -1}
	ErrUnexpectedToken          = &Error{Kind: KindUnexpectedToken, Position: -1}
	ErrRedeclaredVariable       = &Error{Kind: KindRedeclaredVariable, Position: -1}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedCharacter:
		return fmt.Sprintf("Unsupported character '%c' at position %d", e.Char, e.Position)
	case KindUndeclaredVariable:
		return fmt.Sprintf("Invalid variable declaration '%s'", e.Name)
	case KindImmutableVariable:
		return fmt.Sprintf("Trying to assign new value to immutable variable '%s'", e.Name)
	case KindIncompatibleVariableType:
		return fmt.Sprintf("Unable to assign %s to '%s' as %s is required", e.Offered, e.Name, e.Required)
	case KindDivisionByZero:
		return fmt.Sprintf("Division by zero at position %d", e.Position)
	case KindNumericOverflow:
		return fmt.Sprintf("Numeric overflow in '%s' at position %d", e.Text, e.Position)
	case KindUnterminatedString:
		return fmt.Sprintf("Unterminated string literal starting at position %d", e.Position)
	case KindUnexpectedToken:
		return fmt.Sprintf("Unexpected %s at position %d", e.Text, e.Position)
	case KindRedeclaredVariable:
		return fmt.Sprintf("Variable '%s' is already declared", e.Name)
	default:
		return e.Kind.String()
	}
}

// Is matches on Kind so callers can use errors.Is with the sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func UnsupportedCharacter(ch rune, pos int) *Error {
	return &Error{Kind: KindUnsupportedCharacter, Char: ch, Position: pos}
}

func UndeclaredVariable(name string, pos int) *Error {
	return &Error{Kind: KindUndeclaredVariable, Name: name, Position: pos}
}

func ImmutableVariable(name string, pos int) *Error {
	return &Error{Kind: KindImmutableVariable, Name: name, Position: pos}
}

func IncompatibleVariableType(offered, name, required string, pos int) *Error {
	return &Error{Kind: KindIncompatibleVariableType, Offered: offered, Name: name, Required: required, Position: pos}
}

func DivisionByZero(pos int) *Error {
	return &Error{Kind: KindDivisionByZero, Position: pos}
}

// NumericOverflow reports a literal or arithmetic result outside the int32 range.
// text is the offending literal or the operation, e.g. "2147483647 + 1".
func NumericOverflow(text string, pos int) *Error {
	return &Error{Kind: KindNumericOverflow, Text: text, Position: pos}
}

func UnterminatedString(pos int) *Error {
	return &Error{Kind: KindUnterminatedString, Position: pos}
}

// UnexpectedToken reports a token the grammar cannot accept; what describes it,
// e.g. "end of input" or "identifier 'x'".
func UnexpectedToken(what string, pos int) *Error {
	return &Error{Kind: KindUnexpectedToken, Text: what, Position: pos}
}

func RedeclaredVariable(name string, pos int) *Error {
	return &Error{Kind: KindRedeclaredVariable, Name: name, Position: pos}
}
