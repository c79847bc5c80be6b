package value

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeInt Type = iota
	TypeString
)

// Name returns the user-facing name of the type, as used in diagnostics.
func (t Type) Name() string {
	switch t {
	case TypeInt:
		return "Integer"
	case TypeString:
		return "String"
	default:
		panic(fmt.Sprintf("value: unknown type tag %d", t))
	}
}

// Value is a tagged union of a 32-bit integer or an owned string.
// Only the payload matching Type is meaningful.
type Value struct {
	Type Type
	Int  int32
	Str  string
}

// Int wraps an integer.
func Int(i int32) Value {
	return Value{Type: TypeInt, Int: i}
}

// Str wraps a string.
func Str(s string) Value {
	return Value{Type: TypeString, Str: s}
}

// TypeName returns "Integer" or "String".
func (v Value) TypeName() string {
	return v.Type.Name()
}

// SameType reports whether v and o hold the same variant.
func (v Value) SameType(o Value) bool {
	return v.Type == o.Type
}

// String returns the raw payload: the decimal integer or the string text.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case TypeString:
		return v.Str
	default:
		panic(fmt.Sprintf("value: unknown type tag %d", v.Type))
	}
}

// Literal re-serializes the value as the source literal it was scanned from.
func (v Value) Literal() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case TypeString:
		return Quote(v.Str)
	default:
		panic(fmt.Sprintf("value: unknown type tag %d", v.Type))
	}
}

var quoter = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"\n", "\\n",
	"\t", "\\t",
	"\r", "\\r",
)

// Quote wraps s in double quotes, escaping exactly the sequences the scanner decodes.
func Quote(s string) string {
	return "\"" + quoter.Replace(s) + "\""
}

// MarshalYAML emits integers as YAML ints and strings as YAML strings.
func (v Value) MarshalYAML() (any, error) {
	switch v.Type {
	case TypeInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.String()}, nil
	case TypeString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}, nil
	default:
		return nil, fmt.Errorf("value: unknown type tag %d", v.Type)
	}
}
