package symbol

import "github.com/agenthands/ncalc/pkg/core/value"

// Symbol is a named, typed variable binding. Mutability is fixed at declaration.
type Symbol struct {
	Name    string
	Value   value.Value
	Mutable bool
}

// New builds a Symbol.
func New(name string, v value.Value, mutable bool) Symbol {
	return Symbol{Name: name, Value: v, Mutable: mutable}
}

// Table is an insertion-ordered collection of symbols scanned linearly.
// Name uniqueness is the caller's responsibility; Get returns the first match.
type Table struct {
	symbols []Symbol
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add appends sym without checking for an existing entry of the same name.
func (t *Table) Add(sym Symbol) {
	t.symbols = append(t.symbols, sym)
}

// Get returns the first symbol named name.
func (t *Table) Get(name string) (Symbol, bool) {
	for _, s := range t.symbols {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

// ReplaceWithSameName swaps the first entry named sym.Name for sym and returns
// the displaced entry. It reports false, leaving the table untouched, when no
// entry matches.
func (t *Table) ReplaceWithSameName(sym Symbol) (Symbol, bool) {
	for i := range t.symbols {
		if t.symbols[i].Name == sym.Name {
			old := t.symbols[i]
			t.symbols[i] = sym
			return old, true
		}
	}
	return Symbol{}, false
}

// Len returns the number of entries, duplicates included.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Symbols returns a copy of the entries in insertion order.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	return &Table{symbols: t.Symbols()}
}
