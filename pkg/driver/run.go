package driver

import (
	"fmt"
	"io"
	"log"

	"github.com/agenthands/ncalc/pkg/compiler/parser"
	"github.com/agenthands/ncalc/pkg/compiler/symbol"
	"github.com/agenthands/ncalc/pkg/core/value"
	"gopkg.in/yaml.v3"
)

// Mode selects the parser entry point.
type Mode uint8

const (
	ModeEvaluate Mode = iota
	ModeSymbols
)

// Outcome is the artifact of one run: Result in ModeEvaluate, Symbols in ModeSymbols.
type Outcome struct {
	Mode    Mode
	Result  int32
	Symbols *symbol.Table
}

// Run parses src once with a fresh parser. logger may be nil.
func Run(src Source, mode Mode, logger *log.Logger) (*Outcome, error) {
	p := parser.New(src.Text, parser.WithLogger(logger))

	switch mode {
	case ModeEvaluate:
		result, err := p.Evaluate()
		if err != nil {
			return nil, err
		}
		return &Outcome{Mode: mode, Result: result}, nil
	case ModeSymbols:
		tbl, err := p.ResolveSymbols()
		if err != nil {
			return nil, err
		}
		return &Outcome{Mode: mode, Symbols: tbl}, nil
	default:
		return nil, fmt.Errorf("driver: unknown mode %d", mode)
	}
}

type symbolEntry struct {
	Name    string      `yaml:"name"`
	Value   value.Value `yaml:"value"`
	Mutable bool        `yaml:"mutable"`
}

// WriteOutcome renders o to w. Text symbols print one "name = literal (mut)"
// line each; YAML symbols are a sequence of name/value/mutable maps.
func WriteOutcome(w io.Writer, o *Outcome, format Format) error {
	if o.Mode == ModeEvaluate {
		if format == FormatYAML {
			enc := yaml.NewEncoder(w)
			if err := enc.Encode(map[string]int32{"result": o.Result}); err != nil {
				return fmt.Errorf("driver: encode result: %w", err)
			}
			return enc.Close()
		}
		_, err := fmt.Fprintln(w, o.Result)
		return err
	}

	syms := o.Symbols.Symbols()
	if format == FormatYAML {
		entries := make([]symbolEntry, 0, len(syms))
		for _, s := range syms {
			entries = append(entries, symbolEntry{Name: s.Name, Value: s.Value, Mutable: s.Mutable})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("driver: encode symbols: %w", err)
		}
		return enc.Close()
	}

	for _, s := range syms {
		mut := "immut"
		if s.Mutable {
			mut = "mut"
		}
		if _, err := fmt.Fprintf(w, "%s = %s (%s)\n", s.Name, s.Value.Literal(), mut); err != nil {
			return err
		}
	}
	return nil
}
