// Package tools holds developer utilities built on the assembler pipeline.
package tools

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Matthew-McRaven/pep10/parser"
)

// Formatter reprints assembly source in the canonical column layout the IR
// uses: symbol, mnemonic and argument fields aligned, comments preserved.
// Reformatting is stable: formatting already-formatted source is a no-op.
type Formatter struct {
	symbols *parser.SymbolTable
	macros  *parser.MacroRegistry
}

// NewFormatter creates a formatter. Nil collaborators get fresh instances
// seeded with the OS extensions so system macro invocations reformat
// cleanly.
func NewFormatter(symbols *parser.SymbolTable, macros *parser.MacroRegistry) *Formatter {
	if symbols == nil {
		symbols = parser.NewSymbolTable()
		parser.AddOSSymbols(symbols)
	}
	if macros == nil {
		macros = parser.NewMacroRegistry()
		parser.AddOSMacros(macros)
	}
	return &Formatter{symbols: symbols, macros: macros}
}

// Format parses input and reprints each line from its IR node. Source that
// fails to parse is rejected rather than silently mangled.
func (f *Formatter) Format(input string) (string, error) {
	tree := parser.Parse(input, f.symbols, f.macros)
	if errs := parser.CollectErrors(tree); len(errs) > 0 {
		return "", errors.Errorf("cannot format: %s", errs[0].Source())
	}

	var sb strings.Builder
	for _, node := range tree {
		sb.WriteString(strings.TrimRight(node.Source(), " "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
