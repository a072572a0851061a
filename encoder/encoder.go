// Package encoder turns a parsed program into object code and a listing.
package encoder

import (
	"github.com/Matthew-McRaven/pep10/parser"
)

// symboled is satisfied by nodes that may declare a symbol.
type symboled interface {
	Symbol() *parser.SymbolEntry
}

// argumented is satisfied by nodes that carry an operand.
type argumented interface {
	Argument() parser.Argument
}

// Generate walks the parse tree once, assigning each node its address,
// binding declared symbols to addresses, and checking that referenced
// symbols are defined. Macro nodes are flattened: their bodies are generated
// at the current address and bracketed by sentinel comments in the output.
// Errors accumulate; generation never halts early.
func Generate(tree []parser.Node) ([]parser.Node, []string) {
	return generateAt(tree, 0)
}

func generateAt(tree []parser.Node, base int) ([]parser.Node, []string) {
	var out []parser.Node
	var errs []string
	address := base

	for _, node := range tree {
		if macro, ok := node.(*parser.MacroNode); ok {
			macro.SetAddress(address)
			inner, innerErrs := generateAt(macro.Body, address)
			out = append(out, macro.StartComment())
			out = append(out, inner...)
			out = append(out, macro.EndComment())
			errs = append(errs, innerErrs...)
			address += macro.Size()
			continue
		}

		// Error nodes occupy no bytes and keep no address, but they stay in
		// the output so the listing can render them.
		if _, ok := node.(*parser.ErrorNode); ok {
			out = append(out, node)
			continue
		}

		listable, ok := node.(parser.Listable)
		if !ok {
			continue
		}
		out = append(out, node)

		// The size of a line may depend on its address, so assign first.
		listable.SetAddress(address)

		if s, ok := node.(symboled); ok && s.Symbol() != nil {
			sym := s.Symbol()
			switch {
			case sym.IsMultiplyDefined():
				errs = append(errs, "Multiply defined symbol: "+sym.Name)
			case listable.Size() > 0:
				// .EQUATE keeps its parser-assigned value.
				sym.SetValue(address)
			}
		}

		if a, ok := node.(argumented); ok {
			if ident, ok := a.Argument().(parser.Identifier); ok && ident.Symbol.IsUndefined() {
				errs = append(errs, "Undefined symbol: "+ident.Symbol.Name)
			}
		}

		address += listable.Size()
	}

	return out, errs
}

// ObjectCode concatenates each node's bytes in declaration order.
func ObjectCode(ir []parser.Node) []byte {
	code := make([]byte, 0)
	for _, node := range ir {
		if l, ok := node.(parser.Listable); ok {
			code = append(code, l.ObjectCode()...)
		}
	}
	return code
}

// SourceLines renders each node as canonical source.
func SourceLines(ir []parser.Node) []string {
	lines := make([]string, 0, len(ir))
	for _, node := range ir {
		lines = append(lines, node.Source())
	}
	return lines
}
