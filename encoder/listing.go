package encoder

import (
	"fmt"
	"strings"

	"github.com/Matthew-McRaven/pep10/parser"
)

// listingFor renders one node as listing rows: the address as four uppercase
// hex digits (blank when no address was assigned), the object bytes, then the
// source column. A node of up to three bytes fits on one row; a longer node
// puts its first two bytes on the first row and the rest on continuation rows
// of up to three bytes that carry only the bytes column.
func listingFor(node parser.Node) []string {
	var code []byte
	addr := strings.Repeat(" ", 4)
	if l, ok := node.(parser.Listable); ok {
		code = l.ObjectCode()
		if a, assigned := l.Address(); assigned {
			addr = fmt.Sprintf("%04X", a)
		}
	}

	first := code
	var rest []byte
	if len(code) > 3 {
		first, rest = code[:2], code[2:]
	}

	lines := []string{fmt.Sprintf("%s %-6s %s", addr, hexBytes(first), node.Source())}
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > 3 {
			chunk = chunk[:3]
		}
		rest = rest[len(chunk):]
		lines = append(lines, fmt.Sprintf("%4s %-6s", "", hexBytes(chunk)))
	}
	return lines
}

// Listing renders the whole generated program, one entry per row.
func Listing(ir []parser.Node) []string {
	var lines []string
	for _, node := range ir {
		lines = append(lines, listingFor(node)...)
	}
	return lines
}

func hexBytes(code []byte) string {
	var sb strings.Builder
	for _, b := range code {
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
