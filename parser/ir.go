package parser

import (
	"fmt"
	"strings"
)

// Node is one line of the parse tree. The set of implementations is closed;
// emission and listing behavior are per-variant.
type Node interface {
	// Source renders the line as canonical assembly source.
	Source() string
}

// Listable nodes take part in address assignment and contribute bytes to
// the object image.
type Listable interface {
	Node
	ObjectCode() []byte
	Size() int
	Address() (int, bool)
	SetAddress(int)
}

// line carries the fields shared by every non-error node: the symbol the
// line defines (if any), the trailing comment, and the address assigned
// during code generation.
type line struct {
	SymbolDecl *SymbolEntry
	Comment    string

	address int
	hasAddr bool
}

// SetAddress records the address assigned by the code generator.
func (l *line) SetAddress(a int) {
	l.address, l.hasAddr = a, true
}

// Address returns the assigned address; ok is false before generation.
func (l *line) Address() (int, bool) {
	return l.address, l.hasAddr
}

// Symbol returns the symbol this line defines, or nil.
func (l *line) Symbol() *SymbolEntry {
	return l.SymbolDecl
}

// formatSource lays out one source line: symbol field 7 columns, mnemonic
// field 7 columns, arguments field 12 columns, then the comment.
func formatSource(op string, args []string, symbol *SymbolEntry, comment string) string {
	sym := ""
	if symbol != nil {
		sym = symbol.Name + ":"
	}
	c := ""
	if comment != "" {
		c = ";" + comment
	}
	return fmt.Sprintf("%-7s%-7s%-12s%s", sym, op, strings.Join(args, ","), c)
}

// EmptyNode is a blank source line.
type EmptyNode struct {
	line
}

func (n *EmptyNode) Source() string {
	return formatSource("", nil, nil, "")
}

func (n *EmptyNode) ObjectCode() []byte { return nil }
func (n *EmptyNode) Size() int          { return 0 }

// CommentNode is a comment-only source line.
type CommentNode struct {
	line
}

func NewCommentNode(comment string) *CommentNode {
	n := &CommentNode{}
	n.Comment = comment
	return n
}

func (n *CommentNode) Source() string {
	return formatSource("", nil, nil, n.Comment)
}

func (n *CommentNode) ObjectCode() []byte { return nil }
func (n *CommentNode) Size() int          { return 0 }

// ErrorNode replaces a line that failed to parse. It occupies no bytes and
// is never assigned an address, but it participates in the listing.
type ErrorNode struct {
	line
	Message string
}

func (n *ErrorNode) Source() string {
	message := n.Message
	if message == "" {
		message = "Failed to parse line"
	}
	return ";ERROR: " + message
}

func (n *ErrorNode) ObjectCode() []byte { return nil }
func (n *ErrorNode) Size() int          { return 0 }

// UnaryNode is an instruction of family U or R: one opcode byte, no operand.
type UnaryNode struct {
	line
	Mnemonic string
}

func (n *UnaryNode) Source() string {
	return formatSource(n.Mnemonic, nil, n.SymbolDecl, n.Comment)
}

func (n *UnaryNode) ObjectCode() []byte {
	return []byte{Instructions[n.Mnemonic].Bits}
}

func (n *UnaryNode) Size() int { return 1 }

// NonUnaryNode is a three-byte instruction: opcode byte with the addressing
// mode folded in, then a big-endian 16-bit operand.
type NonUnaryNode struct {
	line
	Mnemonic string
	Arg      Argument
	Mode     AddressingMode
}

func (n *NonUnaryNode) Source() string {
	args := []string{n.Arg.String(), strings.ToLower(n.Mode.String())}
	return formatSource(n.Mnemonic, args, n.SymbolDecl, n.Comment)
}

func (n *NonUnaryNode) ObjectCode() []byte {
	// The parser validated the mode against the family, so ToByte cannot fail.
	opcode, _ := Instructions[n.Mnemonic].ToByte(n.Mode)
	operand := uint16(n.Arg.Int())
	return []byte{opcode, byte(operand >> 8), byte(operand)}
}

func (n *NonUnaryNode) Size() int { return 3 }

// DotASCIINode emits its string payload verbatim.
type DotASCIINode struct {
	line
	Arg StringConstant
}

func (n *DotASCIINode) Source() string {
	return formatSource(".ASCII", []string{n.Arg.String()}, n.SymbolDecl, n.Comment)
}

func (n *DotASCIINode) ObjectCode() []byte {
	return n.Arg.Value
}

func (n *DotASCIINode) Size() int { return len(n.Arg.Value) }

// DotLiteralNode is a .BYTE or .WORD directive: a 1- or 2-byte slot holding
// the argument's integer, big-endian.
type DotLiteralNode struct {
	line
	Arg   Argument
	Width int
}

func (n *DotLiteralNode) Source() string {
	name := ".BYTE"
	if n.Width == 2 {
		name = ".WORD"
	}
	return formatSource(name, []string{n.Arg.String()}, n.SymbolDecl, n.Comment)
}

func (n *DotLiteralNode) ObjectCode() []byte {
	v := uint16(n.Arg.Int())
	if n.Width == 1 {
		return []byte{byte(v)}
	}
	return []byte{byte(v >> 8), byte(v)}
}

func (n *DotLiteralNode) Size() int { return n.Width }

// DotBlockNode reserves N zero bytes.
type DotBlockNode struct {
	line
	Arg Argument
}

func (n *DotBlockNode) Source() string {
	return formatSource(".BLOCK", []string{n.Arg.String()}, n.SymbolDecl, n.Comment)
}

func (n *DotBlockNode) ObjectCode() []byte {
	return make([]byte, n.Arg.Int())
}

func (n *DotBlockNode) Size() int { return n.Arg.Int() }

// DotEquateNode binds its symbol to a value. It occupies no bytes; the
// binding happened at parse time.
type DotEquateNode struct {
	line
	Arg Argument
}

func (n *DotEquateNode) Source() string {
	return formatSource(".EQUATE", []string{n.Arg.String()}, n.SymbolDecl, n.Comment)
}

func (n *DotEquateNode) ObjectCode() []byte { return nil }
func (n *DotEquateNode) Size() int          { return 0 }

// MacroNode wraps the IR produced by re-parsing an instantiated macro body.
// Its size and object code are those of the body.
type MacroNode struct {
	line
	Name string
	Args []Argument
	Body []Node
}

func (n *MacroNode) Source() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return formatSource("@"+n.Name, args, nil, n.Comment)
}

func (n *MacroNode) ObjectCode() []byte {
	var code []byte
	for _, node := range n.Body {
		if l, ok := node.(Listable); ok {
			code = append(code, l.ObjectCode()...)
		}
	}
	return code
}

func (n *MacroNode) Size() int {
	size := 0
	for _, node := range n.Body {
		if l, ok := node.(Listable); ok {
			size += l.Size()
		}
	}
	return size
}

// StartComment is the sentinel comment emitted before the expanded body in
// a generated listing.
func (n *MacroNode) StartComment() *CommentNode {
	return NewCommentNode(strings.TrimSpace(n.Source()))
}

// EndComment is the sentinel comment emitted after the expanded body.
func (n *MacroNode) EndComment() *CommentNode {
	return NewCommentNode("End @" + n.Name)
}

// Argument returns the instruction's operand.
func (n *NonUnaryNode) Argument() Argument { return n.Arg }

// Argument returns the string payload as an operand.
func (n *DotASCIINode) Argument() Argument { return n.Arg }

// Argument returns the literal operand.
func (n *DotLiteralNode) Argument() Argument { return n.Arg }

// Argument returns the block length operand.
func (n *DotBlockNode) Argument() Argument { return n.Arg }

// Argument returns the equated value operand.
func (n *DotEquateNode) Argument() Argument { return n.Arg }
