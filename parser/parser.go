package parser

import (
	"errors"
	"strings"
	"unicode"
)

// Parser builds one IR node per source line from the lexer's token stream,
// using a one-token pushback queue for lookahead. Syntax errors are local:
// the offending line becomes an ErrorNode and parsing resumes at the next
// line boundary.
type Parser struct {
	lexer   *Lexer
	buf     []Token
	symbols *SymbolTable
	macros  *MacroRegistry
	errs    *ErrorList
}

// NewParser creates a parser over input. A nil symbol table or macro
// registry is replaced with a fresh one; macro expansion passes both to the
// nested parser so labels declared inside a macro body land in the
// enclosing scope.
func NewParser(input string, symbols *SymbolTable, macros *MacroRegistry) *Parser {
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	if macros == nil {
		macros = NewMacroRegistry()
	}
	return &Parser{
		lexer:   NewLexer(input),
		symbols: symbols,
		macros:  macros,
		errs:    &ErrorList{},
	}
}

// SymbolTable returns the table shared by this parser and any nested macro
// expansion.
func (p *Parser) SymbolTable() *SymbolTable {
	return p.symbols
}

// MacroRegistry returns the registry consulted for macro invocations.
func (p *Parser) MacroRegistry() *MacroRegistry {
	return p.macros
}

// Errors returns the errors recorded so far.
func (p *Parser) Errors() *ErrorList {
	return p.errs
}

// peek returns the next token without consuming it. ok is false at end of
// stream.
func (p *Parser) peek() (Token, bool) {
	if len(p.buf) > 0 {
		return p.buf[0], true
	}
	tok, ok := p.lexer.Next()
	if !ok {
		return Token{}, false
	}
	p.buf = append(p.buf, tok)
	return tok, true
}

// mayMatch consumes and returns the next token iff it has the expected type.
func (p *Parser) mayMatch(expected TokenType) (Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Type != expected {
		return Token{}, false
	}
	p.buf = p.buf[1:]
	return tok, true
}

// mustMatch consumes the next token or fails the line.
func (p *Parser) mustMatch(expected TokenType) (Token, error) {
	if tok, ok := p.mayMatch(expected); ok {
		return tok, nil
	}
	return Token{}, errSyntax("")
}

// pushBack returns a consumed token to the front of the queue.
func (p *Parser) pushBack(tok Token) {
	p.buf = append([]Token{tok}, p.buf...)
}

// skipToNextLine resynchronizes after a syntax error: the pushback buffer is
// flushed and the lexer reads through the next newline.
func (p *Parser) skipToNextLine() {
	for len(p.buf) > 0 {
		tok := p.buf[0]
		p.buf = p.buf[1:]
		if tok.Type == TokenEmpty {
			return
		}
	}
	p.lexer.SkipToNextLine()
}

// Next produces the IR node for the next source line. ok is false once the
// input is exhausted.
func (p *Parser) Next() (Node, bool) {
	if _, ok := p.peek(); !ok {
		return nil, false
	}
	lineNo := p.lexer.Line()
	node, err := p.statement()
	if err != nil {
		p.skipToNextLine()
		kind := ErrorSyntax
		var serr *syntaxError
		if errors.As(err, &serr) {
			kind = serr.kind
		}
		p.errs.AddError(&Error{Line: lineNo, Kind: kind, Message: err.Error()})
		return &ErrorNode{Message: err.Error()}, true
	}
	return node, true
}

// statement parses one source line: empty, comment-only, or a code line
// with an optional leading symbol declaration.
func (p *Parser) statement() (Node, error) {
	if _, ok := p.mayMatch(TokenEmpty); ok {
		return &EmptyNode{}, nil
	}

	var node Node
	if comment, ok := p.mayMatch(TokenComment); ok {
		node = NewCommentNode(comment.Text)
	} else if symTok, ok := p.mayMatch(TokenSymbol); ok {
		sym := p.symbols.Define(symTok.Text)
		code, err := p.codeLine(sym)
		if err != nil {
			return nil, err
		}
		if code == nil {
			return nil, errSyntax("Symbol declaration must be followed by instruction or dot command")
		}
		node = code
	} else {
		code, err := p.codeLine(nil)
		if err != nil {
			return nil, err
		}
		if code == nil {
			return nil, errSyntax("")
		}
		node = code
	}

	if _, err := p.mustMatch(TokenEmpty); err != nil {
		return nil, err
	}
	return node, nil
}

// commentable is satisfied by every node that can carry a trailing comment.
type commentable interface {
	setComment(string)
}

func (l *line) setComment(comment string) {
	l.Comment = comment
}

// codeLine parses exactly one of: nonunary instruction, unary instruction,
// dot directive, or macro invocation, each optionally trailed by a comment.
func (p *Parser) codeLine(sym *SymbolEntry) (Node, error) {
	var node Node

	nonunary, err := p.nonunaryInstruction(sym)
	if err != nil {
		return nil, err
	}
	if nonunary != nil {
		node = nonunary
	}

	if node == nil {
		unary, err := p.unaryInstruction(sym)
		if err != nil {
			return nil, err
		}
		if unary != nil {
			node = unary
		}
	}

	if node == nil {
		dot, err := p.directive(sym)
		if err != nil {
			return nil, err
		}
		if dot != nil {
			node = dot
		}
	}

	if node == nil {
		macro, err := p.macro(sym)
		if err != nil {
			return nil, err
		}
		if macro != nil {
			node = macro
		}
	}

	if node == nil {
		return nil, nil
	}

	if comment, ok := p.mayMatch(TokenComment); ok {
		node.(commentable).setComment(comment.Text)
	}
	return node, nil
}

// argument parses a nonunary operand, in priority order HEX, DECIMAL,
// IDENTIFIER, STRING. Identifiers hold a handle into the symbol table so
// forward references resolve once the definition is seen.
func (p *Parser) argument() Argument {
	if hex, ok := p.mayMatch(TokenHex); ok {
		return Hexadecimal{Value: hex.Value}
	}
	if dec, ok := p.mayMatch(TokenDecimal); ok {
		return Decimal{Value: dec.Value}
	}
	if ident, ok := p.mayMatch(TokenIdentifier); ok {
		return Identifier{Symbol: p.symbols.Reference(ident.Text)}
	}
	if str, ok := p.mayMatch(TokenString); ok {
		return StringConstant{Value: str.Bytes}
	}
	return nil
}

// unaryInstruction accepts a mnemonic of family U or R.
func (p *Parser) unaryInstruction(sym *SymbolEntry) (Node, error) {
	mn, ok := p.mayMatch(TokenIdentifier)
	if !ok {
		return nil, nil
	}
	mnStr := strings.ToUpper(mn.Text)
	mnemonic, ok := LookupMnemonic(mnStr)
	if !ok {
		return nil, errKind(ErrorUnknownMnemonic, "Unrecognized mnemonic: %s", mnStr)
	}
	if !mnemonic.Family.IsUnary() {
		return nil, nil
	}
	node := &UnaryNode{Mnemonic: mnStr}
	node.SymbolDecl = sym
	return node, nil
}

// nonunaryInstruction accepts a mnemonic with an argument and addressing
// mode. When the argument fails to parse the mnemonic is pushed back and
// resolution of the line falls through.
func (p *Parser) nonunaryInstruction(sym *SymbolEntry) (Node, error) {
	mn, ok := p.mayMatch(TokenIdentifier)
	if !ok {
		return nil, nil
	}
	mnStr := strings.ToUpper(mn.Text)
	mnemonic, ok := LookupMnemonic(mnStr)
	if !ok {
		return nil, errKind(ErrorUnknownMnemonic, "Unrecognized mnemonic: %s", mnStr)
	}
	if mnemonic.Family.IsUnary() {
		p.pushBack(mn)
		return nil, nil
	}

	arg := p.argument()
	if arg == nil {
		p.pushBack(mn)
		return nil, nil
	}

	if str, ok := arg.(StringConstant); ok && len(str.Value) > 2 {
		return nil, errKind(ErrorRange, "String too large")
	}
	if v := arg.Int(); v < -32768 || v > 65535 {
		return nil, errKind(ErrorRange, "Number too large")
	}

	if _, ok := p.mayMatch(TokenComma); ok {
		modeTok, err := p.mustMatch(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		mode, ok := ParseAddressingMode(modeTok.Text)
		if !ok {
			return nil, errKind(ErrorIllegalMode, "Invalid addressing mode: %s", modeTok.Text)
		}
		if !mnemonic.Family.Allows(mode) {
			return nil, errKind(ErrorIllegalMode, "Illegal addressing mode for %s: %s", mnStr, mode)
		}
		node := &NonUnaryNode{Mnemonic: mnStr, Arg: arg, Mode: mode}
		node.SymbolDecl = sym
		return node, nil
	}

	if mode, ok := DefaultAddressingModes[mnStr]; ok {
		node := &NonUnaryNode{Mnemonic: mnStr, Arg: arg, Mode: mode}
		node.SymbolDecl = sym
		return node, nil
	}
	return nil, errSyntax("%s requires an addressing mode", mnStr)
}

// integerArgument accepts a DECIMAL or HEX argument for the directives that
// require one.
func (p *Parser) integerArgument() Argument {
	if dec, ok := p.mayMatch(TokenDecimal); ok {
		return Decimal{Value: dec.Value}
	}
	if hex, ok := p.mayMatch(TokenHex); ok {
		return Hexadecimal{Value: hex.Value}
	}
	return nil
}

// directive parses the dot commands .BYTE, .WORD, .ASCII, .BLOCK, .EQUATE.
func (p *Parser) directive(sym *SymbolEntry) (Node, error) {
	dot, ok := p.mayMatch(TokenDot)
	if !ok {
		return nil, nil
	}

	switch dotStr := strings.ToUpper(dot.Text); dotStr {
	case "BYTE", "WORD":
		arg := p.integerArgument()
		if arg == nil {
			return nil, errSyntax("%s requires an integer argument", dotStr)
		}
		if v := arg.Int(); v < -32768 || v > 65535 {
			return nil, errKind(ErrorRange, "Number too large")
		}
		width := 1
		if dotStr == "WORD" {
			width = 2
		}
		node := &DotLiteralNode{Arg: arg, Width: width}
		node.SymbolDecl = sym
		return node, nil

	case "ASCII":
		str, err := p.mustMatch(TokenString)
		if err != nil {
			return nil, errSyntax("ASCII requires a string argument")
		}
		node := &DotASCIINode{Arg: StringConstant{Value: str.Bytes}}
		node.SymbolDecl = sym
		return node, nil

	case "BLOCK":
		arg := p.integerArgument()
		if arg == nil {
			return nil, errSyntax("%s requires an integer argument", dotStr)
		}
		if v := arg.Int(); v < 0 || v > 65535 {
			return nil, errKind(ErrorRange, "Number too large")
		}
		node := &DotBlockNode{Arg: arg}
		node.SymbolDecl = sym
		return node, nil

	case "EQUATE":
		if sym == nil {
			return nil, errSyntax(".EQUATE requires a symbol declaration")
		}
		arg := p.argument()
		if arg == nil {
			return nil, errSyntax(".EQUATE requires an argument")
		}
		if ident, ok := arg.(Identifier); ok {
			if err := sym.SetRef(ident.Symbol); err != nil {
				return nil, errKind(ErrorCycle, "Cyclical symbol declaration: %s", sym.Name)
			}
		} else {
			sym.SetValue(arg.Int())
		}
		node := &DotEquateNode{Arg: arg}
		node.SymbolDecl = sym
		return node, nil

	default:
		return nil, errSyntax("Unrecognized dot command %s", dotStr)
	}
}

// macro parses a @name invocation: the registry substitutes the textual
// arguments into the template and the resulting fragment is re-parsed with
// the enclosing symbol table and registry.
func (p *Parser) macro(sym *SymbolEntry) (Node, error) {
	tok, ok := p.mayMatch(TokenMacro)
	if !ok {
		return nil, nil
	}
	if sym != nil {
		return nil, errSyntax("Macros do not support symbol declarations")
	}

	var args []Argument
	if arg := p.argument(); arg != nil {
		args = append(args, arg)
		for {
			if _, ok := p.mayMatch(TokenComma); !ok {
				break
			}
			arg := p.argument()
			if arg == nil {
				return nil, errSyntax("Expected argument after comma")
			}
			args = append(args, arg)
		}
	}

	argStrs := make([]string, len(args))
	for i, arg := range args {
		argStrs[i] = arg.String()
	}
	body, err := p.macros.Instantiate(tok.Text, argStrs...)
	if err != nil {
		return nil, errKind(ErrorMacro, "%s", err)
	}

	node := &MacroNode{Name: tok.Text, Args: args, Body: Parse(body, p.symbols, p.macros)}
	return node, nil
}

// Parse assembles the complete node list for text. Trailing whitespace is
// trimmed and the input is normalized to end with exactly one newline.
func Parse(text string, symbols *SymbolTable, macros *MacroRegistry) []Node {
	p := NewParser(strings.TrimRightFunc(text, unicode.IsSpace)+"\n", symbols, macros)
	var nodes []Node
	for {
		node, ok := p.Next()
		if !ok {
			break
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// NormalizeSource trims trailing whitespace and guarantees the text ends
// with exactly one newline, the form the lexer expects.
func NormalizeSource(text string) string {
	return strings.TrimRightFunc(text, unicode.IsSpace) + "\n"
}

// CollectErrors gathers every ErrorNode in the tree, descending into macro
// bodies.
func CollectErrors(tree []Node) []*ErrorNode {
	var errs []*ErrorNode
	for _, node := range tree {
		switch n := node.(type) {
		case *ErrorNode:
			errs = append(errs, n)
		case *MacroNode:
			errs = append(errs, CollectErrors(n.Body)...)
		}
	}
	return errs
}
