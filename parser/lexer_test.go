package parser_test

import (
	"testing"

	"github.com/Matthew-McRaven/pep10/parser"
)

// expectTokens drains the lexer and compares against the expected prefix.
func expectTokens(t *testing.T, input string, expected []parser.Token) {
	t.Helper()
	lex := parser.NewLexer(input)
	for i, want := range expected {
		got, ok := lex.Next()
		if !ok {
			t.Fatalf("token %d: stream ended early, want %v", i, want)
		}
		if got.Type != want.Type {
			t.Fatalf("token %d: got %v, want %v", i, got, want)
		}
		if got.Text != want.Text || got.Value != want.Value {
			t.Errorf("token %d: got %v, want %v", i, got, want)
		}
		if want.Type == parser.TokenString && string(got.Bytes) != string(want.Bytes) {
			t.Errorf("token %d: got bytes %q, want %q", i, got.Bytes, want.Bytes)
		}
	}
}

func TestLexer_Empty(t *testing.T) {
	expectTokens(t, "   \n  ", []parser.Token{
		{Type: parser.TokenEmpty},
		{Type: parser.TokenEmpty},
	})
	lex := parser.NewLexer("")
	if _, ok := lex.Next(); ok {
		t.Error("empty input should end the stream immediately")
	}
}

func TestLexer_Comma(t *testing.T) {
	expectTokens(t, "   ,\n,  ", []parser.Token{
		{Type: parser.TokenComma},
		{Type: parser.TokenEmpty},
		{Type: parser.TokenComma},
		{Type: parser.TokenEmpty},
	})
}

func TestLexer_Comment(t *testing.T) {
	expectTokens(t, " ;Comment here\n", []parser.Token{
		{Type: parser.TokenComment, Text: "Comment here"},
		{Type: parser.TokenEmpty},
	})
}

func TestLexer_Identifier(t *testing.T) {
	expectTokens(t, "a bCd b0 b9 a_word ", []parser.Token{
		{Type: parser.TokenIdentifier, Text: "a"},
		{Type: parser.TokenIdentifier, Text: "bCd"},
		{Type: parser.TokenIdentifier, Text: "b0"},
		{Type: parser.TokenIdentifier, Text: "b9"},
		{Type: parser.TokenIdentifier, Text: "a_word"},
	})
}

func TestLexer_Symbol(t *testing.T) {
	expectTokens(t, "a: bCd: b0: b9: a_word: ", []parser.Token{
		{Type: parser.TokenSymbol, Text: "a"},
		{Type: parser.TokenSymbol, Text: "bCd"},
		{Type: parser.TokenSymbol, Text: "b0"},
		{Type: parser.TokenSymbol, Text: "b9"},
		{Type: parser.TokenSymbol, Text: "a_word"},
	})
}

func TestLexer_UnsignedDecimal(t *testing.T) {
	expectTokens(t, "0 00 000 10 65537 ", []parser.Token{
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenDecimal, Value: 10},
		{Type: parser.TokenDecimal, Value: 65537},
	})
}

func TestLexer_SignedDecimal(t *testing.T) {
	expectTokens(t, "+0 -0 +10 -10 -65537 ", []parser.Token{
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenDecimal, Value: 10},
		{Type: parser.TokenDecimal, Value: -10},
		{Type: parser.TokenDecimal, Value: -65537},
	})
}

func TestLexer_SignNeedsDigit(t *testing.T) {
	expectTokens(t, "- ", []parser.Token{{Type: parser.TokenInvalid}})
}

func TestLexer_Hexadecimal(t *testing.T) {
	expectTokens(t, "0x0 0X000  0x1 0x10 0x10000 ", []parser.Token{
		{Type: parser.TokenHex, Value: 0},
		{Type: parser.TokenHex, Value: 0},
		{Type: parser.TokenHex, Value: 1},
		{Type: parser.TokenHex, Value: 0x10},
		{Type: parser.TokenHex, Value: 0x10000},
	})
}

func TestLexer_HexNeedsDigit(t *testing.T) {
	expectTokens(t, "0x ", []parser.Token{{Type: parser.TokenInvalid}})
}

func TestLexer_LeadingZeroIsDecimal(t *testing.T) {
	// '0' is ambiguous between decimal zero and a hex prefix; the next
	// character resolves it.
	expectTokens(t, "0, 01 ", []parser.Token{
		{Type: parser.TokenDecimal, Value: 0},
		{Type: parser.TokenComma},
		{Type: parser.TokenDecimal, Value: 1},
	})
}

func TestLexer_Dot(t *testing.T) {
	expectTokens(t, ".a .bCd .b0 .b9 .a_word ", []parser.Token{
		{Type: parser.TokenDot, Text: "a"},
		{Type: parser.TokenDot, Text: "bCd"},
		{Type: parser.TokenDot, Text: "b0"},
		{Type: parser.TokenDot, Text: "b9"},
		{Type: parser.TokenDot, Text: "a_word"},
	})
}

func TestLexer_DotRequiresChar(t *testing.T) {
	expectTokens(t, ". ", []parser.Token{{Type: parser.TokenInvalid}})
	expectTokens(t, ".0 ", []parser.Token{{Type: parser.TokenInvalid}})
}

func TestLexer_Macro(t *testing.T) {
	expectTokens(t, "@DECI @a_2 ", []parser.Token{
		{Type: parser.TokenMacro, Text: "DECI"},
		{Type: parser.TokenMacro, Text: "a_2"},
	})
	expectTokens(t, "@ ", []parser.Token{{Type: parser.TokenInvalid}})
}

func TestLexer_String(t *testing.T) {
	expectTokens(t, `"hi" "" "h'" `, []parser.Token{
		{Type: parser.TokenString, Bytes: []byte("hi")},
		{Type: parser.TokenString, Bytes: []byte{}},
		{Type: parser.TokenString, Bytes: []byte("h'")},
	})
}

func TestLexer_StringEscapes(t *testing.T) {
	expectTokens(t, `"\r\t\b\n\"\\" `, []parser.Token{
		{Type: parser.TokenString, Bytes: []byte("\r\t\b\n\"\\")},
	})
	expectTokens(t, `"\x41\x6a" `, []parser.Token{
		{Type: parser.TokenString, Bytes: []byte("Aj")},
	})
	// A closing quote directly after two hex digits ends the string.
	expectTokens(t, `"\x00" `, []parser.Token{
		{Type: parser.TokenString, Bytes: []byte{0}},
	})
}

func TestLexer_StringErrors(t *testing.T) {
	// A single hex digit is not accepted.
	expectTokens(t, `"\x4" `, []parser.Token{{Type: parser.TokenInvalid}})
	// Unknown escape.
	expectTokens(t, `"\q" `, []parser.Token{{Type: parser.TokenInvalid}})
	// Unterminated at end of stream.
	expectTokens(t, `"abc`, []parser.Token{{Type: parser.TokenInvalid}})
}

func TestLexer_EOFClosesToken(t *testing.T) {
	expectTokens(t, "word", []parser.Token{{Type: parser.TokenIdentifier, Text: "word"}})
	expectTokens(t, "12", []parser.Token{{Type: parser.TokenDecimal, Value: 12}})
	expectTokens(t, "0xF", []parser.Token{{Type: parser.TokenHex, Value: 15}})
	expectTokens(t, ";c", []parser.Token{{Type: parser.TokenComment, Text: "c"}})
}

func TestLexer_SkipToNextLine(t *testing.T) {
	lex := parser.NewLexer("garbage $$$ here\nRET\n")
	lex.SkipToNextLine()
	tok, ok := lex.Next()
	if !ok || tok.Type != parser.TokenIdentifier || tok.Text != "RET" {
		t.Fatalf("after skip, got %v", tok)
	}
}

func TestLexer_LineCount(t *testing.T) {
	lex := parser.NewLexer("a\nb\nc\n")
	for i := 1; i <= 3; i++ {
		if lex.Line() != i {
			t.Fatalf("expected line %d, got %d", i, lex.Line())
		}
		lex.Next() // identifier
		lex.Next() // newline
	}
}
