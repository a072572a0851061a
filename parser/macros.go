package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Macro is a textual template with positional placeholders $1..$n.
type Macro struct {
	Name string
	Argc int
	Body string
}

// MacroRegistry manages macro definitions by name.
type MacroRegistry struct {
	macros map[string]*Macro
}

// NewMacroRegistry creates an empty registry.
func NewMacroRegistry() *MacroRegistry {
	return &MacroRegistry{macros: make(map[string]*Macro)}
}

// Register defines a new macro.
func (mr *MacroRegistry) Register(name string, argc int, body string) error {
	if _, exists := mr.macros[name]; exists {
		return fmt.Errorf("macro %q already defined", name)
	}
	mr.macros[name] = &Macro{Name: name, Argc: argc, Body: body}
	return nil
}

// Lookup looks up a macro by name.
func (mr *MacroRegistry) Lookup(name string) (*Macro, bool) {
	macro, exists := mr.macros[name]
	return macro, exists
}

// Contains reports whether name is registered.
func (mr *MacroRegistry) Contains(name string) bool {
	_, exists := mr.macros[name]
	return exists
}

// Instantiate substitutes each placeholder with the corresponding textual
// argument and returns the resulting source fragment.
func (mr *MacroRegistry) Instantiate(name string, args ...string) (string, error) {
	macro, exists := mr.macros[name]
	if !exists {
		return "", fmt.Errorf("undefined macro: %s", name)
	}
	if len(args) != macro.Argc {
		return "", fmt.Errorf("macro %s expects %d arguments, got %d",
			name, macro.Argc, len(args))
	}

	// Substitute highest index first so $1 never matches the prefix of $10.
	body := macro.Body
	for i := len(args); i >= 1; i-- {
		body = strings.ReplaceAll(body, "$"+strconv.Itoa(i), args[i-1])
	}
	return body, nil
}

// Names returns every registered macro name.
func (mr *MacroRegistry) Names() []string {
	names := make([]string, 0, len(mr.macros))
	for name := range mr.macros {
		names = append(names, name)
	}
	return names
}

// AddOSMacros seeds the registry with the built-in system macros of the
// standard runtime. Each expands to an SCALL whose trap index comes from the
// matching OS symbol; DECI/DECO/HEXO/STRO take the caller's operand and
// addressing mode.
func AddOSMacros(mr *MacroRegistry) {
	osCall := func(trap string) string {
		return "LDWX " + trap + ", i\nSCALL $1, $2\n"
	}
	// Registration of a fresh name cannot fail.
	_ = mr.Register("DECI", 2, osCall("DECI"))
	_ = mr.Register("DECO", 2, osCall("DECO"))
	_ = mr.Register("HEXO", 2, osCall("HEXO"))
	_ = mr.Register("STRO", 2, osCall("STRO"))
	_ = mr.Register("SNOP", 0, "LDWX SNOP, i\nSCALL 0, i\n")
}
