package parser

import (
	"fmt"
)

// SymbolEntry is a named slot in the symbol table. Its value is either a
// 16-bit integer or a reference to another entry, forming a resolution
// chain. Every reference to a name shares the same entry, so a definition
// seen later in the translation unit is visible through handles taken
// earlier.
type SymbolEntry struct {
	Name            string
	DefinitionCount int

	hasValue bool
	intValue int
	ref      *SymbolEntry
}

// IsUndefined reports that no defining occurrence has been seen.
func (s *SymbolEntry) IsUndefined() bool {
	return s.DefinitionCount == 0
}

// IsSinglyDefined reports exactly one defining occurrence.
func (s *SymbolEntry) IsSinglyDefined() bool {
	return s.DefinitionCount == 1
}

// IsMultiplyDefined reports more than one defining occurrence.
func (s *SymbolEntry) IsMultiplyDefined() bool {
	return s.DefinitionCount > 1
}

// HasValue reports whether a value (integer or reference) has been set.
func (s *SymbolEntry) HasValue() bool {
	return s.hasValue
}

// Ref returns the referenced entry when the value chains to another symbol.
func (s *SymbolEntry) Ref() (*SymbolEntry, bool) {
	return s.ref, s.ref != nil
}

// SetValue stores a concrete integer value.
func (s *SymbolEntry) SetValue(v int) {
	s.intValue, s.ref, s.hasValue = v, nil, true
}

// SetRef chains this entry's value to another entry. The assignment is the
// point of cycle detection: the chain starting at target is walked with a
// visited set seeded with the entry itself, and any revisit rejects the
// assignment.
func (s *SymbolEntry) SetRef(target *SymbolEntry) error {
	visited := map[*SymbolEntry]bool{s: true}
	for cur := target; cur != nil; cur = cur.ref {
		if visited[cur] {
			return fmt.Errorf("cyclical symbol declaration: %s", s.Name)
		}
		visited[cur] = true
	}
	s.intValue, s.ref, s.hasValue = 0, target, true
	return nil
}

// ClearValue removes any stored value.
func (s *SymbolEntry) ClearValue() {
	s.intValue, s.ref, s.hasValue = 0, nil, false
}

// Int resolves the value chain to an integer. An unset value is 0.
// Resolution iterates rather than recurses; SetRef guarantees the chain is
// acyclic.
func (s *SymbolEntry) Int() int {
	for cur := s; ; cur = cur.ref {
		if !cur.hasValue {
			return 0
		}
		if cur.ref == nil {
			return cur.intValue
		}
	}
}

func (s *SymbolEntry) String() string {
	return s.Name
}

// SymbolTable interns names to unique symbol entries. Entries are created on
// first reference and live until emission completes; the parser and code
// generator rely on entry identity for resolution chains.
type SymbolTable struct {
	table map[string]*SymbolEntry
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]*SymbolEntry)}
}

// Reference returns the entry for name, creating it if absent.
func (st *SymbolTable) Reference(name string) *SymbolEntry {
	if sym, ok := st.table[name]; ok {
		return sym
	}
	sym := &SymbolEntry{Name: name}
	st.table[name] = sym
	return sym
}

// Define references the entry and records a defining occurrence.
func (st *SymbolTable) Define(name string) *SymbolEntry {
	sym := st.Reference(name)
	sym.DefinitionCount++
	return sym
}

// Contains reports whether name has been referenced or defined.
func (st *SymbolTable) Contains(name string) bool {
	_, ok := st.table[name]
	return ok
}

// Lookup returns the entry for name without creating it.
func (st *SymbolTable) Lookup(name string) (*SymbolEntry, bool) {
	sym, ok := st.table[name]
	return sym, ok
}

// Names returns every interned name.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.table))
	for name := range st.table {
		names = append(names, name)
	}
	return names
}

// AddOSSymbols pre-defines the kernel trap vector addresses and the
// per-trap index constants used by the OS macros.
func AddOSSymbols(st *SymbolTable) {
	st.Define("pwrOff").SetValue(0xFFFF)
	st.Define("charOut").SetValue(0xFFFE)
	st.Define("charIn").SetValue(0xFFFD)
	st.Define("DECI").SetValue(0)
	st.Define("DECO").SetValue(1)
	st.Define("HEXO").SetValue(2)
	st.Define("STRO").SetValue(3)
	st.Define("SNOP").SetValue(4)
}
