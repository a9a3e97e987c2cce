package assembler

import (
	"sort"
)

// SymbolType says where a symbol's value came from.
type SymbolType int

const (
	// SymbolConstant is bound by %define.
	SymbolConstant SymbolType = iota
	// SymbolAddress is bound by a label or sub-label.
	SymbolAddress
)

// Symbol is one binding in the symbol table.
type Symbol struct {
	Name  string
	Type  SymbolType
	Value uint16
	Line  int
}

// SymbolTable maps resolved names to constants or addresses. It is filled
// by the address assigner and only read afterwards.
type SymbolTable struct {
	symbols map[string]Symbol
	order   []string
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// define adds a binding. It returns the existing binding and false if the
// name is already taken.
func (st *SymbolTable) define(sym Symbol) (Symbol, bool) {
	if old, exists := st.symbols[sym.Name]; exists {
		return old, false
	}
	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return sym, true
}

// Lookup returns the binding for a fully resolved name.
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Resolve finds the binding a reference means from inside the given scope.
// A dotted reference (".name") only matches the scoped form; anything else
// tries the literal name before the scoped one.
func (st *SymbolTable) Resolve(name, scope string) (Symbol, bool) {
	if len(name) > 1 && name[0] == '.' {
		if scope == "" {
			return Symbol{}, false
		}
		return st.Lookup(scopedName(scope, name[1:]))
	}
	if sym, ok := st.Lookup(name); ok {
		return sym, true
	}
	if scope != "" {
		return st.Lookup(scopedName(scope, name))
	}
	return Symbol{}, false
}

// Len returns the number of bindings.
func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Symbols returns all bindings in definition order.
func (st *SymbolTable) Symbols() []Symbol {
	list := make([]Symbol, len(st.order))
	for i, name := range st.order {
		list[i] = st.symbols[name]
	}
	return list
}

// ByValue returns all bindings sorted by value, then name.
func (st *SymbolTable) ByValue() []Symbol {
	list := st.Symbols()
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Value != list[j].Value {
			return list[i].Value < list[j].Value
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func scopedName(parent, sub string) string {
	return parent + "." + sub
}
