package assembler

import "github.com/Urethramancer/duo/cpu"

// AddressSpace is the number of addressable bytes.
const AddressSpace = 0x10000

// Cursor is the state threaded through the address-assignment walk: the
// running address and the current top-level label.
type Cursor struct {
	Address uint32
	Label   string
}

// Layout is the result of address assignment. Addresses and Scopes run
// parallel to the statement slice: Addresses[i] is the address statement i
// starts at, Scopes[i] the top-level label enclosing it.
type Layout struct {
	Symbols   *SymbolTable
	Addresses []uint16
	Scopes    []string
	Start     uint32
	End       uint32
}

// Size returns the number of bytes the statements occupy.
func (l *Layout) Size() int {
	return int(l.End - l.Start)
}

// AssignAddresses walks the statements in source order, giving every
// instruction its start address and binding every macro in a new symbol
// table. The layout is returned even when err is non-nil so that reference
// errors can still be reported against it.
func AssignAddresses(statements []Statement, start Cursor) (*Layout, error) {
	l := &Layout{
		Symbols:   NewSymbolTable(),
		Addresses: make([]uint16, len(statements)),
		Scopes:    make([]string, len(statements)),
		Start:     start.Address,
	}

	var (
		errs     []error
		overflow bool
	)
	dups := make(map[string][]int)
	var dupOrder []string

	bind := func(sym Symbol) {
		old, ok := l.Symbols.define(sym)
		if ok {
			return
		}
		if _, seen := dups[sym.Name]; !seen {
			dups[sym.Name] = []int{old.Line}
			dupOrder = append(dupOrder, sym.Name)
		}
		dups[sym.Name] = append(dups[sym.Name], sym.Line)
	}

	cur := start
	for i, s := range statements {
		l.Addresses[i] = uint16(cur.Address)
		if s.IsInstruction() {
			l.Scopes[i] = cur.Label
			next := cur.Address + uint32(Width(s.Instruction))
			if next > AddressSpace && !overflow {
				overflow = true
				errs = append(errs, &LineError{Line: s.Line, Text: s.Text, Err: &ProgramTooLargeError{Address: next}})
			}
			cur.Address = next
			continue
		}

		m := s.Macro
		if m.Type != MacroDefine && cur.Address >= AddressSpace && !overflow {
			overflow = true
			errs = append(errs, &LineError{Line: s.Line, Text: s.Text, Err: &ProgramTooLargeError{Address: cur.Address}})
		}
		switch m.Type {
		case MacroDefine:
			bind(Symbol{Name: m.Name, Type: SymbolConstant, Value: m.Value, Line: s.Line})
		case MacroLabel:
			bind(Symbol{Name: m.Name, Type: SymbolAddress, Value: uint16(cur.Address), Line: s.Line})
			cur.Label = m.Name
		case MacroSubLabel:
			if cur.Label == "" {
				errs = append(errs, &NoParentLabelError{Name: m.Name, Line: s.Line})
				break
			}
			bind(Symbol{Name: scopedName(cur.Label, m.Name), Type: SymbolAddress, Value: uint16(cur.Address), Line: s.Line})
		}
		l.Scopes[i] = cur.Label
	}
	l.End = cur.Address

	for _, name := range dupOrder {
		errs = append(errs, &DuplicateSymbolError{Name: name, Lines: dups[name]})
	}
	return l, joinErrors(errs)
}

// Width returns the encoded size of an instruction in bytes. It depends only
// on the opcode and on each operand's kind and addressing, never on a
// resolved value.
func Width(inst Instruction) int {
	info := inst.Info()
	if info.Operands == 0 {
		return cpu.OpcodeWidth
	}
	w := cpu.OpcodeWidth + cpu.ModeWidth
	for _, v := range inst.Operands {
		w += cpu.OperandWidth(v.IsValue(), v.Addressed, info.ByteWidth)
	}
	return w
}
