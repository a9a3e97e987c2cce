package assembler

// Placed is a resolved instruction at its assigned address.
type Placed struct {
	Statement   int
	Line        int
	Text        string
	Address     uint16
	Instruction Instruction
}

// ResolveReferences replaces every reference operand with the value it
// names. The statements are not modified; resolved copies are returned in
// address order. Every unresolvable name is reported once with all lines
// that use it.
func ResolveReferences(statements []Statement, l *Layout) ([]Placed, error) {
	placed := make([]Placed, 0, len(statements))
	unknown := make(map[string][]int)
	var unknownOrder []string

	for i, s := range statements {
		if !s.IsInstruction() {
			continue
		}
		inst := Instruction{Op: s.Instruction.Op, Operands: make([]Value, len(s.Instruction.Operands))}
		for n, v := range s.Instruction.Operands {
			if v.Kind != ValueReference {
				inst.Operands[n] = v
				continue
			}
			sym, ok := l.Symbols.Resolve(v.Label, l.Scopes[i])
			if !ok {
				lines, seen := unknown[v.Label]
				if !seen {
					unknownOrder = append(unknownOrder, v.Label)
				}
				if len(lines) == 0 || lines[len(lines)-1] != s.Line {
					unknown[v.Label] = append(lines, s.Line)
				}
				inst.Operands[n] = v
				continue
			}
			r := Immediate(sym.Value)
			r.Addressed = v.Addressed
			inst.Operands[n] = r
		}
		placed = append(placed, Placed{Statement: i, Line: s.Line, Text: s.Text, Address: l.Addresses[i], Instruction: inst})
	}

	if len(unknownOrder) > 0 {
		errs := make([]error, len(unknownOrder))
		for i, name := range unknownOrder {
			errs[i] = &UnknownSymbolError{Name: name, Lines: unknown[name]}
		}
		return nil, joinErrors(errs)
	}
	return placed, nil
}
