package assembler

import (
	"strings"

	"github.com/Urethramancer/duo/cpu"
)

// NodeType defines the type of a parsed statement.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeMacro type.
	NodeMacro
)

// MacroType defines the kind of a macro directive.
type MacroType int

const (
	// MacroDefine binds a name to a constant.
	MacroDefine MacroType = iota
	// MacroLabel marks an address with a top-level name.
	MacroLabel
	// MacroSubLabel marks an address with a name scoped under the last label.
	MacroSubLabel
)

// Macro is an assembler directive. It emits no code.
type Macro struct {
	Type  MacroType
	Name  string
	Value uint16 // MacroDefine only
}

// Instruction is one machine instruction with its operands. The operand
// count always matches the opcode's arity.
type Instruction struct {
	Op       cpu.Op
	Operands []Value
}

// Info returns the static shape of the instruction.
func (i Instruction) Info() cpu.Info {
	return cpu.Instructions[i.Op]
}

// String renders the instruction in source syntax.
func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(i.Op.String())
	for n, v := range i.Operands {
		if n == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	return b.String()
}

// Statement represents one parsed line of source.
type Statement struct {
	Type        NodeType
	Line        int
	Text        string
	Macro       Macro
	Instruction Instruction
}

// IsInstruction reports whether the statement emits code.
func (s Statement) IsInstruction() bool {
	return s.Type == NodeInstruction
}
