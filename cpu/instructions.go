package cpu

// Op identifies one instruction variant of the machine.
type Op uint8

// Opcodes for all instructions. The set is closed.
const (
	// Control
	OPHLT  Op = 0x00 // HLT
	OPRETI Op = 0x01 // RETI

	// Single operand
	OPJMP  Op = 0x10 // JMP target
	OPLVCD Op = 0x11 // LVCD src
	OPLKBD Op = 0x12 // LKBD dst

	// Two operands
	OPMOV     Op = 0x20 // MOV dst, src
	OPMOVBYTE Op = 0x21 // MOV BYTE dst, src
	OPJNZ     Op = 0x22 // JNZ cond, target

	// Three operands
	OPADD Op = 0x30 // ADD dst, a, b
	OPAND Op = 0x31 // AND dst, a, b
)

// ModifierByte is the modifier word selecting the byte-width move.
const ModifierByte = "byte"

// Info describes the static shape of an instruction.
type Info struct {
	Op       Op
	Mnemonic string
	Operands int
	// ByteWidth is set for the byte-width move, whose plain value operands
	// are eight bits wide.
	ByteWidth bool
}

// Instructions lists every instruction, indexed by opcode.
var Instructions = map[Op]Info{
	OPHLT:     {OPHLT, "hlt", 0, false},
	OPRETI:    {OPRETI, "reti", 0, false},
	OPJMP:     {OPJMP, "jmp", 1, false},
	OPLVCD:    {OPLVCD, "lvcd", 1, false},
	OPLKBD:    {OPLKBD, "lkbd", 1, false},
	OPMOV:     {OPMOV, "mov", 2, false},
	OPMOVBYTE: {OPMOVBYTE, "mov", 2, true},
	OPJNZ:     {OPJNZ, "jnz", 2, false},
	OPADD:     {OPADD, "add", 3, false},
	OPAND:     {OPAND, "and", 3, false},
}

// Mnemonics maps a lowercase mnemonic to its plain (non-modified) opcode.
// The byte-width move shares "mov" and is selected by ModifierByte.
var Mnemonics = map[string]Op{
	"hlt":  OPHLT,
	"reti": OPRETI,
	"jmp":  OPJMP,
	"lvcd": OPLVCD,
	"lkbd": OPLKBD,
	"mov":  OPMOV,
	"jnz":  OPJNZ,
	"add":  OPADD,
	"and":  OPAND,
}

// String returns the source spelling of the instruction.
func (op Op) String() string {
	info, ok := Instructions[op]
	if !ok {
		return "illegal"
	}
	if info.ByteWidth {
		return info.Mnemonic + " " + ModifierByte
	}
	return info.Mnemonic
}

// Valid reports whether op is part of the instruction set.
func (op Op) Valid() bool {
	_, ok := Instructions[op]
	return ok
}

// IsJump reports whether the instruction transfers control to its last operand.
func (op Op) IsJump() bool {
	return op == OPJMP || op == OPJNZ
}

// IsTerminal reports whether execution never falls through to the next instruction.
func (op Op) IsTerminal() bool {
	return op == OPHLT || op == OPRETI || op == OPJMP
}
