package disassembler

import (
	"github.com/pkg/errors"

	"github.com/Urethramancer/duo/assembler"
	"github.com/Urethramancer/duo/cpu"
)

// Decode reads one instruction from the start of code. It returns the
// instruction and the number of bytes it occupies.
func Decode(code []byte) (assembler.Instruction, int, error) {
	if len(code) == 0 {
		return assembler.Instruction{}, 0, errors.New("no code to decode")
	}
	op := cpu.Op(code[0])
	info, ok := cpu.Instructions[op]
	if !ok {
		return assembler.Instruction{}, 0, errors.Errorf("illegal opcode 0x%02x", code[0])
	}
	inst := assembler.Instruction{Op: op}
	if info.Operands == 0 {
		return inst, cpu.OpcodeWidth, nil
	}

	pc := cpu.OpcodeWidth
	if len(code) < pc+cpu.ModeWidth {
		return assembler.Instruction{}, 0, errors.Errorf("%s: missing mode byte", op)
	}
	mode := code[pc]
	pc += cpu.ModeWidth
	if mode>>(2*info.Operands) != 0 {
		return assembler.Instruction{}, 0, errors.Errorf("%s: mode 0x%02x sets unused operand slots", op, mode)
	}

	inst.Operands = make([]assembler.Value, info.Operands)
	for i := range inst.Operands {
		value, addressed := cpu.SlotMode(mode, i)
		w := cpu.OperandWidth(value, addressed, info.ByteWidth)
		if len(code) < pc+w {
			return assembler.Instruction{}, 0, errors.Errorf("%s: operand %d truncated", op, i)
		}

		var v assembler.Value
		switch {
		case !value:
			if _, ok := cpu.RegisterName(code[pc]); !ok {
				return assembler.Instruction{}, 0, errors.Errorf("%s: bad register id %d", op, code[pc])
			}
			v = assembler.Register(code[pc])
		case w == cpu.ByteWidth:
			v = assembler.Immediate(uint16(code[pc]))
		default:
			v = assembler.Immediate(cpu.Word(code[pc:]))
		}
		v.Addressed = addressed
		inst.Operands[i] = v
		pc += w
	}
	return inst, pc, nil
}

// jumpTarget returns the address a jump transfers to, if it is a literal.
func jumpTarget(inst assembler.Instruction) (uint16, bool) {
	if !inst.Op.IsJump() || len(inst.Operands) == 0 {
		return 0, false
	}
	t := inst.Operands[len(inst.Operands)-1]
	if t.Kind != assembler.ValueImmediate || t.Addressed {
		return 0, false
	}
	return t.Immediate, true
}
