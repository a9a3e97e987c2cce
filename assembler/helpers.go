package assembler

import (
	"github.com/pkg/errors"

	"github.com/Urethramancer/duo/cpu"
)

// Encode serialises one resolved instruction: the opcode, then for any
// instruction with operands the mode byte and each operand in order.
func Encode(inst Instruction) ([]byte, error) {
	info, ok := cpu.Instructions[inst.Op]
	if !ok {
		return nil, errors.Errorf("illegal opcode 0x%02x", uint8(inst.Op))
	}
	if len(inst.Operands) != info.Operands {
		return nil, &ArityError{Mnemonic: inst.Op.String(), Expected: info.Operands, Received: len(inst.Operands)}
	}

	code := []byte{byte(inst.Op)}
	if info.Operands == 0 {
		return code, nil
	}

	var mode uint8
	for i, v := range inst.Operands {
		mode |= cpu.ModeBits(i, v.IsValue(), v.Addressed)
	}
	code = append(code, mode)

	for _, v := range inst.Operands {
		var err error
		code, err = encodeOperand(code, v, info.ByteWidth)
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

func encodeOperand(code []byte, v Value, byteWidth bool) ([]byte, error) {
	switch v.Kind {
	case ValueRegister:
		return append(code, v.Register), nil

	case ValueImmediate:
		if cpu.OperandWidth(true, v.Addressed, byteWidth) == cpu.ByteWidth {
			if !fitsByte(v.Immediate) {
				return nil, &ValueOutOfRangeError{Value: v.Immediate, Bits: 8}
			}
			return append(code, byte(v.Immediate)), nil
		}
		return cpu.PutWord(code, v.Immediate), nil

	default:
		return nil, errors.Errorf("unresolved reference %q reached the encoder", v.Label)
	}
}

// fitsByte accepts unsigned bytes and sign-extended negative bytes.
func fitsByte(v uint16) bool {
	return v <= 0xFF || v >= 0xFF80
}

// EncodeProgram serialises placed instructions into one contiguous stream
// starting at the layout's start address, and maps each instruction
// address to its source line.
func EncodeProgram(placed []Placed, l *Layout) ([]byte, map[uint16]int, error) {
	code := make([]byte, 0, l.Size())
	lines := make(map[uint16]int, len(placed))
	var errs []error
	for _, p := range placed {
		if want := uint32(p.Address) - l.Start; uint32(len(code)) != want {
			return nil, nil, errors.Wrapf(ErrLayoutMismatch, "instruction on line %d placed at 0x%04x, stream at 0x%04x",
				p.Line, p.Address, l.Start+uint32(len(code)))
		}
		b, err := Encode(p.Instruction)
		if err != nil {
			errs = append(errs, &LineError{Line: p.Line, Text: p.Text, Err: err})
			// Keep the stream aligned with the layout so later errors still report.
			b = make([]byte, Width(p.Instruction))
		}
		lines[p.Address] = p.Line
		code = append(code, b...)
	}
	if err := joinErrors(errs); err != nil {
		return nil, nil, err
	}
	if len(code) != l.Size() {
		return nil, nil, errors.Wrapf(ErrLayoutMismatch, "encoded %d bytes, layout holds %d", len(code), l.Size())
	}
	return code, lines, nil
}
