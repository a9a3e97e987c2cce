package cpu

import "strings"

// Register ids as encoded in a register operand byte.
const (
	// RegR0 is general register 0.
	RegR0 uint8 = 0
	// RegR1 is general register 1.
	RegR1 uint8 = 1
)

// RegisterNames maps lowercase register names to ids.
var RegisterNames = map[string]uint8{
	"r0": RegR0,
	"r1": RegR1,
}

// RegisterName returns the source name of a register id.
func RegisterName(id uint8) (string, bool) {
	switch id {
	case RegR0:
		return "r0", true
	case RegR1:
		return "r1", true
	}
	return "", false
}

// LookupRegister matches a register name case-insensitively.
func LookupRegister(s string) (uint8, bool) {
	id, ok := RegisterNames[strings.ToLower(s)]
	return id, ok
}

// Mode byte layout: two bits per operand slot, slot 0 in the low bits.
const (
	// ModeValue marks a value (immediate) operand; clear means register.
	ModeValue uint8 = 1 << 0
	// ModeAddressed marks an operand that denotes a memory location.
	ModeAddressed uint8 = 1 << 1

	// MaxOperands is the widest operand list any instruction takes.
	MaxOperands = 3
)

// ModeBits returns the mode bits for operand slot i.
func ModeBits(i int, value, addressed bool) uint8 {
	var m uint8
	if value {
		m |= ModeValue
	}
	if addressed {
		m |= ModeAddressed
	}
	return m << (2 * i)
}

// SlotMode extracts the value and addressed flags of slot i from a mode byte.
func SlotMode(mode uint8, i int) (value, addressed bool) {
	m := mode >> (2 * i)
	return m&ModeValue != 0, m&ModeAddressed != 0
}

// Operand widths in bytes.
const (
	RegisterWidth = 1
	WordWidth     = 2
	ByteWidth     = 1
	// OpcodeWidth is the opcode byte.
	OpcodeWidth = 1
	// ModeWidth is the mode byte following the opcode of any instruction with operands.
	ModeWidth = 1
)

// OperandWidth returns the encoded width of one operand. Plain value
// operands of a byte-width instruction are a single byte.
func OperandWidth(value, addressed, byteWidth bool) int {
	switch {
	case !value:
		return RegisterWidth
	case byteWidth && !addressed:
		return ByteWidth
	default:
		return WordWidth
	}
}
