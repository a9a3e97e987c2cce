package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/duo/cpu"
)

// ValueKind says what an operand holds.
type ValueKind int

const (
	// ValueRegister is a general register.
	ValueRegister ValueKind = iota
	// ValueImmediate is a 16-bit literal.
	ValueImmediate
	// ValueReference is an unresolved label or define name.
	ValueReference
)

// Value is a parsed operand. Addressed operands denote the memory location
// named by the register, literal or label rather than the value itself.
type Value struct {
	Kind      ValueKind
	Register  uint8
	Immediate uint16
	Label     string
	Addressed bool
}

// Register returns a register operand.
func Register(id uint8) Value { return Value{Kind: ValueRegister, Register: id} }

// Immediate returns a literal operand.
func Immediate(v uint16) Value { return Value{Kind: ValueImmediate, Immediate: v} }

// Reference returns a symbolic operand.
func Reference(label string) Value { return Value{Kind: ValueReference, Label: label} }

// At returns a copy of v marked as a memory address.
func (v Value) At() Value {
	v.Addressed = true
	return v
}

// IsValue reports whether the operand encodes as a value rather than a
// register id. References always resolve to values.
func (v Value) IsValue() bool {
	return v.Kind != ValueRegister
}

// String renders the operand in source syntax.
func (v Value) String() string {
	var s string
	switch v.Kind {
	case ValueRegister:
		s, _ = cpu.RegisterName(v.Register)
		if s == "" {
			s = fmt.Sprintf("r?%d", v.Register)
		}
	case ValueImmediate:
		s = fmt.Sprintf("0x%04x", v.Immediate)
	case ValueReference:
		s = v.Label
	}
	if v.Addressed {
		return "[" + s + "]"
	}
	return s
}

// ParseValue converts one token into an operand.
func ParseValue(token string) (Value, error) {
	text := token
	addressed := len(text) >= 2 && strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]")
	if addressed {
		text = text[1 : len(text)-1]
	}

	var v Value
	if id, ok := cpu.LookupRegister(text); ok {
		v = Register(id)
	} else if looksNumeric(text) {
		n, err := ParseNumber(text)
		if err != nil {
			return Value{}, err
		}
		v = Immediate(n)
	} else {
		v = Reference(text)
	}
	v.Addressed = addressed
	return v, nil
}

// looksNumeric reports whether text claims to be a literal: it carries a
// numeric prefix or starts with a digit.
func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	return strings.HasPrefix(text, "-") || (text[0] >= '0' && text[0] <= '9')
}

// ParseNumber parses a 16-bit literal. Hex (0x), binary (0b) and plain
// decimal must fit in 16 unsigned bits; negative decimals must fit in 16
// signed bits and are returned as their two's-complement pattern.
func ParseNumber(text string) (uint16, error) {
	var (
		n   uint64
		err error
	)
	switch {
	case strings.HasPrefix(text, "0x"):
		n, err = strconv.ParseUint(text[2:], 16, 16)
	case strings.HasPrefix(text, "0b"):
		n, err = strconv.ParseUint(text[2:], 2, 16)
	case strings.HasPrefix(text, "-"):
		var s int64
		s, err = strconv.ParseInt(text, 10, 16)
		n = uint64(uint16(int16(s)))
	default:
		n, err = strconv.ParseUint(text, 10, 16)
	}
	if err != nil {
		return 0, &BadNumberError{Text: text, Err: err}
	}
	return uint16(n), nil
}
