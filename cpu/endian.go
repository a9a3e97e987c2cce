package cpu

import (
	"encoding/binary"
)

// ByteOrder is the order words are stored in memory and in the output stream.
var ByteOrder = binary.LittleEndian

// PutWord appends a 16-bit word in machine byte order.
func PutWord(b []byte, w uint16) []byte {
	return ByteOrder.AppendUint16(b, w)
}

// Word reads a 16-bit word in machine byte order.
func Word(b []byte) uint16 {
	return ByteOrder.Uint16(b)
}
