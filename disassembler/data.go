package disassembler

import (
	"fmt"
	"strings"
)

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// formatData renders bytes that are not code as comment lines, 8 bytes per
// line, each with its address and an ASCII gloss. The source language has
// no data directive, so these lines do not reassemble.
func formatData(data []byte, addr uint16) string {
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	const bytesPerLine = 8

	for i := 0; i < len(data); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]

		fmt.Fprintf(&sb, "    ; %04x: db ", addr+uint16(i))
		for j, b := range chunk {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "0x%02x", b)
		}
		sb.WriteString("  '")
		for _, b := range chunk {
			if isPrintableASCII(b) {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("'\n")
	}

	return sb.String()
}
