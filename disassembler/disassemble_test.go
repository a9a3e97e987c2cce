package disassembler

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/duo/assembler"
	"github.com/Urethramancer/duo/cpu"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err)
	return b
}

func TestDecode(t *testing.T) {
	tests := []struct {
		hex  string
		text string
		size int
	}{
		{"00", "hlt", 1},
		{"01", "reti", 1},
		{"10 01 34 12", "jmp 0x1234", 4},
		{"11 02 01", "lvcd [r1]", 3},
		{"20 06 00 34 12", "mov [r0], 0x1234", 5},
		{"21 04 00 41", "mov byte r0, 0x0041", 4},
		{"21 03 00 10 01", "mov byte [0x1000], r1", 5},
		{"30 10 01 01 03 00", "add r1, r1, 0x0003", 6},
		{"31 30 01 00 00 80", "and r1, r0, [0x8000]", 6},
	}
	for _, tc := range tests {
		inst, size, err := Decode(mustHex(t, tc.hex))
		require.NoError(t, err, "decoding %s", tc.hex)
		assert.Equal(t, tc.size, size, "decoding %s", tc.hex)
		assert.Equal(t, tc.text, inst.String(), "decoding %s", tc.hex)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"":         "no code to decode",
		"ff":       "illegal opcode 0xff",
		"10":       "jmp: missing mode byte",
		"10 04":    "jmp: mode 0x04 sets unused operand slots",
		"10 01 05": "jmp: operand 0 truncated",
		"12 00 02": "lkbd: bad register id 2",
	}
	for code, msg := range tests {
		_, _, err := Decode(mustHex(t, code))
		assert.EqualError(t, err, msg, "decoding %q", code)
	}
}

func TestDecodeMatchesWidth(t *testing.T) {
	src := "mov byte [r1], 0x7f\nadd r0, [r1], [0x10]\njnz r1, 0x0\n"
	program, err := assembler.New().AssembleSource(src)
	require.NoError(t, err)

	off := 0
	for _, s := range program.Statements {
		inst, size, err := Decode(program.Code[off:])
		require.NoError(t, err)
		assert.Equal(t, assembler.Width(s.Instruction), size)
		assert.Equal(t, s.Instruction.Op, inst.Op)
		off += size
	}
	assert.Equal(t, len(program.Code), off)
}

func TestDisassembleRoundTrip(t *testing.T) {
	code := mustHex(t, "10 01 05 00 00 20 04 00 01 00 22 04 00 00 00")

	text, err := Disassemble(code, 0)
	require.NoError(t, err)

	expected := `L0000:
    jmp      L0005
    hlt
L0005:
    mov      r0, 0x0001
    jnz      r0, L0000
`
	assert.Equal(t, expected, text)

	program, err := assembler.New().AssembleSource(text)
	require.NoError(t, err)
	assert.Equal(t, code, program.Code)
}

func TestDisassembleOrigin(t *testing.T) {
	text, err := Disassemble(mustHex(t, "10 01 00 01"), 0x100)
	require.NoError(t, err)
	assert.Equal(t, "L0100:\n    jmp      L0100\n", text)

	// Targets outside the image stay literal.
	text, err = Disassemble(mustHex(t, "10 01 00 20"), 0x100)
	require.NoError(t, err)
	assert.Equal(t, "    jmp      0x2000\n", text)

	_, err = Disassemble([]byte{byte(cpu.OPHLT), byte(cpu.OPHLT)}, 0xFFFF)
	assert.Error(t, err)
}

func TestDisassembleData(t *testing.T) {
	text, err := Disassemble([]byte{0x00, 0xFF}, 0)
	require.NoError(t, err)
	assert.Equal(t, "    hlt\n    ; 0001: db 0xff  '.'\n", text)

	text, err = Disassemble(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFormatData(t *testing.T) {
	assert.Equal(t, "    ; 0000: db 0xff  '.'\n", formatData([]byte{0xFF}, 0))
	assert.Equal(t, "    ; 0010: db 0x48, 0x69  'Hi'\n", formatData([]byte("Hi"), 0x10))

	long := formatData([]byte("ABCDEFGHIJ"), 0)
	assert.Equal(t, "    ; 0000: db 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48  'ABCDEFGH'\n"+
		"    ; 0008: db 0x49, 0x4a  'IJ'\n", long)
	assert.Empty(t, formatData(nil, 0))
}
