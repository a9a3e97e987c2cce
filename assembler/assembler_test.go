package assembler_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/duo/assembler"
)

// Assembles source and checks against an expected byte sequence (in hex).
// Automatically validates output length and content.
func assembleAndMatchHex(t *testing.T, name, src, expectedHex string, opts ...assembler.Option) *assembler.Program {
	t.Helper()

	expectedHex = strings.ToLower(strings.Join(strings.Fields(expectedHex), ""))
	expected, err := hex.DecodeString(expectedHex)
	require.NoError(t, err, "[%s] invalid expected hex string", name)

	program, err := assembler.New(opts...).AssembleSource(src)
	require.NoError(t, err, "[%s] failed to assemble:\n%s", name, src)
	require.Equal(t, len(expected), len(program.Code),
		"[%s] expected %d bytes, got %d\nexpected: % X\ngot:      % X", name, len(expected), len(program.Code), expected, program.Code)
	assert.Equal(t, expected, program.Code, "[%s] byte mismatch", name)
	return program
}

func TestBasicEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"HLT", "hlt", "00"},
		{"RETI", "reti", "01"},
		{"JMP_Immediate", "jmp 0x0010", "10 01 10 00"},
		{"LVCD_Indirect", "lvcd [r1]", "11 02 01"},
		{"LKBD_Register", "lkbd r0", "12 00 00"},
		{"MOV_RegReg", "mov r0, r1", "20 00 00 01"},
		{"MOV_IndirectImm", "mov [r0], 0x1234", "20 06 00 34 12"},
		{"JNZ", "jnz r0, 0x20", "22 04 00 20 00"},
		{"ADD", "add r0, r0, 0x5", "30 10 00 00 05 00"},
		{"AND_Absolute", "and r1, r0, [0x8000]", "31 30 01 00 00 80"},
		{"Uppercase", "ADD R1, R1, 0b11", "30 10 01 01 03 00"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestByteMoveEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"MOVB_Imm", "mov byte r0, 0x41", "21 04 00 41"},
		{"MOVB_Negative", "mov byte r0, -1", "21 04 00 ff"},
		{"MOVB_ToAddress", "mov byte [0x1000], r1", "21 03 00 10 01"},
		{"MOVB_FromRegister", "mov byte [r0], r1", "21 02 00 01"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestByteMoveOutOfRange(t *testing.T) {
	_, err := assembler.New().AssembleSource("mov byte r0, 0x100")
	require.Error(t, err)
	assert.True(t, errors.Is(err, assembler.ErrEncoding))

	var oor *assembler.ValueOutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, uint16(0x100), oor.Value)
}

func TestForwardReference(t *testing.T) {
	src := `
start:
    jmp target      ; resolved after target is placed
    hlt
target:
    mov r0, 0x1
    jnz r0, start
`
	program := assembleAndMatchHex(t, "ForwardReference", src,
		"10 01 05 00 00 20 04 00 01 00 22 04 00 00 00")

	sym, ok := program.Symbols().Lookup("target")
	require.True(t, ok)
	assert.Equal(t, uint16(5), sym.Value)
	assert.Equal(t, 3, program.Lines[0])
	assert.Equal(t, 7, program.Lines[10])
}

func TestSubLabelScoping(t *testing.T) {
	src := `
foo:
.loop:
    add r0, r0, 1
    jnz r0, .loop
bar:
.loop:
    jmp loop
    jmp foo.loop
`
	program := assembleAndMatchHex(t, "SubLabels", src,
		"30 10 00 00 01 00 22 04 00 00 00 10 01 0b 00 10 01 00 00")

	sym, ok := program.Symbols().Lookup("bar.loop")
	require.True(t, ok)
	assert.Equal(t, uint16(11), sym.Value)
}

func TestDefine(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"Value", "%define SIZE 0x10\nmov r0, SIZE", "20 04 00 10 00"},
		{"Addressed", "%define PORT 0x10\nmov r0, [PORT]", "20 0c 00 10 00"},
		{"Negative", "%define DOWN -2\nadd r0, r0, DOWN", "30 10 00 00 fe ff"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestOrigin(t *testing.T) {
	program := assembleAndMatchHex(t, "Origin", "start:\n    jmp start", "10 01 00 01",
		assembler.WithOrigin(0x100))
	assert.Equal(t, uint16(0x100), program.Origin)
	assert.Equal(t, 4, program.Layout.Size())
}

func TestSingleHalt(t *testing.T) {
	program := assembleAndMatchHex(t, "Hlt", "hlt", "00")
	require.Len(t, program.Statements, 1)
	assert.Equal(t, assembler.Width(program.Statements[0].Instruction), len(program.Code))
}

func TestIdempotent(t *testing.T) {
	src := "foo:\n.a:\n mov r0, [bar]\n jnz r0, .a\nbar:\n hlt\n"
	asm := assembler.New()

	first, err := asm.AssembleSource(src)
	require.NoError(t, err)
	second, err := asm.AssembleSource(src)
	require.NoError(t, err)
	third, err := assembler.New().AssembleSource(src)
	require.NoError(t, err)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Code, third.Code)
}

func TestParseErrorsCollected(t *testing.T) {
	src := "mov r0\nhlt r0\nfoo r0\nmov word r0, r1\njmp 0xZZ\n"
	program, err := assembler.New().AssembleSource(src)
	require.Error(t, err)
	assert.Nil(t, program)

	errs := assembler.Errors(err)
	require.Len(t, errs, 5)
	for i, e := range errs {
		var le *assembler.LineError
		require.True(t, errors.As(e, &le), "error %d is not a line error: %v", i, e)
		assert.Equal(t, i+1, le.Line)
	}
	assert.True(t, errors.Is(errs[0], assembler.ErrSyntax))
	assert.True(t, errors.Is(errs[4], assembler.ErrLiteral))
}

func TestSymbolErrorsCollected(t *testing.T) {
	src := `.orphan:
jmp nowhere
dup:
dup:
jmp nowhere
mov r0, missing
`
	program, err := assembler.New().AssembleSource(src)
	require.Error(t, err)
	assert.Nil(t, program)
	assert.True(t, errors.Is(err, assembler.ErrSymbol))

	errs := assembler.Errors(err)
	require.Len(t, errs, 4)

	var np *assembler.NoParentLabelError
	require.True(t, errors.As(errs[0], &np))
	assert.Equal(t, "orphan", np.Name)

	var unk *assembler.UnknownSymbolError
	require.True(t, errors.As(errs[1], &unk))
	assert.Equal(t, "nowhere", unk.Name)
	assert.Equal(t, []int{2, 5}, unk.Lines)

	var dup *assembler.DuplicateSymbolError
	require.True(t, errors.As(errs[2], &dup))
	assert.Equal(t, "dup", dup.Name)
	assert.Equal(t, []int{3, 4}, dup.Lines)

	require.True(t, errors.As(errs[3], &unk))
	assert.Equal(t, "missing", unk.Name)
	assert.Equal(t, []int{6}, unk.Lines)
}

func TestProgramTooLarge(t *testing.T) {
	_, err := assembler.New(assembler.WithOrigin(0xFFFE)).AssembleSource("hlt\nmov r0, 0x1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, assembler.ErrEncoding))

	var tooLarge *assembler.ProgramTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, uint32(0xFFFF+5), tooLarge.Address)
}

func TestCombinedProgram(t *testing.T) {
	src := `
; keyboard echo
%define SCREEN 0x8000
%define MASK   0x7f

main:
    mov r1, SCREEN        ; cursor
.next:
    lkbd r0
    and r0, r0, MASK
    jnz r0, .store
    jmp .next
.store:
    mov byte [r1], r0
    add r1, r1, 1
    jmp main.next
done:
    hlt
`
	expected := `
20 04 01 00 80
12 00 00
31 10 00 00 7f 00
22 04 00 17 00
10 01 05 00
21 02 01 00
30 10 01 01 01 00
10 01 05 00
00
`
	program := assembleAndMatchHex(t, "Combined", src, expected)

	sym, ok := program.Symbols().Lookup("main.store")
	require.True(t, ok)
	assert.Equal(t, uint16(0x17), sym.Value)
	assert.Equal(t, assembler.SymbolAddress, sym.Type)

	sym, ok = program.Symbols().Lookup("SCREEN")
	require.True(t, ok)
	assert.Equal(t, assembler.SymbolConstant, sym.Type)
}
