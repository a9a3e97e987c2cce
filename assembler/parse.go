package assembler

import (
	"strings"

	"github.com/Urethramancer/duo/cpu"
)

const defineDirective = "%define"

// dispatchKey selects an instruction by mnemonic and operand count.
type dispatchKey struct {
	mnemonic string
	operands int
}

// dispatch is the closed table of instruction forms. The byte-width move is
// recognised by its modifier before lookup.
var dispatch = func() map[dispatchKey]cpu.Op {
	m := make(map[dispatchKey]cpu.Op, len(cpu.Mnemonics))
	for mn, op := range cpu.Mnemonics {
		m[dispatchKey{mn, cpu.Instructions[op].Operands}] = op
	}
	return m
}()

// ParseLine turns the tokens of one non-empty line into a statement. It is
// purely syntactic; symbols are left as references. The returned statement
// carries no line number.
func ParseLine(tokens []string) (Statement, error) {
	if len(tokens) == 0 {
		return Statement{}, &ArityError{Expected: 1, Received: 0}
	}

	first := tokens[0]
	if strings.HasSuffix(first, ":") {
		return parseLabel(tokens)
	}
	if strings.HasPrefix(first, defineDirective) {
		return parseDefine(tokens)
	}
	return parseInstruction(tokens)
}

// parseLabel handles "name:" and ".name:".
func parseLabel(tokens []string) (Statement, error) {
	if err := checkArity("", 1, len(tokens)); err != nil {
		return Statement{}, err
	}
	label := tokens[0]
	name := strings.TrimSuffix(strings.TrimPrefix(label, "."), ":")
	if name == "" {
		return Statement{}, &EmptyLabelError{Text: label}
	}

	m := Macro{Type: MacroLabel, Name: name}
	if strings.HasPrefix(label, ".") {
		m.Type = MacroSubLabel
	}
	return Statement{Type: NodeMacro, Macro: m}, nil
}

// parseDefine handles "%define NAME VALUE".
func parseDefine(tokens []string) (Statement, error) {
	if err := checkArity("", 3, len(tokens)); err != nil {
		return Statement{}, err
	}
	value, err := ParseNumber(tokens[2])
	if err != nil {
		return Statement{}, err
	}
	m := Macro{Type: MacroDefine, Name: tokens[1], Value: value}
	return Statement{Type: NodeMacro, Macro: m}, nil
}

// parseInstruction dispatches on mnemonic and operand count.
func parseInstruction(tokens []string) (Statement, error) {
	mnemonic := strings.ToLower(tokens[0])
	args := tokens[1:]

	op, err := lookupInstruction(mnemonic, args, tokens)
	if err != nil {
		return Statement{}, err
	}
	if op == cpu.OPMOVBYTE {
		args = args[1:]
	}

	operands := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := ParseValue(a)
		if err != nil {
			return Statement{}, err
		}
		operands = append(operands, v)
	}
	return Statement{Type: NodeInstruction, Instruction: Instruction{Op: op, Operands: operands}}, nil
}

// lookupInstruction finds the opcode for a mnemonic and its operand tokens,
// or explains why there is none.
func lookupInstruction(mnemonic string, args, tokens []string) (cpu.Op, error) {
	plain, known := cpu.Mnemonics[mnemonic]
	if !known {
		return 0, unknownStatement(tokens)
	}

	if plain == cpu.OPMOV {
		switch {
		case len(args) == 3:
			if strings.ToLower(args[0]) != cpu.ModifierByte {
				return 0, &UnknownMovModifierError{Modifier: args[0]}
			}
			return cpu.OPMOVBYTE, nil
		case len(args) > 0 && strings.ToLower(args[0]) == cpu.ModifierByte:
			return 0, checkArity(cpu.OPMOVBYTE.String(), 2, len(args)-1)
		}
	}

	if op, ok := dispatch[dispatchKey{mnemonic, len(args)}]; ok {
		return op, nil
	}
	return 0, checkArity(mnemonic, cpu.Instructions[plain].Operands, len(args))
}

func checkArity(mnemonic string, expected, received int) error {
	if expected == received {
		return nil
	}
	return &ArityError{Mnemonic: mnemonic, Expected: expected, Received: received}
}

func unknownStatement(tokens []string) error {
	return &UnknownStatementError{Mnemonic: tokens[0], Text: strings.Join(tokens, " ")}
}

// ParseLines parses every line, collecting all per-line errors.
func ParseLines(lines []SourceLine) ([]Statement, error) {
	statements := make([]Statement, 0, len(lines))
	var errs []error
	for _, l := range lines {
		s, err := ParseLine(l.Tokens)
		if err != nil {
			errs = append(errs, &LineError{Line: l.Number, Text: l.Text, Err: err})
			continue
		}
		s.Line = l.Number
		s.Text = l.Text
		statements = append(statements, s)
	}
	if err := joinErrors(errs); err != nil {
		return nil, err
	}
	return statements, nil
}
