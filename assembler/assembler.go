package assembler

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Assembler holds the settings for the assembly process. It keeps no state
// between runs, so one Assembler can assemble any number of programs.
type Assembler struct {
	origin uint16
	log    *logrus.Entry
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithOrigin sets the address the first instruction is placed at.
func WithOrigin(origin uint16) Option {
	return func(asm *Assembler) { asm.origin = origin }
}

// WithLogger sets the logger pass progress is reported to.
func WithLogger(log *logrus.Entry) Option {
	return func(asm *Assembler) { asm.log = log }
}

// New creates a new Assembler instance.
func New(opts ...Option) *Assembler {
	asm := &Assembler{
		log: logrus.WithField("component", "assembler"),
	}
	for _, opt := range opts {
		opt(asm)
	}
	return asm
}

// Program is a fully assembled program.
type Program struct {
	Origin     uint16
	Code       []byte
	Statements []Statement
	Layout     *Layout
	// Lines maps each instruction address to its source line.
	Lines map[uint16]int
}

// Symbols returns the program's symbol table.
func (p *Program) Symbols() *SymbolTable {
	return p.Layout.Symbols
}

// AssembleSource tokenizes, parses and assembles source text.
func (asm *Assembler) AssembleSource(src string) (*Program, error) {
	lines := SplitLines(src)
	asm.log.Debugf("tokenized %d lines", len(lines))

	statements, err := ParseLines(lines)
	if err != nil {
		return nil, errors.Wrap(err, "parsing failed")
	}
	return asm.Assemble(statements)
}

// Assemble runs address assignment and then reference resolution and
// encoding over parsed statements. All symbol errors of both passes are
// reported together; no code is returned with an error.
func (asm *Assembler) Assemble(statements []Statement) (*Program, error) {
	layout, layoutErr := AssignAddresses(statements, Cursor{Address: uint32(asm.origin)})
	asm.log.WithFields(logrus.Fields{
		"statements": len(statements),
		"symbols":    layout.Symbols.Len(),
		"size":       layout.Size(),
	}).Debug("pass 1 complete")

	placed, resolveErr := ResolveReferences(statements, layout)
	if layoutErr != nil || resolveErr != nil {
		errs := append(Errors(layoutErr), Errors(resolveErr)...)
		return nil, errors.Wrap(joinErrors(errs), "address assignment failed")
	}

	code, lines, err := EncodeProgram(placed, layout)
	if err != nil {
		return nil, errors.Wrap(err, "encoding failed")
	}
	asm.log.WithField("bytes", len(code)).Debug("pass 2 complete")

	return &Program{
		Origin:     asm.origin,
		Code:       code,
		Statements: statements,
		Layout:     layout,
		Lines:      lines,
	}, nil
}
