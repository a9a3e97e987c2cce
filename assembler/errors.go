package assembler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Error classes. Every error returned by this package matches exactly one
// of these with errors.Is.
var (
	// ErrSyntax covers arity mismatches, unknown mnemonics and modifiers.
	ErrSyntax = errors.New("syntax error")
	// ErrLiteral covers malformed numeric literals.
	ErrLiteral = errors.New("literal error")
	// ErrSymbol covers duplicate, unscoped and unresolved symbols.
	ErrSymbol = errors.New("symbol error")
	// ErrEncoding covers values that do not fit their encoding and programs
	// that do not fit the address space.
	ErrEncoding = errors.New("encoding error")
	// ErrLayoutMismatch means the encoder and the address assigner disagree
	// about instruction widths.
	ErrLayoutMismatch = errors.New("encoded length does not match assigned addresses")
)

// ArityError is a statement with the wrong number of operands.
type ArityError struct {
	Mnemonic string
	Expected int
	Received int
}

func (e *ArityError) Error() string {
	what := "too few"
	if e.Received > e.Expected {
		what = "too many"
	}
	if e.Mnemonic == "" {
		return fmt.Sprintf("%s values: expected %d, received %d", what, e.Expected, e.Received)
	}
	return fmt.Sprintf("%s values for %s: expected %d, received %d", what, e.Mnemonic, e.Expected, e.Received)
}

// TooMany reports whether more values than expected were given.
func (e *ArityError) TooMany() bool { return e.Received > e.Expected }

func (e *ArityError) Is(target error) bool { return target == ErrSyntax }

// UnknownStatementError is a mnemonic not defined for the operand count given.
type UnknownStatementError struct {
	Mnemonic string
	Text     string
}

func (e *UnknownStatementError) Error() string {
	return fmt.Sprintf("unknown statement %q in %q", e.Mnemonic, e.Text)
}

func (e *UnknownStatementError) Is(target error) bool { return target == ErrSyntax }

// UnknownMovModifierError is a four-token mov whose modifier is not "byte".
type UnknownMovModifierError struct {
	Modifier string
}

func (e *UnknownMovModifierError) Error() string {
	return fmt.Sprintf("unknown mov modifier %q", e.Modifier)
}

func (e *UnknownMovModifierError) Is(target error) bool { return target == ErrSyntax }

// EmptyLabelError is a label directive with no name.
type EmptyLabelError struct {
	Text string
}

func (e *EmptyLabelError) Error() string {
	return fmt.Sprintf("empty label %q", e.Text)
}

func (e *EmptyLabelError) Is(target error) bool { return target == ErrSyntax }

// BadNumberError is a literal that looks numeric but does not parse.
type BadNumberError struct {
	Text string
	Err  error
}

func (e *BadNumberError) Error() string {
	return fmt.Sprintf("bad number %q: %v", e.Text, e.Err)
}

func (e *BadNumberError) Unwrap() error { return e.Err }

func (e *BadNumberError) Is(target error) bool { return target == ErrLiteral }

// DuplicateSymbolError is a name bound by more than one macro.
type DuplicateSymbolError struct {
	Name  string
	Lines []int
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("duplicate symbol %q defined on lines %s", e.Name, joinLines(e.Lines))
}

func (e *DuplicateSymbolError) Is(target error) bool { return target == ErrSymbol }

// NoParentLabelError is a sub-label that appears before any top-level label.
type NoParentLabelError struct {
	Name string
	Line int
}

func (e *NoParentLabelError) Error() string {
	return fmt.Sprintf("line %d: sub-label %q has no parent label", e.Line, e.Name)
}

func (e *NoParentLabelError) Is(target error) bool { return target == ErrSymbol }

// UnknownSymbolError is a reference that no binding satisfies.
type UnknownSymbolError struct {
	Name  string
	Lines []int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %q referenced on lines %s", e.Name, joinLines(e.Lines))
}

func (e *UnknownSymbolError) Is(target error) bool { return target == ErrSymbol }

// ValueOutOfRangeError is a resolved value too wide for its operand slot.
type ValueOutOfRangeError struct {
	Value uint16
	Bits  int
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("value 0x%04x does not fit in %d bits", e.Value, e.Bits)
}

func (e *ValueOutOfRangeError) Is(target error) bool { return target == ErrEncoding }

// ProgramTooLargeError is an instruction placed past the end of the address space.
type ProgramTooLargeError struct {
	Address uint32
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program too large: address 0x%x is past addressable memory", e.Address)
}

func (e *ProgramTooLargeError) Is(target error) bool { return target == ErrEncoding }

// LineError attaches the source location to a per-line error.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// firstLine returns the earliest source line an error is attributed to.
func firstLine(err error) int {
	var le *LineError
	if errors.As(err, &le) {
		return le.Line
	}
	var dup *DuplicateSymbolError
	if errors.As(err, &dup) && len(dup.Lines) > 0 {
		return dup.Lines[0]
	}
	var unk *UnknownSymbolError
	if errors.As(err, &unk) && len(unk.Lines) > 0 {
		return unk.Lines[0]
	}
	var np *NoParentLabelError
	if errors.As(err, &np) {
		return np.Line
	}
	return 0
}

// joinErrors sorts errs by source line and folds them into one error.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return firstLine(errs[i]) < firstLine(errs[j])
	})
	merr := multierror.Append(nil, errs...)
	merr.ErrorFormat = listFormat
	return merr
}

// Errors flattens an error returned by this package into its parts.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(lines, "\n\t"))
}

func joinLines(lines []int) string {
	s := make([]string, len(lines))
	for i, l := range lines {
		s[i] = strconv.Itoa(l)
	}
	return strings.Join(s, ", ")
}
