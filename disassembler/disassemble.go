package disassembler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Urethramancer/duo/assembler"
)

// Instruction represents a single decoded instruction at a specific address.
type Instruction struct {
	Address uint16
	Inst    assembler.Instruction
	Size    int
	IsCode  bool // Flag to mark as reachable code
}

// Disassemble performs a multi-stage disassembly of code loaded at origin
// and returns it as source text.
func Disassemble(code []byte, origin uint16) (string, error) {
	if len(code) == 0 {
		return "", nil
	}
	if int(origin)+len(code) > assembler.AddressSpace {
		return "", errors.Errorf("%d bytes at 0x%04x exceed the address space", len(code), origin)
	}

	// --- STAGE 1: Linear Sweep ---
	// Decode at every offset; control flow decides which decodes are real.
	instructions := make(map[int]*Instruction)
	for off := range code {
		inst, size, err := Decode(code[off:])
		if err != nil {
			continue
		}
		instructions[off] = &Instruction{
			Address: origin + uint16(off),
			Inst:    inst,
			Size:    size,
		}
	}

	// --- STAGE 2: Control Flow Analysis ---
	labelTargets := make(map[int]bool)
	q := newQueue()
	q.push(0)

	for {
		off, ok := q.pop()
		if !ok {
			break
		}

		inst, exists := instructions[off]
		if !exists || inst.IsCode {
			continue
		}
		inst.IsCode = true

		if !inst.Inst.Op.IsTerminal() {
			q.push(off + inst.Size)
		}
		if target, ok := jumpTarget(inst.Inst); ok {
			t := int(target) - int(origin)
			if t >= 0 && t < len(code) {
				q.push(t)
				labelTargets[t] = true
			}
		}
	}

	// --- STAGE 3: Render Final Output ---
	var out strings.Builder
	for off := 0; off < len(code); {
		inst, decoded := instructions[off]
		if !decoded || !inst.IsCode {
			// Unreached bytes that still decode cleanly up to the next known
			// instruction are rendered as code; anything else is data.
			if decoded && fitsBefore(instructions, off, inst.Size, len(code)) {
				inst.IsCode = true
			} else {
				end := off + 1
				for end < len(code) {
					if next, ok := instructions[end]; ok && next.IsCode {
						break
					}
					if next, ok := instructions[end]; ok && fitsBefore(instructions, end, next.Size, len(code)) {
						break
					}
					end++
				}
				out.WriteString(formatData(code[off:end], origin+uint16(off)))
				off = end
				continue
			}
		}

		if labelTargets[off] {
			fmt.Fprintf(&out, "%s:\n", labelName(inst.Address))
		}

		text := renderOperands(inst.Inst, origin, len(code), labelTargets)
		if text != "" {
			fmt.Fprintf(&out, "    %-8s %s\n", inst.Inst.Op, text)
		} else {
			fmt.Fprintf(&out, "    %s\n", inst.Inst.Op)
		}

		off += inst.Size
	}

	return out.String(), nil
}

// fitsBefore reports whether an instruction at off of the given size ends
// before any reachable instruction starts and inside the code.
func fitsBefore(instructions map[int]*Instruction, off, size, total int) bool {
	if off+size > total {
		return false
	}
	for i := off + 1; i < off+size; i++ {
		if inst, ok := instructions[i]; ok && inst.IsCode {
			return false
		}
	}
	return true
}

// renderOperands prints operands, naming jump targets by their labels.
func renderOperands(inst assembler.Instruction, origin uint16, total int, labels map[int]bool) string {
	parts := make([]string, len(inst.Operands))
	for i, v := range inst.Operands {
		parts[i] = v.String()
	}
	if target, ok := jumpTarget(inst); ok {
		if t := int(target) - int(origin); t >= 0 && t < total && labels[t] {
			parts[len(parts)-1] = labelName(target)
		}
	}
	return strings.Join(parts, ", ")
}

func labelName(addr uint16) string {
	return fmt.Sprintf("L%04x", addr)
}

// addrQueue is a simple worklist queue for offsets to decode.
type addrQueue struct {
	items []int
	seen  map[int]bool
}

func newQueue() *addrQueue {
	return &addrQueue{seen: make(map[int]bool)}
}

func (q *addrQueue) push(off int) {
	if !q.seen[off] {
		q.items = append(q.items, off)
		q.seen[off] = true
	}
}

func (q *addrQueue) pop() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}
