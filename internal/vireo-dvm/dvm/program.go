package dvm

import "fmt"

// Instruction is a single program-memory record: an opcode plus its
// fixed-width immediate operands. Opcodes that ignore immediates (every
// opcode but Push4) simply carry a zeroed Immediates array.
type Instruction struct {
	Opcode      Opcode
	Immediates  [MaxImmediates]uint32
}

// NewInstruction builds an Instruction, rejecting unknown opcode
// encodings at construction the way §6 requires ("Opcode codes not in
// §4.1 are rejected at construction").
func NewInstruction(op Opcode, immediates ...uint32) (Instruction, error) {
	if _, err := op.Info(); err != nil {
		return Instruction{}, err
	}
	var inst Instruction
	inst.Opcode = op
	for i := 0; i < len(immediates) && i < MaxImmediates; i++ {
		inst.Immediates[i] = immediates[i]
	}
	return inst, nil
}

// Program is the immutable, sentinel-padded program memory (component
// B). It is built once from a user-supplied instruction sequence and
// never mutated afterward.
type Program struct {
	instructions []Instruction
	errorIdx     int
	stopIdx      int
}

// NewProgram constructs program memory from the user's instruction
// sequence, appending the mandatory Error and Stop sentinels (§3: "the
// final two positions are Error ... and Stop"). It rejects an empty
// user sequence per §7's EmptyProgram host-level error.
func NewProgram(user []Instruction) (*Program, error) {
	if len(user) == 0 {
		return nil, &DVMError{Code: ErrEmptyProgram, Message: "program memory requires at least one user instruction"}
	}

	errInst, err := NewInstruction(Error)
	if err != nil {
		return nil, err
	}
	stopInst, err := NewInstruction(Stop)
	if err != nil {
		return nil, err
	}

	instructions := make([]Instruction, 0, len(user)+2)
	instructions = append(instructions, user...)
	instructions = append(instructions, errInst, stopInst)

	return &Program{
		instructions: instructions,
		errorIdx:     len(instructions) - 2,
		stopIdx:      len(instructions) - 1,
	}, nil
}

// Len returns the total number of program-memory slots, sentinels
// included.
func (p *Program) Len() int { return len(p.instructions) }

// ErrorIdx is the index of the sentinel Error slot.
func (p *Program) ErrorIdx() int { return p.errorIdx }

// StopIdx is the index of the sentinel Stop slot.
func (p *Program) StopIdx() int { return p.stopIdx }

// InRange reports whether pc addresses a valid program-memory slot.
func (p *Program) InRange(pc int) bool { return pc >= 0 && pc < len(p.instructions) }

// Fetch returns the instruction at pc. Calling it with an out-of-range
// pc is a programmer error per §4.2 ("the interpreter must never call
// it with an invalid pc") and panics rather than returning a zero
// value that could silently masquerade as Stop.
func (p *Program) Fetch(pc int) Instruction {
	if !p.InRange(pc) {
		panic(fmt.Sprintf("dvm: fetch at out-of-range pc %d (len=%d)", pc, len(p.instructions)))
	}
	return p.instructions[pc]
}

// Instructions returns the full sentinel-padded instruction sequence,
// in index order. Callers must not mutate the returned slice.
func (p *Program) Instructions() []Instruction {
	return p.instructions
}
