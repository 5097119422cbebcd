// Package dvm implements the verifiable dummy virtual machine: a closed,
// stack-based bytecode interpreter together with the proof-table
// construction and verifier that certify one of its executions without
// re-running it.
package dvm

import "fmt"

// Opcode is the closed instruction set of the dummy virtual machine.
// Encoding and decoding between Opcode and its wire byte are total:
// decoding an unrecognized byte returns an error, never a panic.
type Opcode byte

const (
	Stop   Opcode = 0x00
	Add    Opcode = 0x01
	Sub    Opcode = 0x02
	Mul    Opcode = 0x03
	Div    Opcode = 0x04
	Mod    Opcode = 0x06 // 0x05 is a deliberate gap in the numbering
	Pop    Opcode = 0x50
	Mload  Opcode = 0x51
	Mstore Opcode = 0x52
	Jump   Opcode = 0x56
	Jumpi  Opcode = 0x57
	Push4  Opcode = 0x63
	Dup1   Opcode = 0x80
	Dup2   Opcode = 0x81
	Swap1  Opcode = 0x90
	Return Opcode = 0xf3
	Error  Opcode = 0xfe
)

// PCPolicy tags how an opcode's successful execution moves the program
// counter. It is documentation the way the taxonomy promises (§4.1); the
// actual pc' value is always computed by NextState, never derived from
// this tag.
type PCPolicy int

const (
	Advance PCPolicy = iota
	Halt
	JumpAbs
	JumpCond
	ErrorHalt
)

// OpcodeInfo carries the fixed per-opcode attributes the rest of the
// system consumes: how many stack reads must already be present for the
// opcode to be well-formed, and how the program counter normally moves.
type OpcodeInfo struct {
	Opcode        Opcode
	Name          string
	ReadsRequired int
	PCPolicy      PCPolicy
}

// AllOpcodes enumerates every opcode in the closed set, in a fixed total
// order. This order is what §4.8's lookup table iterates when it builds
// the cartesian product of steps × opcodes, and what NextState's
// opcode dispatch switches must stay exhaustive over.
var AllOpcodes = []Opcode{
	Stop, Add, Sub, Mul, Div, Mod, Pop, Mload, Mstore,
	Jump, Jumpi, Push4, Dup1, Dup2, Swap1, Return, Error,
}

var opcodeInfo = map[Opcode]OpcodeInfo{
	Stop:   {Stop, "Stop", 0, Halt},
	Add:    {Add, "Add", 2, Advance},
	Sub:    {Sub, "Sub", 2, Advance},
	Mul:    {Mul, "Mul", 2, Advance},
	Div:    {Div, "Div", 2, Advance},
	Mod:    {Mod, "Mod", 2, Advance},
	Pop:    {Pop, "Pop", 1, Advance},
	Mload:  {Mload, "Mload", 2, Advance},
	Mstore: {Mstore, "Mstore", 2, Advance},
	Jump:   {Jump, "Jump", 1, JumpAbs},
	Jumpi:  {Jumpi, "Jumpi", 2, JumpCond},
	Push4:  {Push4, "Push4", 0, Advance},
	Dup1:   {Dup1, "Dup1", 1, Advance},
	Dup2:   {Dup2, "Dup2", 2, Advance},
	Swap1:  {Swap1, "Swap1", 2, Advance},
	Return: {Return, "Return", 1, Halt},
	Error:  {Error, "Error", 1, Halt},
}

// Info returns the fixed attributes of o, or an error if o is not a
// member of the closed opcode set.
func (o Opcode) Info() (OpcodeInfo, error) {
	info, ok := opcodeInfo[o]
	if !ok {
		return OpcodeInfo{}, fmt.Errorf("dvm: unknown opcode encoding 0x%02x", byte(o))
	}
	return info, nil
}

// String renders the opcode's mnemonic, or "unknown(0xNN)" for a value
// outside the closed set.
func (o Opcode) String() string {
	if info, ok := opcodeInfo[o]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(o))
}

// ReadsRequired returns the minimum number of semantically meaningful
// stack reads o needs beyond the MAX_READS reserve layer.
func (o Opcode) ReadsRequired() int {
	info, err := o.Info()
	if err != nil {
		return 0
	}
	return info.ReadsRequired
}

// MinStackDepth is reads_required(op) + MAX_READS, the depth_ok gate
// threshold from §4.6.
func (o Opcode) MinStackDepth() int {
	return o.ReadsRequired() + MaxReads
}

// IsValidOpcode reports whether b decodes to a member of the closed set.
func IsValidOpcode(b byte) bool {
	_, ok := opcodeInfo[Opcode(b)]
	return ok
}

// DecodeOpcode decodes a wire byte into an Opcode. It is total: every
// byte either decodes to a member of the closed set or produces an
// error, never a panic.
func DecodeOpcode(b byte) (Opcode, error) {
	if !IsValidOpcode(b) {
		return 0, fmt.Errorf("dvm: unknown opcode encoding 0x%02x", b)
	}
	return Opcode(b), nil
}

// ErrorCode is the closed set of runtime diagnostic codes a faulting
// opcode pushes onto the stack before control lands on the sentinel
// Error opcode. These are never signaled to the host as exceptions
// (§7); the interpreter always completes the requested step count.
type ErrorCode uint32

const (
	NoError                 ErrorCode = 0x00
	NoReturn                ErrorCode = 0x01
	DivisionByZero          ErrorCode = 0x02
	IncorrectStackAccess    ErrorCode = 0x03
	IncorrectProgramCounter ErrorCode = 0x04
)

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NoError"
	case NoReturn:
		return "NoReturn"
	case DivisionByZero:
		return "DivisionByZero"
	case IncorrectStackAccess:
		return "IncorrectStackAccess"
	case IncorrectProgramCounter:
		return "IncorrectProgramCounter"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint32(e))
	}
}

// AccessKind distinguishes a stack access trace record as a Read or a
// Write (§3, §4.4).
type AccessKind byte

const (
	AccessWrite AccessKind = 0x00
	AccessRead  AccessKind = 0x01
)

func (k AccessKind) String() string {
	if k == AccessWrite {
		return "Write"
	}
	return "Read"
}
