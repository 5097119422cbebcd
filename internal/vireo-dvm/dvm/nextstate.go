package dvm

// NextState is the single source of truth for DVM semantics (component
// F, §4.6): a pure, total function from (depth, pc, reads, opcode,
// immediates) to (depth', pc', writes). It is reused verbatim by the
// interpreter (G) and by the proof table builder's lookup table (H),
// and recomputed verbatim by the verifier (I) to check P4. It must
// never panic: every opcode and every input tuple yields a defined
// output.
//
// reads[0] is always the current top of stack, reads[1] the next
// slot down, and so on — this is the order §4.5 emits Read records in
// (locations depthBefore-1, depthBefore-2, ...), and it is the
// convention every rule below assumes. Div and Mod divide reads[0] by
// reads[1] (dividend on top, divisor one slot down), matching the
// literal divzero_ok gate below, which is defined in terms of
// reads[1].
type StepInput struct {
	Depth      int
	PC         int
	Reads      [MaxReads]uint32
	Opcode     Opcode
	Immediates [MaxImmediates]uint32
	ProgramLen int
	ErrorIdx   int
	StopIdx    int
}

type StepOutput struct {
	Depth  int
	PC     int
	Writes [MaxWrites]uint32
}

// NextState computes F(in). See the StepInput doc comment above for the
// read-index convention.
func NextState(in StepInput) StepOutput {
	depthOK := in.Depth >= in.Opcode.MinStackDepth()

	divZeroOK := true
	if (in.Opcode == Div || in.Opcode == Mod) && in.Reads[1] == 0 {
		divZeroOK = false
	}

	pcOK := evalPCOK(in)

	isError := !(depthOK && divZeroOK && pcOK)

	if isError {
		return StepOutput{
			Depth: in.Depth + 1,
			PC:    in.ErrorIdx,
			Writes: [MaxWrites]uint32{
				errorDiagnostic(depthOK, divZeroOK),
				in.Reads[0],
			},
		}
	}

	return StepOutput{
		Depth:  nextDepth(in),
		PC:     nextPC(in),
		Writes: nextWrites(in),
	}
}

// errorDiagnostic picks the single runtime ErrorCode per §4.6's
// Error-writes rule: IncorrectStackAccess first, else
// DivisionByZero, else IncorrectProgramCounter.
func errorDiagnostic(depthOK, divZeroOK bool) uint32 {
	switch {
	case !depthOK:
		return uint32(IncorrectStackAccess)
	case !divZeroOK:
		return uint32(DivisionByZero)
	default:
		return uint32(IncorrectProgramCounter)
	}
}

// evalPCOK implements the opcode-specific pc_ok gate from §4.6 step 3.
func evalPCOK(in StepInput) bool {
	switch in.Opcode {
	case Stop, Return, Error:
		return true
	case Jump:
		return int(in.Reads[0]) < in.ProgramLen
	case Jumpi:
		if in.Reads[1] == 0 {
			return in.PC+1 < in.ProgramLen
		}
		return int(in.Reads[0]) < in.ProgramLen
	default: // Add, Sub, Mul, Div, Mod, Push4, Dup1, Dup2, Pop, Swap1, Mload, Mstore
		return in.PC+1 < in.ProgramLen
	}
}

// nextDepth implements §4.6's "Next depth" rules for the non-error
// path.
func nextDepth(in StepInput) int {
	switch in.Opcode {
	case Push4, Dup1, Dup2:
		return in.Depth + 1
	case Stop, Swap1:
		return in.Depth
	case Jumpi:
		return in.Depth - 2
	default: // Add, Sub, Mul, Div, Mod, Pop, Mload, Mstore, Jump, Return, Error
		return in.Depth - 1
	}
}

// nextPC implements §4.6's "Next pc" rules for the non-error path.
func nextPC(in StepInput) int {
	switch in.Opcode {
	case Stop:
		return in.PC
	case Return, Error:
		return in.StopIdx
	case Jump:
		return int(in.Reads[0])
	case Jumpi:
		if in.Reads[1] != 0 {
			return int(in.Reads[0])
		}
		return in.PC + 1
	default:
		return in.PC + 1
	}
}

// nextWrites implements §4.6's "Writes" rules for the non-error path.
// The general shape, consistent across every branch, is that writes[0]
// and writes[1] are always the new top two stack slots after the
// opcode's effect; the branches below differ only in which of the
// inputs land in those two slots.
func nextWrites(in StepInput) [MaxWrites]uint32 {
	r := in.Reads
	switch in.Opcode {
	case Stop:
		// Untouched top two stack values.
		return [MaxWrites]uint32{r[0], r[1]}
	case Return, Error:
		// One value popped (the return value / nothing, respectively);
		// the new top two slide down by one.
		return [MaxWrites]uint32{r[1], r[2]}
	case Add:
		return [MaxWrites]uint32{r[0] + r[1], r[2]}
	case Sub:
		return [MaxWrites]uint32{r[0] - r[1], r[2]}
	case Mul:
		return [MaxWrites]uint32{r[0] * r[1], r[2]}
	case Div:
		return [MaxWrites]uint32{r[0] / r[1], r[2]}
	case Mod:
		return [MaxWrites]uint32{r[0] % r[1], r[2]}
	case Pop:
		return [MaxWrites]uint32{r[1], r[2]}
	case Mload:
		// No dynamic memory beyond the stack (§1 Non-goal): the
		// addressed "cell" is the slot directly below the address: the
		// address (r[0]) is dropped, the cell (r[1]) becomes the new
		// top.
		return [MaxWrites]uint32{r[1], r[2]}
	case Mstore:
		// Same stack-only memory model as Mload: there is nowhere else
		// for the stored value to persist, so the net effect on the
		// visible stack is identical (the address is dropped).
		return [MaxWrites]uint32{r[1], r[2]}
	case Jump:
		// Target popped; unpopped tail preserved.
		return [MaxWrites]uint32{r[1], r[2]}
	case Jumpi:
		// Target and condition popped; unpopped tail preserved.
		return [MaxWrites]uint32{r[2], r[3]}
	case Push4:
		return [MaxWrites]uint32{in.Immediates[0], r[0]}
	case Dup1:
		return [MaxWrites]uint32{r[0], r[0]}
	case Dup2:
		return [MaxWrites]uint32{r[1], r[0]}
	case Swap1:
		return [MaxWrites]uint32{r[1], r[0]}
	default:
		// Unreachable for a member of the closed opcode set; F must be
		// total, so an unexpected opcode here indicates a bug in
		// dispatch, not a legitimate input.
		panic("dvm: nextWrites called with unhandled opcode " + in.Opcode.String())
	}
}
