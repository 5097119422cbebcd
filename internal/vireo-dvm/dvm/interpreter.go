package dvm

// Interpreter drives F, writes the raw trace, and terminates cleanly
// (component G, §4.7). It holds a read-only view into program memory
// for the duration of execution: the caller owns the Program, the
// interpreter only ever borrows it.
type Interpreter struct {
	program *Program
	stack   *Stack
	pc      int

	Result    uint32
	ErrorCode ErrorCode
	Trace     *RawTrace
}

// NewInterpreter builds an interpreter ready to run program from its
// required preconditions: pc == 0, depth == MaxReads (§4.7).
func NewInterpreter(program *Program) *Interpreter {
	return &Interpreter{
		program: program,
		stack:   NewStack(),
		pc:      0,
		Trace:   NewRawTrace(),
	}
}

// Run executes exactly stepCount steps, padding completed executions
// by spinning on Stop once terminal (§4.7). It never returns an error:
// runtime faults are routed through the ErrorCode channel, never
// signaled as a Go error (§7).
func (interp *Interpreter) Run(stepCount int) {
	for i := 0; i < stepCount; i++ {
		interp.step()
	}
}

// step performs a single interpreter cycle per §4.7's five-point
// recipe.
func (interp *Interpreter) step() {
	inst := interp.program.Fetch(interp.pc)

	depthBefore := interp.stack.Depth()
	var reads [MaxReads]uint32
	for i := 0; i < MaxReads; i++ {
		reads[i] = interp.stack.Peek(i)
	}

	out := NextState(StepInput{
		Depth:      depthBefore,
		PC:         interp.pc,
		Reads:      reads,
		Opcode:     inst.Opcode,
		Immediates: inst.Immediates,
		ProgramLen: interp.program.Len(),
		ErrorIdx:   interp.program.ErrorIdx(),
		StopIdx:    interp.program.StopIdx(),
	})

	interp.applyEffect(inst, depthBefore, reads, out)

	interp.Trace.AppendStep(depthBefore, reads, inst, out.Depth, out.PC, out.Writes)

	if inst.Opcode == Return && interp.isSuccessfulReturn(depthBefore, inst, reads, out) {
		interp.Result = reads[0]
	}
	if out.PC == interp.program.ErrorIdx() && interp.pc != interp.program.ErrorIdx() {
		interp.ErrorCode = ErrorCode(out.Writes[0])
	}

	interp.pc = out.PC
}

// isSuccessfulReturn reports whether this Return step completed
// without the error gates firing (i.e. is not itself being redirected
// to error_idx), so Result only captures a genuine Return value.
func (interp *Interpreter) isSuccessfulReturn(depthBefore int, inst Instruction, reads [MaxReads]uint32, out StepOutput) bool {
	return out.PC == interp.program.StopIdx()
}

// applyEffect mutates the stack so its top two slots end up equal to
// out.Writes, per §4.7 step 4. It truncates or grows to out.Depth first
// (which discards or extends everything above the new top) and then
// writes the final two visible slots explicitly, which is equivalent
// to — but far simpler than — hand-rolling each opcode's push/pop
// sequence, since F has already fully determined the resulting depth
// and the two slots that resulting depth exposes.
func (interp *Interpreter) applyEffect(inst Instruction, depthBefore int, reads [MaxReads]uint32, out StepOutput) {
	switch {
	case out.Depth > depthBefore:
		interp.stack.Grow(out.Depth)
	case out.Depth < depthBefore:
		interp.stack.Truncate(out.Depth)
	}

	if out.Depth >= 1 {
		interp.stack.Set(0, out.Writes[0])
	}
	if out.Depth >= 2 {
		interp.stack.Set(1, out.Writes[1])
	}
}

// Depth exposes the current stack depth, chiefly for tests.
func (interp *Interpreter) Depth() int { return interp.stack.Depth() }

// PC exposes the current program counter, chiefly for tests.
func (interp *Interpreter) PC() int { return interp.pc }
