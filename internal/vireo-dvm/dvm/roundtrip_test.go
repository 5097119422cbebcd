package dvm

import "testing"

// mustProgram builds a Program from raw opcodes/immediates, failing the
// test immediately on a construction error.
func mustProgram(t *testing.T, instrs ...Instruction) *Program {
	t.Helper()
	p, err := NewProgram(instrs)
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}
	return p
}

func mustInst(t *testing.T, op Opcode, immediates ...uint32) Instruction {
	t.Helper()
	inst, err := NewInstruction(op, immediates...)
	if err != nil {
		t.Fatalf("NewInstruction(%v) failed: %v", op, err)
	}
	return inst
}

// runAndVerify executes program for stepCount steps, builds the proof
// tables, and verifies them, failing the test on any unexpected error.
func runAndVerify(t *testing.T, program *Program, stepCount int) (*Interpreter, *Tables) {
	t.Helper()
	interp := NewInterpreter(program)
	interp.Run(stepCount)
	tables, err := Build(program, interp.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := Verify(tables); err != nil {
		t.Fatalf("Verify rejected an untampered trace: %v", err)
	}
	return interp, tables
}

func TestRoundTripSimpleAddition(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 2),
		mustInst(t, Push4, 3),
		mustInst(t, Add),
		mustInst(t, Return),
	)
	interp, _ := runAndVerify(t, program, 8)
	if interp.Result != 5 {
		t.Fatalf("Result = %d, want 5", interp.Result)
	}
	if interp.ErrorCode != NoError {
		t.Fatalf("ErrorCode = %v, want NoError", interp.ErrorCode)
	}
}

func TestRoundTripDivisionByZero(t *testing.T) {
	// divisor (reads[1]) must be the zero: push it first.
	program := mustProgram(t,
		mustInst(t, Push4, 0),
		mustInst(t, Push4, 5),
		mustInst(t, Div),
		mustInst(t, Return),
	)
	interp, _ := runAndVerify(t, program, 8)
	if interp.ErrorCode != DivisionByZero {
		t.Fatalf("ErrorCode = %v, want DivisionByZero", interp.ErrorCode)
	}
}

func TestRoundTripStackUnderflow(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Add),
		mustInst(t, Return),
	)
	interp, _ := runAndVerify(t, program, 8)
	if interp.ErrorCode != IncorrectStackAccess {
		t.Fatalf("ErrorCode = %v, want IncorrectStackAccess", interp.ErrorCode)
	}
}

func TestRoundTripJumpOutOfBounds(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 9999),
		mustInst(t, Jump),
		mustInst(t, Return),
	)
	interp, _ := runAndVerify(t, program, 8)
	if interp.ErrorCode != IncorrectProgramCounter {
		t.Fatalf("ErrorCode = %v, want IncorrectProgramCounter", interp.ErrorCode)
	}
}

func TestRoundTripJumpTakesBranch(t *testing.T) {
	// reads[0] (top) is the jump target, reads[1] the condition: push
	// the condition first, then the target, so the target ends on top.
	program := mustProgram(t,
		mustInst(t, Push4, 1), // condition, nonzero
		mustInst(t, Push4, 3), // target: index of the Return below
		mustInst(t, Jumpi),
		mustInst(t, Return),
	)
	interp := NewInterpreter(program)
	interp.Run(3)
	if interp.PC() != 3 {
		t.Fatalf("PC() after taking the branch = %d, want 3", interp.PC())
	}
	_, err := Build(program, interp.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
}

// TestRoundTripGcdLikeLoop exercises a longer, Dup/Swap/Mod/Jumpi-heavy
// trace end to end: a Euclidean loop over 2442 and 324 that jumps back
// to its own index-2 loop head while the remainder is nonzero. Both
// the structural round trip and the arithmetic result (gcd(2442, 324)
// == 6) are checked.
func TestRoundTripGcdLikeLoop(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 2442),
		mustInst(t, Push4, 324),
		mustInst(t, Dup2), // index 2: loop head
		mustInst(t, Dup2),
		mustInst(t, Swap1),
		mustInst(t, Mod),
		mustInst(t, Push4, 2), // loop-head index
		mustInst(t, Dup2),
		mustInst(t, Swap1),
		mustInst(t, Jumpi),
		mustInst(t, Dup2),
		mustInst(t, Return),
	)
	interp, _ := runAndVerify(t, program, 256)
	if interp.Result != 6 {
		t.Fatalf("Result = %d, want 6", interp.Result)
	}
}

func TestVerifyRejectsTamperedStackAccess(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 2),
		mustInst(t, Push4, 3),
		mustInst(t, Add),
		mustInst(t, Return),
	)
	interp := NewInterpreter(program)
	interp.Run(8)
	tables, err := Build(program, interp.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := Verify(tables); err != nil {
		t.Fatalf("Verify rejected an untampered trace: %v", err)
	}

	tables.StackAccess[len(tables.StackAccess)-1].Value += 1
	if err := Verify(tables); err == nil {
		t.Fatal("Verify accepted a trace with a tampered stack-access value")
	}
}

func TestVerifyRejectsTamperedStateTransition(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 2),
		mustInst(t, Push4, 3),
		mustInst(t, Add),
		mustInst(t, Return),
	)
	interp := NewInterpreter(program)
	interp.Run(8)
	tables, err := Build(program, interp.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tables.StateTransition[0].Reads[0] += 1
	if err := Verify(tables); err == nil {
		t.Fatal("Verify accepted a trace with a tampered state-transition row")
	}
}

func TestRawTraceSentinelPrefix(t *testing.T) {
	trace := NewRawTrace()
	if len(trace.StackTrace) != MaxReads {
		t.Fatalf("fresh trace has %d stack access rows, want %d", len(trace.StackTrace), MaxReads)
	}
	for k := 0; k < MaxReads; k++ {
		rec := trace.StackTrace[k]
		if rec.Kind != AccessWrite || rec.Location != uint32(k) || rec.Time != uint32(k) || rec.Value != 0 {
			t.Fatalf("sentinel row %d malformed: %+v", k, rec)
		}
	}
}

func TestTraceTimeTagsAreDense(t *testing.T) {
	program := mustProgram(t,
		mustInst(t, Push4, 2),
		mustInst(t, Push4, 3),
		mustInst(t, Add),
		mustInst(t, Return),
	)
	interp := NewInterpreter(program)
	interp.Run(6)
	for i, rec := range interp.Trace.StackTrace {
		if rec.Time != uint32(i) {
			t.Fatalf("stack access row %d has time %d, want %d (time tags must be dense)", i, rec.Time, i)
		}
	}
}
