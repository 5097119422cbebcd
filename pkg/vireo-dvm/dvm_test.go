package vireodvm

import (
	"testing"

	"go.uber.org/zap"
)

func TestRunAddition(t *testing.T) {
	program, err := NewProgram([]Instruction{
		MustInstruction(Push4, 2),
		MustInstruction(Push4, 3),
		MustInstruction(Add),
		MustInstruction(Return),
	})
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}

	result, err := Run(nil, program, 8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Result != 5 {
		t.Fatalf("Result = %d, want 5", result.Result)
	}
}

func TestRunWithLogger(t *testing.T) {
	logger := zap.NewNop()
	program, err := NewProgram([]Instruction{
		MustInstruction(Push4, 10),
		MustInstruction(Return),
	})
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}

	if _, err := Run(logger, program, 4); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestNewProgramRejectsEmptyInstructions(t *testing.T) {
	if _, err := NewProgram(nil); err == nil {
		t.Fatal("expected an error for an empty instruction list")
	}
}

func TestExecuteBuildVerifyIndividually(t *testing.T) {
	program, err := NewProgram([]Instruction{
		MustInstruction(Push4, 2),
		MustInstruction(Push4, 3),
		MustInstruction(Add),
		MustInstruction(Return),
	})
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}

	execResult, err := Execute(nil, program, 8)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if execResult.Result != 5 {
		t.Fatalf("Result = %d, want 5", execResult.Result)
	}

	tables, err := Build(nil, program, execResult.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if err := Verify(nil, tables); err != nil {
		t.Fatalf("Verify rejected a valid trace: %v", err)
	}
}

func TestVerifyRejectsTamperedTables(t *testing.T) {
	program, err := NewProgram([]Instruction{
		MustInstruction(Push4, 2),
		MustInstruction(Push4, 3),
		MustInstruction(Add),
		MustInstruction(Return),
	})
	if err != nil {
		t.Fatalf("NewProgram failed: %v", err)
	}

	execResult, err := Execute(nil, program, 8)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	tables, err := Build(nil, program, execResult.Trace)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tables.StackAccess[len(tables.StackAccess)-1].Value += 1
	if err := Verify(nil, tables); err == nil {
		t.Fatal("Verify accepted a tampered set of tables")
	}
}

func TestMustInstructionPanicsOnUnknownOpcode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustInstruction to panic on an unknown opcode")
		}
	}()
	MustInstruction(Opcode(0xAB))
}
