package dvm

import "testing"

func TestNewProgramRejectsEmpty(t *testing.T) {
	_, err := NewProgram(nil)
	if err == nil {
		t.Fatal("expected an error for an empty program")
	}
	var dvmErr *DVMError
	if !asDVMError(err, &dvmErr) {
		t.Fatalf("expected a *DVMError, got %T", err)
	}
	if dvmErr.Code != ErrEmptyProgram {
		t.Fatalf("expected ErrEmptyProgram, got %v", dvmErr.Code)
	}
}

func TestNewProgramAppendsSentinels(t *testing.T) {
	push, err := NewInstruction(Push4, 7)
	if err != nil {
		t.Fatal(err)
	}
	ret, err := NewInstruction(Return)
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewProgram([]Instruction{push, ret})
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (2 user + Error + Stop)", p.Len())
	}
	if p.Fetch(p.ErrorIdx()).Opcode != Error {
		t.Fatalf("instruction at ErrorIdx is %v, want Error", p.Fetch(p.ErrorIdx()).Opcode)
	}
	if p.Fetch(p.StopIdx()).Opcode != Stop {
		t.Fatalf("instruction at StopIdx is %v, want Stop", p.Fetch(p.StopIdx()).Opcode)
	}
	if p.StopIdx() != p.ErrorIdx()+1 {
		t.Fatalf("Stop must immediately follow Error: ErrorIdx=%d StopIdx=%d", p.ErrorIdx(), p.StopIdx())
	}
}

func TestNewInstructionRejectsUnknownOpcode(t *testing.T) {
	if _, err := NewInstruction(Opcode(0xAB)); err == nil {
		t.Fatal("expected an error for an unknown opcode encoding")
	}
}

func TestProgramFetchPanicsOutOfRange(t *testing.T) {
	push, _ := NewInstruction(Push4, 1)
	p, err := NewProgram([]Instruction{push})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected Fetch to panic on an out-of-range pc")
		}
	}()
	p.Fetch(p.Len())
}

// asDVMError is a small errors.As shim so tests don't need to import
// the errors package just for this one assertion.
func asDVMError(err error, target **DVMError) bool {
	e, ok := err.(*DVMError)
	if !ok {
		return false
	}
	*target = e
	return true
}
