package dvm

import "fmt"

// ProgramMemoryRow is one row of the program-memory table P (§4.8).
type ProgramMemoryRow struct {
	Index      int
	Opcode     Opcode
	Immediates [MaxImmediates]uint32
}

// StateTransitionRow is one row of the state-transition table T, and
// also the first half of a LookupRow (§4.8).
type StateTransitionRow struct {
	Depth      int
	PC         int
	Reads      [MaxReads]uint32
	Opcode     Opcode
	Immediates [MaxImmediates]uint32
}

// LookupRow is one row of the state-transition lookup table L: a
// StateTransitionRow paired with the (depth', pc', writes') that F
// produces for it (§4.8).
type LookupRow struct {
	StateTransitionRow
	NextDepth int
	NextPC    int
	Writes    [MaxWrites]uint32
}

// Tables holds the four relational tables H derives from a raw
// execution trace.
type Tables struct {
	ProgramMemory     []ProgramMemoryRow
	StackAccess       []AccessRecord
	StateTransition   []StateTransitionRow
	StateTransitionLU []LookupRow

	programLen int
	errorIdx   int
	stopIdx    int
}

// Build derives the four proof tables from program and trace (§4.8).
func Build(program *Program, trace *RawTrace) (*Tables, error) {
	stepCount := trace.StepCount()
	if len(trace.DepthTrace) != stepCount+1 || len(trace.PCTrace) != stepCount+1 {
		return nil, fmt.Errorf("dvm: malformed raw trace: depth/pc trace length mismatch with step count")
	}

	t := &Tables{
		programLen: program.Len(),
		errorIdx:   program.ErrorIdx(),
		stopIdx:    program.StopIdx(),
	}

	t.ProgramMemory = buildProgramMemoryTable(program)
	t.StackAccess = trace.StackTrace

	steps, err := extractSteps(trace, stepCount)
	if err != nil {
		return nil, err
	}

	t.StateTransition = buildStateTransitionTable(trace, steps, stepCount)
	t.StateTransitionLU = buildLookupTable(program, steps, stepCount)

	return t, nil
}

// step is an intermediate per-executed-step view extracted from the
// raw trace's flattened stack_trace, used to build both the
// state-transition table and the lookup table without re-deriving the
// same index arithmetic twice.
type step struct {
	depthBefore int
	pcBefore    int
	reads       [MaxReads]uint32
	inst        Instruction
	writes      [MaxWrites]uint32
}

// extractSteps reconstructs each step's reads/writes from the
// trace's flattened access log. The layout is fixed by §4.5: MaxReads
// sentinel writes, then for each step MaxReads reads followed by
// MaxWrites writes, in order.
func extractSteps(trace *RawTrace, stepCount int) ([]step, error) {
	wantLen := MaxReads + stepCount*MaxAccesses
	if len(trace.StackTrace) != wantLen {
		return nil, fmt.Errorf("dvm: malformed raw trace: stack_trace length %d, want %d", len(trace.StackTrace), wantLen)
	}

	steps := make([]step, stepCount)
	for i := 0; i < stepCount; i++ {
		base := MaxReads + i*MaxAccesses
		var s step
		s.depthBefore = trace.DepthTrace[i]
		s.pcBefore = trace.PCTrace[i]
		s.inst = trace.OpcodeTrace[i]
		for k := 0; k < MaxReads; k++ {
			s.reads[k] = trace.StackTrace[base+k].Value
		}
		for k := 0; k < MaxWrites; k++ {
			s.writes[k] = trace.StackTrace[base+MaxReads+k].Value
		}
		steps[i] = s
	}
	return steps, nil
}

func buildProgramMemoryTable(program *Program) []ProgramMemoryRow {
	instrs := program.Instructions()
	rows := make([]ProgramMemoryRow, len(instrs))
	for i, inst := range instrs {
		rows[i] = ProgramMemoryRow{Index: i, Opcode: inst.Opcode, Immediates: inst.Immediates}
	}
	return rows
}

// buildStateTransitionTable builds T: one row per executed step, plus
// a terminal row recording the final (depth, pc) with opcode and
// immediates zeroed and reads carrying the last step's writes — the
// shape high_level_plain_proof.rs's arrange_state_transition_table
// uses for the terminal row (§4.8).
func buildStateTransitionTable(trace *RawTrace, steps []step, stepCount int) []StateTransitionRow {
	rows := make([]StateTransitionRow, 0, stepCount+1)
	for _, s := range steps {
		rows = append(rows, StateTransitionRow{
			Depth:      s.depthBefore,
			PC:         s.pcBefore,
			Reads:      s.reads,
			Opcode:     s.inst.Opcode,
			Immediates: s.inst.Immediates,
		})
	}

	terminal := StateTransitionRow{
		Depth: trace.DepthTrace[stepCount],
		PC:    trace.PCTrace[stepCount],
	}
	if stepCount > 0 {
		last := steps[stepCount-1]
		terminal.Reads[0] = last.writes[0]
		terminal.Reads[1] = last.writes[1]
	}
	rows = append(rows, terminal)

	return rows
}

// buildLookupTable builds L: for each executed step and each
// enumerated opcode, F's output on that step's (depth, pc, reads)
// combined with the IMMEDIATES STORED IN PROGRAM MEMORY AT pc — not
// the immediates of the opcode actually executed — per §4.8's explicit
// requirement that the lookup be determined entirely by the public
// program-memory view plus the private stack/pc.
func buildLookupTable(program *Program, steps []step, stepCount int) []LookupRow {
	programLen := program.Len()
	errorIdx := program.ErrorIdx()
	stopIdx := program.StopIdx()

	rows := make([]LookupRow, 0, stepCount*len(AllOpcodes))
	for _, s := range steps {
		immediatesAtPC := program.Fetch(s.pcBefore).Immediates
		for _, op := range AllOpcodes {
			out := NextState(StepInput{
				Depth:      s.depthBefore,
				PC:         s.pcBefore,
				Reads:      s.reads,
				Opcode:     op,
				Immediates: immediatesAtPC,
				ProgramLen: programLen,
				ErrorIdx:   errorIdx,
				StopIdx:    stopIdx,
			})
			rows = append(rows, LookupRow{
				StateTransitionRow: StateTransitionRow{
					Depth:      s.depthBefore,
					PC:         s.pcBefore,
					Reads:      s.reads,
					Opcode:     op,
					Immediates: immediatesAtPC,
				},
				NextDepth: out.Depth,
				NextPC:    out.PC,
				Writes:    out.Writes,
			})
		}
	}
	return rows
}
