package dvm

// RawTrace is the append-only execution log E (§3, §4.5): per-step
// depth/pc snapshots, the flattened stack access log, and the
// opcode+immediates executed at each step.
type RawTrace struct {
	DepthTrace  []int
	PCTrace     []int
	StackTrace  []AccessRecord
	OpcodeTrace []Instruction

	time uint32
}

// NewRawTrace creates an empty trace and immediately emits the
// MaxReads sentinel writes §4.5 requires before the first step's reads:
// "(location=k, time=k, Write, 0) for k in 0..MaxReads", recording the
// initial state (depth = MaxReads, pc = 0) as index 0 of both
// DepthTrace and PCTrace.
func NewRawTrace() *RawTrace {
	t := &RawTrace{
		DepthTrace: []int{MaxReads},
		PCTrace:    []int{0},
	}
	for k := uint32(0); k < MaxReads; k++ {
		t.StackTrace = append(t.StackTrace, AccessRecord{
			Location: k,
			Time:     k,
			Kind:     AccessWrite,
			Value:    0,
		})
	}
	t.time = MaxReads
	return t
}

// AppendStep records one executed step, per §4.5's append_step:
// MaxReads Read records at depthBefore-1, depthBefore-2, ... with
// consecutive times, then MaxWrites Write records at depthAfter-1,
// depthAfter-2, ... with the next consecutive times, then the new
// depth/pc/opcode entries.
func (t *RawTrace) AppendStep(depthBefore int, reads [MaxReads]uint32, inst Instruction, depthAfter, pcAfter int, writes [MaxWrites]uint32) {
	for i := 0; i < MaxReads; i++ {
		t.StackTrace = append(t.StackTrace, AccessRecord{
			Location: uint32(depthBefore - 1 - i),
			Time:     t.time,
			Kind:     AccessRead,
			Value:    reads[i],
		})
		t.time++
	}
	for i := 0; i < MaxWrites; i++ {
		t.StackTrace = append(t.StackTrace, AccessRecord{
			Location: uint32(depthAfter - 1 - i),
			Time:     t.time,
			Kind:     AccessWrite,
			Value:    writes[i],
		})
		t.time++
	}

	t.DepthTrace = append(t.DepthTrace, depthAfter)
	t.PCTrace = append(t.PCTrace, pcAfter)
	t.OpcodeTrace = append(t.OpcodeTrace, inst)
}

// StepCount is the number of executed steps recorded so far.
func (t *RawTrace) StepCount() int { return len(t.OpcodeTrace) }
