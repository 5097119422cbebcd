package dvm

import (
	"fmt"
	"sort"
)

// Verify checks all six axioms from §4.9 against t, aborting at the
// first failure (§5: "there is no partial acceptance and no retry").
// It returns nil when every axiom holds.
func Verify(t *Tables) error {
	if err := verifyP1ProgramMemoryOrdering(t); err != nil {
		return err
	}
	if err := verifyP2StackAccessSchema(t); err != nil {
		return err
	}
	if err := verifyP3StackConsistency(t); err != nil {
		return err
	}
	if err := verifyP4LookupConsistency(t); err != nil {
		return err
	}
	if err := verifyP5StateTransitionInclusion(t); err != nil {
		return err
	}
	if err := verifyP6ProgramMemoryInclusion(t); err != nil {
		return err
	}
	return nil
}

func axiomErr(axiom Axiom, step, row int, format string, args ...interface{}) error {
	return &DVMError{
		Code:    ErrVerifierAxiomFailed,
		Axiom:   axiom,
		Step:    step,
		Row:     row,
		Message: fmt.Sprintf(format, args...),
	}
}

// verifyP1ProgramMemoryOrdering checks P[i].index == i for all i.
func verifyP1ProgramMemoryOrdering(t *Tables) error {
	for i, row := range t.ProgramMemory {
		if row.Index != i {
			return axiomErr(AxiomP1, -1, i, "program memory row %d has index %d", i, row.Index)
		}
	}
	return nil
}

// verifyP2StackAccessSchema checks the fixed shape of A: the first
// MaxReads rows are the sentinel writes, then for every step the next
// MaxReads rows are Reads and the following MaxWrites rows are
// Writes, with successive locations within each block differing by
// exactly one (top first), and time tags equal to row index (dense).
func verifyP2StackAccessSchema(t *Tables) error {
	a := t.StackAccess
	for i, rec := range a {
		if rec.Time != uint32(i) {
			return axiomErr(AxiomP2, -1, i, "row %d has time %d, want dense time %d", i, rec.Time, i)
		}
	}

	for k := 0; k < MaxReads && k < len(a); k++ {
		rec := a[k]
		if rec.Kind != AccessWrite || rec.Location != uint32(k) || rec.Value != 0 {
			return axiomErr(AxiomP2, -1, k, "sentinel row %d malformed: %+v", k, rec)
		}
	}

	remaining := a[min(MaxReads, len(a)):]
	if len(remaining)%MaxAccesses != 0 {
		return axiomErr(AxiomP2, -1, MaxReads, "stack access rows after sentinels (%d) not a multiple of MaxAccesses", len(remaining))
	}
	stepCount := len(remaining) / MaxAccesses

	for step := 0; step < stepCount; step++ {
		base := MaxReads + step*MaxAccesses
		for k := 0; k < MaxReads; k++ {
			rec := a[base+k]
			if rec.Kind != AccessRead {
				return axiomErr(AxiomP2, step, base+k, "expected Read at row %d", base+k)
			}
			if k > 0 && a[base+k-1].Location != rec.Location+1 {
				return axiomErr(AxiomP2, step, base+k, "read block location not decreasing by exactly one at row %d", base+k)
			}
		}
		for k := 0; k < MaxWrites; k++ {
			idx := base + MaxReads + k
			rec := a[idx]
			if rec.Kind != AccessWrite {
				return axiomErr(AxiomP2, step, idx, "expected Write at row %d", idx)
			}
			if k > 0 && a[idx-1].Location != rec.Location+1 {
				return axiomErr(AxiomP2, step, idx, "write block location not decreasing by exactly one at row %d", idx)
			}
		}
	}
	return nil
}

// verifyP3StackConsistency sorts A by (location, time) and checks the
// four §4.4 rules on every adjacent pair.
func verifyP3StackConsistency(t *Tables) error {
	sorted := make([]AccessRecord, len(t.StackAccess))
	copy(sorted, t.StackAccess)
	sort.Stable(byLocationThenTime(sorted))

	seenTime := make(map[uint32]bool, len(sorted))
	for i, rec := range sorted {
		if seenTime[rec.Time] {
			return axiomErr(AxiomP3, -1, i, "duplicate time tag %d", rec.Time)
		}
		seenTime[rec.Time] = true
	}

	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if a.Location == b.Location {
			if !(a.Value == b.Value || b.Kind == AccessWrite) {
				return axiomErr(AxiomP3, -1, i, "value discontinuity at location %d between time %d and %d", a.Location, a.Time, b.Time)
			}
		} else {
			if b.Kind != AccessWrite {
				return axiomErr(AxiomP3, -1, i, "first touch of location %d (time %d) is not a Write", b.Location, b.Time)
			}
		}
	}
	return nil
}

// verifyP4LookupConsistency recomputes F for every row of L and
// checks it matches the recorded output.
func verifyP4LookupConsistency(t *Tables) error {
	for i, row := range t.StateTransitionLU {
		out := NextState(StepInput{
			Depth:      row.Depth,
			PC:         row.PC,
			Reads:      row.Reads,
			Opcode:     row.Opcode,
			Immediates: row.Immediates,
			ProgramLen: t.programLen,
			ErrorIdx:   t.errorIdx,
			StopIdx:    t.stopIdx,
		})
		if out.Depth != row.NextDepth || out.PC != row.NextPC || out.Writes != row.Writes {
			return axiomErr(AxiomP4, -1, i, "recomputed F disagrees with lookup row %d: got %+v, want depth=%d pc=%d writes=%v", i, out, row.NextDepth, row.NextPC, row.Writes)
		}
	}
	return nil
}

// lookupKey produces a comparable key for a LookupRow's full tuple
// (the pre-state, the opcode under test, and the resulting
// post-state), used by P5 to check inclusion without an O(n) scan per
// transition row.
func lookupKey(depth, pc int, reads [MaxReads]uint32, op Opcode, immediates [MaxImmediates]uint32, nextDepth, nextPC int, writes [MaxWrites]uint32) string {
	return fmt.Sprintf("%d|%d|%v|%d|%v|%d|%d|%v", depth, pc, reads, op, immediates, nextDepth, nextPC, writes)
}

// verifyP5StateTransitionInclusion checks that for every adjacent pair
// of transition-table rows, the combined tuple (pre-state, opcode,
// post-state) appears as some row of L. It also checks that step i's
// Read and Write values in A equal the reads of T[i] and the leading
// MaxWrites reads of T[i+1], so a value changed in A alone is rejected.
func verifyP5StateTransitionInclusion(t *Tables) error {
	index := make(map[string]bool, len(t.StateTransitionLU))
	for _, row := range t.StateTransitionLU {
		index[lookupKey(row.Depth, row.PC, row.Reads, row.Opcode, row.Immediates, row.NextDepth, row.NextPC, row.Writes)] = true
	}

	stepCount := len(t.StateTransition) - 1
	if len(t.StackAccess) != MaxReads+stepCount*MaxAccesses {
		return axiomErr(AxiomP5, -1, -1, "stack access table has %d rows, which does not match %d steps", len(t.StackAccess), stepCount)
	}
	for i := 0; i < stepCount; i++ {
		cur := t.StateTransition[i]
		next := t.StateTransition[i+1]
		var nextWrites [MaxWrites]uint32
		copy(nextWrites[:], next.Reads[:MaxWrites])

		base := MaxReads + i*MaxAccesses
		for k, v := range append(cur.Reads[:], nextWrites[:]...) {
			if t.StackAccess[base+k].Value != v {
				return axiomErr(AxiomP5, i, base+k, "stack access row %d disagrees with transition %d -> %d", base+k, i, i+1)
			}
		}

		key := lookupKey(cur.Depth, cur.PC, cur.Reads, cur.Opcode, cur.Immediates, next.Depth, next.PC, nextWrites)
		if !index[key] {
			return axiomErr(AxiomP5, i, -1, "transition %d -> %d not present in state-transition lookup table", i, i+1)
		}
	}
	return nil
}

// verifyP6ProgramMemoryInclusion checks that every executed step's
// (pc, opcode, immediates) appears as some row of P.
func verifyP6ProgramMemoryInclusion(t *Tables) error {
	index := make(map[string]bool, len(t.ProgramMemory))
	for _, row := range t.ProgramMemory {
		index[fmt.Sprintf("%d|%d|%v", row.Index, row.Opcode, row.Immediates)] = true
	}

	stepCount := len(t.StateTransition) - 1
	for i := 0; i < stepCount; i++ {
		row := t.StateTransition[i]
		key := fmt.Sprintf("%d|%d|%v", row.PC, row.Opcode, row.Immediates)
		if !index[key] {
			return axiomErr(AxiomP6, i, -1, "step %d's (pc=%d, opcode=%s) not present in program memory table", i, row.PC, row.Opcode)
		}
	}
	return nil
}
