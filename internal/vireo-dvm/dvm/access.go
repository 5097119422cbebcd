package dvm

// AccessRecord is a single timed read or write on the stack (component
// D). The ordering contract in §4.4 is the full stack-consistency axiom
// the verifier enforces as P3; AccessRecord itself only carries the
// fields, it does not enforce the contract — that is verify.go's job.
type AccessRecord struct {
	Location uint32
	Time     uint32
	Kind     AccessKind
	Value    uint32
}

// byLocationThenTime sorts a slice of AccessRecord primarily by
// Location ascending, then by Time ascending, as §4.4 rule 1 requires.
type byLocationThenTime []AccessRecord

func (a byLocationThenTime) Len() int      { return len(a) }
func (a byLocationThenTime) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byLocationThenTime) Less(i, j int) bool {
	if a[i].Location != a[j].Location {
		return a[i].Location < a[j].Location
	}
	return a[i].Time < a[j].Time
}
