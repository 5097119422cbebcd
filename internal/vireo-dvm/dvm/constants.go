package dvm

// Fixed, tunable constants from §3. They are exposed as named package
// constants rather than inline literals so a caller assembling a
// non-default configuration has a single place to look, even though
// this implementation only ever runs with the stated defaults.
const (
	// MaxReads is the number of stack slots read into F on every step,
	// and the number of reserved, pre-zeroed sentinel slots at the
	// bottom of the stack.
	MaxReads = 4

	// MaxWrites is the number of stack slots written on every step.
	MaxWrites = 2

	// MaxAccesses is the number of stack-access trace records emitted
	// per step: MaxReads reads followed by MaxWrites writes.
	MaxAccesses = MaxReads + MaxWrites

	// MaxImmediates is the number of immediate operand words a single
	// program-memory record carries.
	MaxImmediates = 1
)
