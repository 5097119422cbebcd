package vireodvm

import (
	"github.com/vireo-labs/vireo-dvm/internal/vireo-dvm/dvm"
)

// HostErrorCode is the closed set of host-level failure kinds a façade
// call can return.
type HostErrorCode = dvm.HostErrorCode

// Axiom identifies one of the six structural axioms the verifier
// enforces, attached to a failed Verify call.
type Axiom = dvm.Axiom

// DVMError is the error type NewProgram (for an empty program) and
// Verify return on failure, wrapped with call-site context. Use
// errors.As to recover the Code, Axiom, Step, and Row fields. Build's
// malformed-trace errors are plain errors, not DVMError values.
type DVMError = dvm.DVMError

const (
	ErrUnknown                    = dvm.ErrUnknown
	ErrUnknownOpcodeEncoding      = dvm.ErrUnknownOpcodeEncoding
	ErrEmptyProgram               = dvm.ErrEmptyProgram
	ErrStepCountExceedsAllocation = dvm.ErrStepCountExceedsAllocation
	ErrVerifierAxiomFailed        = dvm.ErrVerifierAxiomFailed
)

const (
	AxiomP1 = dvm.AxiomP1
	AxiomP2 = dvm.AxiomP2
	AxiomP3 = dvm.AxiomP3
	AxiomP4 = dvm.AxiomP4
	AxiomP5 = dvm.AxiomP5
	AxiomP6 = dvm.AxiomP6
)
