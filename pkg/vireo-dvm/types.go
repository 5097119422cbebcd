package vireodvm

import (
	"github.com/vireo-labs/vireo-dvm/internal/vireo-dvm/dvm"
)

// Opcode is the closed instruction set of the dummy virtual machine.
type Opcode = dvm.Opcode

// The closed opcode set (§3 of the design notes this module implements).
const (
	Stop   = dvm.Stop
	Add    = dvm.Add
	Sub    = dvm.Sub
	Mul    = dvm.Mul
	Div    = dvm.Div
	Mod    = dvm.Mod
	Pop    = dvm.Pop
	Mload  = dvm.Mload
	Mstore = dvm.Mstore
	Jump   = dvm.Jump
	Jumpi  = dvm.Jumpi
	Push4  = dvm.Push4
	Dup1   = dvm.Dup1
	Dup2   = dvm.Dup2
	Swap1  = dvm.Swap1
	Return = dvm.Return
	Error  = dvm.Error
)

// Instruction is a single program-memory record.
type Instruction = dvm.Instruction

// ErrorCode is the closed set of runtime diagnostic codes.
type ErrorCode = dvm.ErrorCode

// Program is the immutable, sentinel-padded program memory an
// ExecutionResult is built from.
type Program = dvm.Program

// Tables holds the four proof tables H derives from a raw execution
// trace: the program-memory table, the stack-access table, the
// state-transition table, and the state-transition lookup table.
type Tables = dvm.Tables

// ExecutionResult is what Execute alone produces: the program that was
// run, its raw trace, and the two outward-visible execution outcomes
// (the Return value and the terminal runtime ErrorCode). It carries no
// proof tables — call Build to derive those from Trace.
type ExecutionResult struct {
	Program   *Program
	Trace     *dvm.RawTrace
	Result    uint32
	ErrorCode ErrorCode
}

// RunResult bundles everything Run produces in its single call: the
// same fields as ExecutionResult plus the four proof tables Build
// derived from the trace, already checked by Verify.
type RunResult struct {
	Program   *Program
	Trace     *dvm.RawTrace
	Tables    *Tables
	Result    uint32
	ErrorCode ErrorCode
}

// MustInstruction builds an Instruction and panics on an unknown opcode
// encoding. It exists for call sites building literal instruction lists
// (example programs, tests) where the opcode is a compile-time constant
// and an error return would only ever fire on programmer error.
func MustInstruction(op Opcode, immediates ...uint32) Instruction {
	inst, err := dvm.NewInstruction(op, immediates...)
	if err != nil {
		panic(err)
	}
	return inst
}
