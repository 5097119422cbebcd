package vireodvm

import (
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vireo-labs/vireo-dvm/internal/vireo-dvm/dvm"
)

// NewProgram builds program memory from a user instruction sequence,
// rejecting an empty sequence and appending the mandatory Error/Stop
// sentinels.
func NewProgram(instructions []Instruction) (*Program, error) {
	program, err := dvm.NewProgram(instructions)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "vireo-dvm: build program")
	}
	return program, nil
}

// Execute runs program for exactly stepCount steps and returns the raw
// trace plus the two outward-visible execution outcomes. It does not
// derive or verify proof tables — call Build, then Verify, for that, or
// call Run to get all three in one call. A nil logger is treated as a
// no-op logger.
func Execute(logger *zap.Logger, program *Program, stepCount int) (*ExecutionResult, error) {
	logger = nonNilLogger(logger)

	interp := dvm.NewInterpreter(program)
	logger.Debug("executing program",
		zap.Int("program_len", program.Len()),
		zap.Int("step_count", stepCount),
	)
	interp.Run(stepCount)

	logger.Info("execution complete",
		zap.Uint32("result", interp.Result),
		zap.Stringer("error_code", interp.ErrorCode),
		zap.Int("steps", interp.Trace.StepCount()),
	)

	return &ExecutionResult{
		Program:   program,
		Trace:     interp.Trace,
		Result:    interp.Result,
		ErrorCode: interp.ErrorCode,
	}, nil
}

// Build derives the four proof tables from program and the trace a
// prior Execute call produced. A nil logger is treated as a no-op
// logger.
func Build(logger *zap.Logger, program *Program, trace *dvm.RawTrace) (*Tables, error) {
	logger = nonNilLogger(logger)

	tables, err := dvm.Build(program, trace)
	if err != nil {
		logger.Error("failed to build proof tables", zap.Error(err))
		return nil, pkgerrors.Wrap(err, "vireo-dvm: build proof tables")
	}
	return tables, nil
}

// Verify checks all six structural axioms (P1-P6) against tables. A nil
// logger is treated as a no-op logger.
func Verify(logger *zap.Logger, tables *Tables) error {
	logger = nonNilLogger(logger)

	if err := dvm.Verify(tables); err != nil {
		logger.Warn("verification rejected trace", zap.Error(err))
		return pkgerrors.Wrap(err, "vireo-dvm: verify")
	}

	logger.Info("verification accepted trace")
	return nil
}

// Run is additive sugar over Execute, Build, and Verify: it runs an
// already-built program for stepCount steps, derives the four proof tables
// from the resulting trace, and verifies them, all in one call. On
// success it returns the host-level result plus the raw trace and
// tables for inspection. A nil logger is treated as a no-op logger.
func Run(logger *zap.Logger, program *Program, stepCount int) (*RunResult, error) {
	logger = nonNilLogger(logger)

	execResult, err := Execute(logger, program, stepCount)
	if err != nil {
		return nil, err
	}

	tables, err := Build(logger, program, execResult.Trace)
	if err != nil {
		return nil, err
	}

	if err := Verify(logger, tables); err != nil {
		return nil, err
	}

	return &RunResult{
		Program:   execResult.Program,
		Trace:     execResult.Trace,
		Tables:    tables,
		Result:    execResult.Result,
		ErrorCode: execResult.ErrorCode,
	}, nil
}

func nonNilLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
