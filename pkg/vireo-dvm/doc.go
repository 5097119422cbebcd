// Package vireodvm is the public API for the verifiable dummy virtual
// machine: a closed, stack-based bytecode interpreter together with the
// proof-table construction and verifier that certify one of its
// executions without re-running it.
//
// # Architecture
//
// - pkg/vireo-dvm/: Public API (this package)
// - internal/vireo-dvm/dvm/: Private implementation (not importable)
//
// The public API is deliberately thin: it assembles a Program from user
// instructions, drives one execution, derives the four proof tables from
// the resulting trace, and checks the verifier's six axioms against
// them. Implementation details in internal/ can be refactored without
// breaking callers of this package.
//
// Run collapses that three-call sequence (Execute, Build, Verify) into
// one for the common case. Callers that need to inspect or tamper with
// the trace between steps, or that already have a trace from a prior
// Execute, call Execute, Build, and Verify individually instead.
//
// # Quick start
//
//	logger, _ := zap.NewProduction()
//	program, err := vireodvm.NewProgram([]vireodvm.Instruction{
//		vireodvm.MustInstruction(vireodvm.Push4, 2),
//		vireodvm.MustInstruction(vireodvm.Push4, 3),
//		vireodvm.MustInstruction(vireodvm.Add),
//		vireodvm.MustInstruction(vireodvm.Return),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := vireodvm.Run(logger, program, 16)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Result)
package vireodvm
