package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrWorkflowRunning indicates the workflow was modified or re-entered mid-run.
	ErrWorkflowRunning = errors.New("workflow: run in progress")

	// ErrUnsupportedOperation indicates a step cannot run in the requested mode,
	// typically reverse estimation.
	ErrUnsupportedOperation = errors.New("workflow: operation not supported by step")

	// ErrInvalidAmount indicates a nil or negative amount was supplied.
	ErrInvalidAmount = errors.New("workflow: invalid amount")

	// ErrInvalidSlippage indicates slippage outside [0, 100] percent.
	ErrInvalidSlippage = errors.New("workflow: slippage must be between 0 and 100")

	// ErrNilResult indicates a step returned neither a result nor an error.
	ErrNilResult = errors.New("workflow: step returned no result")

	// ErrInvalidCopy indicates a copy instruction refers to a step that has not run.
	ErrInvalidCopy = errors.New("workflow: copy refers to a step that has not run")

	// ErrNotRun indicates encoding was requested before a forward run.
	ErrNotRun = errors.New("workflow: no forward run to encode")

	// ErrEmptyWorkflow indicates there are no calls to submit.
	ErrEmptyWorkflow = errors.New("workflow: nothing to execute")

	// ErrNoSubmitter indicates Execute was called without a Submitter.
	ErrNoSubmitter = errors.New("workflow: no submitter configured")

	// ErrNoCaller indicates CallStatic was called without a ContractCaller.
	ErrNoCaller = errors.New("workflow: no contract caller configured")

	// ErrForeignTarget indicates a farm call targets a contract other than the protocol.
	ErrForeignTarget = errors.New("workflow: farm calls must target the protocol")

	// ErrInvalidClipboard indicates malformed clipboard paste instructions.
	ErrInvalidClipboard = errors.New("workflow: invalid clipboard")

	// ErrTransactionReverted indicates the submitted transaction was mined but failed.
	ErrTransactionReverted = errors.New("workflow: transaction reverted")
)

// StepError wraps an error raised while running or encoding a step.
type StepError struct {
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("workflow: step %d (%s): %v", e.Index, e.Step, e.Err)
	}
	return fmt.Sprintf("workflow: step %d: %v", e.Index, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
