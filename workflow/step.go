package workflow

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/contracts"
)

// Step is one unit of a workflow. Run receives the amount flowing into the
// step and returns the amount it produces. In reverse estimation the amount
// received is the desired output and the returned AmountOut is the input
// needed to produce it.
type Step interface {
	Name() string
	Run(ctx context.Context, amountIn *big.Int, rc *RunContext) (*StepResult, error)
}

// StepFunc is the function form of Step.Run.
type StepFunc func(ctx context.Context, amountIn *big.Int, rc *RunContext) (*StepResult, error)

type funcStep struct {
	name string
	fn   StepFunc
}

// NewStep wraps fn as a named Step.
func NewStep(name string, fn StepFunc) Step {
	return &funcStep{name: name, fn: fn}
}

func (s *funcStep) Name() string { return s.name }

func (s *funcStep) Run(ctx context.Context, amountIn *big.Int, rc *RunContext) (*StepResult, error) {
	return s.fn(ctx, amountIn, rc)
}

// PrepareFunc encodes a step's call once the run context is known.
type PrepareFunc func(rc *RunContext) (*contracts.Call, error)

// StepResult is what a step reports for one run.
//
// The engine passes AmountOut to the next step unless Forward is set, in
// which case the referenced earlier amount is passed instead. A result with
// neither Call nor Prepare adds nothing on chain.
type StepResult struct {
	Name      string
	AmountIn  *big.Int
	AmountOut *big.Int
	Forward   *Copy
	Value     *big.Int
	Call      *contracts.Call
	Prepare   PrepareFunc
	Clipboard *Clipboard
}

// Passthrough returns a result that forwards amount unchanged with no call.
func Passthrough(name string, amount *big.Int) *StepResult {
	return &StepResult{Name: name, AmountOut: new(big.Int).Set(amount)}
}

// encode returns the call for this result, or nil if it has none.
func (r *StepResult) encode(rc *RunContext) (*contracts.Call, error) {
	var (
		call *contracts.Call
		err  error
	)
	switch {
	case r.Prepare != nil:
		call, err = r.Prepare(rc)
	case r.Call != nil:
		call = r.Call
	default:
		return nil, nil
	}
	if err != nil || call == nil {
		return nil, err
	}
	if r.Value != nil && r.Value.Sign() > 0 && !call.HasValue() {
		call = call.WithValue(r.Value)
	}
	return call, nil
}

// Source selects which amount of an earlier step a Copy reads.
type Source uint8

const (
	// SourceAmountIn reads the amount the step received.
	SourceAmountIn Source = iota

	// SourceAmountOut reads the amount the step produced.
	SourceAmountOut
)

// Copy forwards an amount recorded by an earlier step of the same run.
type Copy struct {
	Step   int
	Source Source
}

// CopyAmountIn forwards the input amount of step.
func CopyAmountIn(step int) *Copy {
	return &Copy{Step: step, Source: SourceAmountIn}
}

// CopyAmountOut forwards the output amount of step.
func CopyAmountOut(step int) *Copy {
	return &Copy{Step: step, Source: SourceAmountOut}
}

// RunMode is the kind of run a step participates in.
type RunMode uint8

const (
	// ModeEstimate runs forward to quote an output.
	ModeEstimate RunMode = iota

	// ModeEstimateReversed runs backward from a desired output.
	ModeEstimateReversed

	// ModeExecute runs forward before submitting a transaction.
	ModeExecute

	// ModeCallStatic runs forward before simulating with eth_call.
	ModeCallStatic
)

// String returns the mode name.
func (m RunMode) String() string {
	switch m {
	case ModeEstimate:
		return "estimate"
	case ModeEstimateReversed:
		return "estimateReversed"
	case ModeExecute:
		return "execute"
	case ModeCallStatic:
		return "callStatic"
	default:
		return fmt.Sprintf("RunMode(%d)", uint8(m))
	}
}

// RunContext is shared by every step of a single run.
type RunContext struct {
	Mode     RunMode
	Index    int
	Slippage float64
	Account  common.Address
	Data     map[string]any

	results []*StepResult
}

// Reversed reports whether this is a reverse estimation.
func (rc *RunContext) Reversed() bool {
	return rc.Mode == ModeEstimateReversed
}

// Executing reports whether the run ends in a submission or simulation.
func (rc *RunContext) Executing() bool {
	return rc.Mode == ModeExecute || rc.Mode == ModeCallStatic
}

// Result returns the result of step i if it has already run.
func (rc *RunContext) Result(i int) (*StepResult, bool) {
	if i < 0 || i >= len(rc.results) || rc.results[i] == nil {
		return nil, false
	}
	return rc.results[i], true
}

// Value returns caller-supplied data stored under key.
func (rc *RunContext) Value(key string) (any, bool) {
	v, ok := rc.Data[key]
	return v, ok
}

func (rc *RunContext) resolve(c *Copy) (*big.Int, error) {
	if c.Step >= rc.Index {
		return nil, fmt.Errorf("%w: step %d from step %d", ErrInvalidCopy, c.Step, rc.Index)
	}
	res, ok := rc.Result(c.Step)
	if !ok {
		return nil, fmt.Errorf("%w: step %d", ErrInvalidCopy, c.Step)
	}
	switch c.Source {
	case SourceAmountIn:
		return res.AmountIn, nil
	case SourceAmountOut:
		return res.AmountOut, nil
	default:
		return nil, fmt.Errorf("%w: unknown source %d", ErrInvalidCopy, c.Source)
	}
}
