// Package workflow composes protocol operations into an ordered pipeline of
// steps, estimates the pipeline in either direction, and encodes it into a
// single aggregated call for submission.
//
// Each step receives the amount produced by its predecessor and reports the
// amount it produces. A step may instead forward an amount recorded by an
// earlier step through a Copy. Encoding is deferred: a step result carries
// either a static Call or a Prepare function evaluated at execution time,
// when slippage is known.
//
// A Workflow is owned by one goroutine at a time. It is not safe for
// concurrent use.
package workflow

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/branched-services/go-hooliganhorde/contracts"
)

// Workflow is an ordered list of steps bound to an aggregator.
type Workflow struct {
	name       string
	aggregator Aggregator
	steps      []Step
	bases      []int
	results    []*StepResult
	lastRun    *RunContext
	running    bool

	account   common.Address
	submitter Submitter
	caller    ethereum.ContractCaller
	log       log.Logger
}

// New creates an empty workflow.
func New(name string, aggregator Aggregator, opts ...Option) *Workflow {
	w := &Workflow{
		name:       name,
		aggregator: aggregator,
		steps:      make([]Step, 0, 8),
		bases:      make([]int, 0, 8),
		log:        log.Root(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.New("workflow", name)
	return w
}

// Name returns the workflow name.
func (w *Workflow) Name() string {
	return w.name
}

// Add appends steps. A nested Workflow is flattened into its steps, and
// the Copy indexes its steps return stay relative to the nested workflow.
// Adding after a run discards that run's results.
func (w *Workflow) Add(steps ...Step) error {
	if w.running {
		return ErrWorkflowRunning
	}
	for _, s := range steps {
		if nested, ok := s.(*Workflow); ok {
			if nested.running {
				return ErrWorkflowRunning
			}
			offset := len(w.steps)
			for i, ns := range nested.steps {
				w.steps = append(w.steps, ns)
				w.bases = append(w.bases, nested.bases[i]+offset)
			}
			continue
		}
		w.steps = append(w.steps, s)
		w.bases = append(w.bases, 0)
	}
	w.results = nil
	w.lastRun = nil
	return nil
}

// Len returns the number of steps.
func (w *Workflow) Len() int {
	return len(w.steps)
}

// StepAt returns the step at index i.
func (w *Workflow) StepAt(i int) Step {
	if i < 0 || i >= len(w.steps) {
		return nil
	}
	return w.steps[i]
}

// ForEachStep calls fn for each step in order.
func (w *Workflow) ForEachStep(fn func(index int, step Step)) {
	for i, s := range w.steps {
		fn(i, s)
	}
}

// Results returns the results of the last completed run in step order.
func (w *Workflow) Results() []*StepResult {
	out := make([]*StepResult, len(w.results))
	copy(out, w.results)
	return out
}

// StepSummary describes one step of the last run.
type StepSummary struct {
	Index     int
	Name      string
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Summary describes the last completed run.
func (w *Workflow) Summary() []StepSummary {
	out := make([]StepSummary, 0, len(w.results))
	for i, r := range w.results {
		if r == nil {
			continue
		}
		out = append(out, StepSummary{Index: i, Name: r.Name, AmountIn: r.AmountIn, AmountOut: r.AmountOut})
	}
	return out
}

// Estimate runs every step forward and returns the final amount.
func (w *Workflow) Estimate(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	return w.run(ctx, ModeEstimate, amountIn, ExecuteOptions{})
}

// EstimateReversed runs every step last to first from a desired output and
// returns the input the first step needs.
func (w *Workflow) EstimateReversed(ctx context.Context, amountOut *big.Int) (*big.Int, error) {
	return w.run(ctx, ModeEstimateReversed, amountOut, ExecuteOptions{})
}

// Run makes a Workflow usable as a Step outside of Add. It runs the
// workflow in the caller's mode and, when executing, encodes to this
// workflow's aggregated call.
func (w *Workflow) Run(ctx context.Context, amountIn *big.Int, rc *RunContext) (*StepResult, error) {
	out, err := w.run(ctx, rc.Mode, amountIn, ExecuteOptions{Slippage: rc.Slippage, Data: rc.Data})
	if err != nil {
		return nil, err
	}
	res := &StepResult{Name: w.name, AmountOut: out}
	if !rc.Reversed() {
		res.Prepare = func(*RunContext) (*contracts.Call, error) {
			return w.Encode()
		}
	}
	return res, nil
}

func (w *Workflow) run(ctx context.Context, mode RunMode, amount *big.Int, opts ExecuteOptions) (*big.Int, error) {
	if w.running {
		return nil, ErrWorkflowRunning
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	w.running = true
	defer func() { w.running = false }()

	rc := &RunContext{
		Mode:     mode,
		Slippage: opts.Slippage,
		Account:  w.account,
		Data:     opts.Data,
		results:  make([]*StepResult, len(w.steps)),
	}
	w.results = nil
	w.lastRun = nil

	current := new(big.Int).Set(amount)
	for n := range w.steps {
		i := n
		if mode == ModeEstimateReversed {
			i = len(w.steps) - 1 - n
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := w.steps[i]
		rc.Index = i

		res, err := step.Run(ctx, new(big.Int).Set(current), rc)
		if err != nil {
			return nil, &StepError{Index: i, Step: step.Name(), Err: err}
		}
		if res == nil || res.AmountOut == nil {
			return nil, &StepError{Index: i, Step: step.Name(), Err: ErrNilResult}
		}
		if res.Name == "" {
			res.Name = step.Name()
		}
		res.AmountIn = new(big.Int).Set(current)

		next := res.AmountOut
		if res.Forward != nil {
			if mode == ModeEstimateReversed {
				return nil, &StepError{Index: i, Step: step.Name(), Err: ErrUnsupportedOperation}
			}
			if base := w.bases[i]; base != 0 {
				shifted := *res.Forward
				shifted.Step += base
				res.Forward = &shifted
			}
			next, err = rc.resolve(res.Forward)
			if err != nil {
				return nil, &StepError{Index: i, Step: step.Name(), Err: err}
			}
		}
		rc.results[i] = res

		w.log.Debug("Step run", "mode", mode, "index", i, "step", res.Name, "amountIn", current, "amountOut", res.AmountOut, "passed", next)
		current = new(big.Int).Set(next)
	}

	w.results = rc.results
	w.lastRun = rc
	return current, nil
}
