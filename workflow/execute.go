package workflow

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"

	"github.com/branched-services/go-hooliganhorde/contracts"
)

// Execute runs the workflow forward, encodes every step with the given
// slippage and submits the aggregated call. Nothing is submitted if any step
// fails.
func (w *Workflow) Execute(ctx context.Context, amountIn *big.Int, opts ExecuteOptions) (*Transaction, error) {
	if err := ValidateSlippage(opts.Slippage); err != nil {
		return nil, err
	}
	if w.submitter == nil {
		return nil, ErrNoSubmitter
	}
	if _, err := w.run(ctx, ModeExecute, amountIn, opts); err != nil {
		return nil, err
	}
	call, err := w.Encode()
	if err != nil {
		return nil, err
	}

	tx, err := w.submitter.Submit(ctx, call)
	if err != nil {
		return nil, err
	}
	w.log.Info("Workflow submitted", "steps", len(w.steps), "hash", tx.Hash(), "value", call.Value())
	return tx, nil
}

// CallStatic runs the workflow like Execute but simulates the aggregated
// call with eth_call from the workflow account, returning the raw result.
func (w *Workflow) CallStatic(ctx context.Context, amountIn *big.Int, opts ExecuteOptions) ([]byte, error) {
	if err := ValidateSlippage(opts.Slippage); err != nil {
		return nil, err
	}
	if w.caller == nil {
		return nil, ErrNoCaller
	}
	if _, err := w.run(ctx, ModeCallStatic, amountIn, opts); err != nil {
		return nil, err
	}
	call, err := w.Encode()
	if err != nil {
		return nil, err
	}
	to := call.Target()
	return w.caller.CallContract(ctx, ethereum.CallMsg{
		From:  w.account,
		To:    &to,
		Value: call.Value(),
		Data:  call.Data(),
	}, nil)
}

// Encode aggregates the calls of the last forward run.
func (w *Workflow) Encode() (*contracts.Call, error) {
	if w.lastRun == nil || w.lastRun.Reversed() {
		return nil, ErrNotRun
	}
	prepared := make([]PreparedCall, 0, len(w.results))
	for i, res := range w.results {
		rc := *w.lastRun
		rc.Index = i
		call, err := res.encode(&rc)
		if err != nil {
			return nil, &StepError{Index: i, Step: res.Name, Err: err}
		}
		if call == nil {
			continue
		}
		prepared = append(prepared, PreparedCall{Index: i, Step: res.Name, Call: call, Clipboard: res.Clipboard})
	}
	if len(prepared) == 0 {
		return nil, ErrEmptyWorkflow
	}
	return w.aggregator.Aggregate(prepared)
}
