package workflow

import (
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(w *Workflow) {
		w.log = l
	}
}

// WithSubmitter sets the transaction submitter used by Execute.
func WithSubmitter(s Submitter) Option {
	return func(w *Workflow) {
		w.submitter = s
	}
}

// WithCaller sets the contract caller used by CallStatic.
func WithCaller(c ethereum.ContractCaller) Option {
	return func(w *Workflow) {
		w.caller = c
	}
}

// WithAccount sets the account steps act on behalf of.
func WithAccount(account common.Address) Option {
	return func(w *Workflow) {
		w.account = account
	}
}

// ExecuteOptions configures Execute and CallStatic.
type ExecuteOptions struct {
	// Slippage is the tolerated output shortfall in percent, 0 to 100.
	Slippage float64

	// Data is made available to steps through RunContext.Value.
	Data map[string]any
}
