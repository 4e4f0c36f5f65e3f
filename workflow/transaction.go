package workflow

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/branched-services/go-hooliganhorde/contracts"
)

// Submitter sends an aggregated call as a transaction.
type Submitter interface {
	Submit(ctx context.Context, call *contracts.Call) (*Transaction, error)
}

// Backend is what BoundSubmitter needs from the chain connection.
type Backend interface {
	bind.ContractTransactor
	bind.DeployBackend
}

// BoundSubmitter submits raw calldata through go-ethereum's bound contract.
type BoundSubmitter struct {
	backend Backend
	opts    *bind.TransactOpts
}

// NewBoundSubmitter creates a submitter signing with opts.
func NewBoundSubmitter(backend Backend, opts *bind.TransactOpts) *BoundSubmitter {
	return &BoundSubmitter{backend: backend, opts: opts}
}

// Submit implements Submitter.
func (s *BoundSubmitter) Submit(ctx context.Context, call *contracts.Call) (*Transaction, error) {
	opts := *s.opts
	opts.Context = ctx
	opts.Value = call.Value()

	bound := bind.NewBoundContract(call.Target(), abi.ABI{}, nil, s.backend, nil)
	tx, err := bound.RawTransact(&opts, call.Data())
	if err != nil {
		return nil, fmt.Errorf("workflow: submit: %w", err)
	}
	return NewTransaction(tx, s.backend), nil
}

// Transaction is a submitted workflow.
type Transaction struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

// NewTransaction wraps tx for waiting on backend.
func NewTransaction(tx *types.Transaction, backend bind.DeployBackend) *Transaction {
	return &Transaction{tx: tx, backend: backend}
}

// Hash returns the transaction hash.
func (t *Transaction) Hash() common.Hash {
	return t.tx.Hash()
}

// Raw returns the underlying transaction.
func (t *Transaction) Raw() *types.Transaction {
	return t.tx
}

// Wait blocks until the transaction is mined or ctx is done. A mined but
// failed transaction returns its receipt with ErrTransactionReverted.
func (t *Transaction) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, t.backend, t.tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, t.tx.Hash().Hex())
	}
	return receipt, nil
}
