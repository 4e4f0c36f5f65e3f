// Package chaintest provides in-memory stand-ins for the go-ethereum backend
// interfaces used in tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MethodFunc answers a decoded call with the values to return.
type MethodFunc func(args []any) ([]any, error)

type route struct {
	to       common.Address
	selector [4]byte
}

type handler struct {
	method abi.Method
	fn     MethodFunc
}

// Caller implements ethereum.ContractCaller by dispatching on target and
// selector to registered handlers.
type Caller struct {
	mu       sync.Mutex
	handlers map[route]handler
	calls    []ethereum.CallMsg
}

// NewCaller returns an empty Caller.
func NewCaller() *Caller {
	return &Caller{handlers: make(map[route]handler)}
}

// On registers fn for method of contractABI at address to.
func (c *Caller) On(to common.Address, contractABI abi.ABI, method string, fn MethodFunc) *Caller {
	m, ok := contractABI.Methods[method]
	if !ok {
		panic(fmt.Sprintf("chaintest: no method %q", method))
	}
	var sel [4]byte
	copy(sel[:], m.ID)
	c.mu.Lock()
	c.handlers[route{to: to, selector: sel}] = handler{method: m, fn: fn}
	c.mu.Unlock()
	return c
}

// Returns registers a handler that always answers with out.
func (c *Caller) Returns(to common.Address, contractABI abi.ABI, method string, out ...any) *Caller {
	return c.On(to, contractABI, method, func([]any) ([]any, error) { return out, nil })
}

// CallContract implements ethereum.ContractCaller.
func (c *Caller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.mu.Lock()
	c.calls = append(c.calls, msg)
	var to common.Address
	if msg.To != nil {
		to = *msg.To
	}
	var sel [4]byte
	copy(sel[:], msg.Data)
	h, ok := c.handlers[route{to: to, selector: sel}]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("chaintest: no handler for %s %x", to.Hex(), sel)
	}

	args, err := h.method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	out, err := h.fn(args)
	if err != nil {
		return nil, err
	}
	return h.method.Outputs.Pack(out...)
}

// CodeAt implements bind.ContractCaller.
func (c *Caller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

// Calls returns the messages received so far.
func (c *Caller) Calls() []ethereum.CallMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ethereum.CallMsg, len(c.calls))
	copy(out, c.calls)
	return out
}

// Filterer implements a LogFilterer over a fixed set of logs. It honours the
// address list, block range and positional topic filters of a query.
type Filterer struct {
	mu      sync.Mutex
	Logs    []types.Log
	Err     error
	queries []ethereum.FilterQuery
}

// FilterLogs returns the matching logs in stored order.
func (f *Filterer) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.Err != nil {
		return nil, f.Err
	}
	var out []types.Log
	for _, l := range f.Logs {
		if matches(q, l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Queries returns the queries received so far.
func (f *Filterer) Queries() []ethereum.FilterQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ethereum.FilterQuery, len(f.queries))
	copy(out, f.queries)
	return out
}

func matches(q ethereum.FilterQuery, l types.Log) bool {
	if len(q.Addresses) > 0 {
		found := false
		for _, a := range q.Addresses {
			if a == l.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.FromBlock != nil && l.BlockNumber < q.FromBlock.Uint64() {
		return false
	}
	if q.ToBlock != nil && l.BlockNumber > q.ToBlock.Uint64() {
		return false
	}
	for i, want := range q.Topics {
		if len(want) == 0 {
			continue
		}
		if i >= len(l.Topics) {
			return false
		}
		found := false
		for _, h := range want {
			if h == l.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DeployBackend implements bind.DeployBackend with a fixed receipt table.
type DeployBackend struct {
	mu       sync.Mutex
	Receipts map[common.Hash]*types.Receipt
}

// TransactionReceipt returns the stored receipt or ethereum.NotFound.
func (b *DeployBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.Receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

// CodeAt implements bind.DeployBackend.
func (b *DeployBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

// EventLog builds a log of event name declared in contractABI. indexed
// holds the topic values after the signature and data the non-indexed
// values, both in declaration order. It panics on values that do not fit
// the event.
func EventLog(contractABI abi.ABI, address common.Address, name string, indexed []any, data ...any) types.Log {
	ev, ok := contractABI.Events[name]
	if !ok {
		panic(fmt.Sprintf("chaintest: no event %q", name))
	}
	topics := []common.Hash{ev.ID}
	if len(indexed) > 0 {
		query := make([][]any, len(indexed))
		for i, v := range indexed {
			query[i] = []any{v}
		}
		encoded, err := abi.MakeTopics(query...)
		if err != nil {
			panic(err)
		}
		for _, t := range encoded {
			topics = append(topics, t[0])
		}
	}
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic(err)
	}
	return types.Log{Address: address, Topics: topics, Data: packed}
}
