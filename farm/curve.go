package farm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// coinIndices asks a Curve registry for the positions of from and to in
// pool. Registries with int128 and uint256 indices both decode to *big.Int.
func coinIndices(ctx context.Context, caller ethereum.ContractCaller, registry, pool *contracts.Contract, from, to *tokens.Token) (i, j *big.Int, err error) {
	out, err := registry.Read(ctx, caller, "get_coin_indices", pool.Address(), from.Address, to.Address)
	if err != nil {
		return nil, nil, err
	}
	if len(out) < 2 {
		return nil, nil, fmt.Errorf("%w: get_coin_indices returned %d values", contracts.ErrUnexpectedOutput, len(out))
	}
	i, okI := out[0].(*big.Int)
	j, okJ := out[1].(*big.Int)
	if !okI || !okJ {
		return nil, nil, fmt.Errorf("%w: get_coin_indices returned %T, %T", contracts.ErrUnexpectedOutput, out[0], out[1])
	}
	return i, j, nil
}

// Exchange swaps between two coins of a Curve pool.
type Exchange struct {
	protocol *contracts.Contract
	caller   ethereum.ContractCaller
	pool     *contracts.Contract
	registry *contracts.Contract
	from, to *tokens.Token
	fromMode mode.From
	toMode   mode.To
}

// Exchange returns a step swapping from into to on pool, whose coins are
// indexed by registry.
func (f *Farm) Exchange(pool, registry *contracts.Contract, from, to *tokens.Token, fromMode mode.From, toMode mode.To) *Exchange {
	return &Exchange{
		protocol: f.book.Protocol,
		caller:   f.caller,
		pool:     pool,
		registry: registry,
		from:     from,
		to:       to,
		fromMode: fromMode,
		toMode:   toMode,
	}
}

// Name implements workflow.Step.
func (a *Exchange) Name() string { return "exchange" }

// Run implements workflow.Step. A reverse run quotes the opposite direction
// for the desired output.
func (a *Exchange) Run(ctx context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	i, j, err := coinIndices(ctx, a.caller, a.registry, a.pool, a.from, a.to)
	if err != nil {
		return nil, err
	}
	if rc.Reversed() {
		i, j = j, i
	}
	quote, err := a.pool.ReadBig(ctx, a.caller, "get_dy", i, j, amountIn)
	if err != nil {
		return nil, err
	}
	res := &workflow.StepResult{Name: a.Name(), AmountOut: quote}
	if !rc.Reversed() {
		res.Prepare = func(rc *workflow.RunContext) (*contracts.Call, error) {
			return a.protocol.Invoke("exchange", a.pool.Address(), a.registry.Address(), a.from.Address, a.to.Address,
				amountIn, workflow.Slip(quote, rc.Slippage), a.fromMode, a.toMode)
		}
	}
	return res, nil
}

// ExchangeUnderlying swaps between underlying coins of a Curve metapool.
type ExchangeUnderlying struct {
	protocol *contracts.Contract
	caller   ethereum.ContractCaller
	pool     *contracts.Contract
	registry *contracts.Contract
	from, to *tokens.Token
	fromMode mode.From
	toMode   mode.To
}

// ExchangeUnderlying returns a step swapping from into to through the
// underlying coins of pool. Indices come from the meta factory.
func (f *Farm) ExchangeUnderlying(pool *contracts.Contract, from, to *tokens.Token, fromMode mode.From, toMode mode.To) *ExchangeUnderlying {
	return &ExchangeUnderlying{
		protocol: f.book.Protocol,
		caller:   f.caller,
		pool:     pool,
		registry: f.book.MetaFactory,
		from:     from,
		to:       to,
		fromMode: fromMode,
		toMode:   toMode,
	}
}

// Name implements workflow.Step.
func (a *ExchangeUnderlying) Name() string { return "exchangeUnderlying" }

// Run implements workflow.Step.
func (a *ExchangeUnderlying) Run(ctx context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	i, j, err := coinIndices(ctx, a.caller, a.registry, a.pool, a.from, a.to)
	if err != nil {
		return nil, err
	}
	if rc.Reversed() {
		i, j = j, i
	}
	quote, err := a.pool.ReadBig(ctx, a.caller, "get_dy_underlying", i, j, amountIn)
	if err != nil {
		return nil, err
	}
	res := &workflow.StepResult{Name: a.Name(), AmountOut: quote}
	if !rc.Reversed() {
		res.Prepare = func(rc *workflow.RunContext) (*contracts.Call, error) {
			return a.protocol.Invoke("exchangeUnderlying", a.pool.Address(), a.from.Address, a.to.Address,
				amountIn, workflow.Slip(quote, rc.Slippage), a.fromMode, a.toMode)
		}
	}
	return res, nil
}

// AddLiquidity adds a single coin to a Curve pool for LP tokens.
type AddLiquidity struct {
	protocol *contracts.Contract
	caller   ethereum.ContractCaller
	pool     *contracts.Contract
	registry *contracts.Contract
	weights  []int64
	fromMode mode.From
	toMode   mode.To
}

// AddLiquidity returns a step adding liquidity to pool. weights has one
// entry per pool coin: the incoming amount is placed in every slot whose
// weight is 1, as in [0, 1, 0].
func (f *Farm) AddLiquidity(pool, registry *contracts.Contract, weights []int64, fromMode mode.From, toMode mode.To) *AddLiquidity {
	return &AddLiquidity{
		protocol: f.book.Protocol,
		caller:   f.caller,
		pool:     pool,
		registry: registry,
		weights:  append([]int64(nil), weights...),
		fromMode: fromMode,
		toMode:   toMode,
	}
}

// Name implements workflow.Step.
func (a *AddLiquidity) Name() string { return "addLiquidity" }

// Run implements workflow.Step. Reverse estimation is not supported.
func (a *AddLiquidity) Run(ctx context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	if rc.Reversed() {
		return nil, workflow.ErrUnsupportedOperation
	}
	amounts := make([]*big.Int, len(a.weights))
	for k, w := range a.weights {
		amounts[k] = new(big.Int).Mul(amountIn, big.NewInt(w))
	}
	quote, err := a.pool.ReadBig(ctx, a.caller, "calc_token_amount", amounts, true)
	if err != nil {
		return nil, err
	}
	return &workflow.StepResult{
		Name:      a.Name(),
		AmountOut: quote,
		Prepare: func(rc *workflow.RunContext) (*contracts.Call, error) {
			return a.protocol.Invoke("addLiquidity", a.pool.Address(), a.registry.Address(), amounts,
				workflow.Slip(quote, rc.Slippage), a.fromMode, a.toMode)
		},
	}, nil
}
