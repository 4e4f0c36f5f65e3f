// Package hooligan reads the HOOLIGAN price and the chop rates of unripe
// tokens.
package hooligan

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/tokens"
)

// ErrNotUnripe indicates a chop rate was requested for a ripe token.
var ErrNotUnripe = errors.New("hooligan: token must be unripe to get chop rate")

// PriceDecimals is the precision of every price the aggregator reports.
const PriceDecimals = 6

// PoolPrice is one pool's entry in the price aggregate. Field order follows
// the contract's tuple.
type PoolPrice struct {
	Pool      common.Address
	Tokens    [2]common.Address
	Balances  [2]*big.Int
	Price     *big.Int
	Liquidity *big.Int
	DeltaB    *big.Int
	LPUSD     *big.Int `abi:"lpUsd"`
	LPBDV     *big.Int `abi:"lpBdv"`
}

// Price is the liquidity weighted HOOLIGAN price over every pool.
type Price struct {
	Price     *big.Int
	Liquidity *big.Int
	DeltaB    *big.Int
	Pools     []PoolPrice
}

// ChopRate describes converting an unripe token to its ripe counterpart.
// Rate and Penalty use the unripe token's decimals; Penalty is a percentage.
type ChopRate struct {
	Rate       *big.Int
	Penalty    *big.Int
	Underlying *big.Int
	Supply     *big.Int
}

// Option configures a Hooligan.
type Option func(*Hooligan)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(h *Hooligan) {
		h.log = l
	}
}

// Hooligan reads price and chop views.
type Hooligan struct {
	book   *contracts.Book
	caller ethereum.ContractCaller
	log    log.Logger
}

// New creates a Hooligan reading book's contracts through caller.
func New(book *contracts.Book, caller ethereum.ContractCaller, opts ...Option) *Hooligan {
	h := &Hooligan{book: book, caller: caller, log: log.Root()}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.New("module", "hooligan")
	return h
}

// PriceInfo returns the full price aggregate.
func (h *Hooligan) PriceInfo(ctx context.Context) (*Price, error) {
	var out struct{ P Price }
	if err := h.book.Price.ReadInto(ctx, h.caller, &out, "price"); err != nil {
		return nil, err
	}
	return &out.P, nil
}

// GetPrice returns the current HOOLIGAN price with PriceDecimals.
func (h *Hooligan) GetPrice(ctx context.Context) (*big.Int, error) {
	p, err := h.PriceInfo(ctx)
	if err != nil {
		return nil, err
	}
	if p.Price == nil {
		return nil, fmt.Errorf("%w: price is empty", contracts.ErrUnexpectedOutput)
	}
	return p.Price, nil
}

// GetChopRate reads the chop rate, underlying amount and supply of an unripe
// token concurrently.
func (h *Hooligan) GetChopRate(ctx context.Context, token *tokens.Token) (*ChopRate, error) {
	if !token.Unripe {
		return nil, fmt.Errorf("%w: %s", ErrNotUnripe, token.Describe())
	}
	var c ChopRate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Rate, err = h.book.Protocol.ReadBig(gctx, h.caller, "getPercentPenalty", token.Address)
		return err
	})
	g.Go(func() (err error) {
		c.Underlying, err = h.book.Protocol.ReadBig(gctx, h.caller, "getTotalUnderlying", token.Address)
		return err
	})
	g.Go(func() (err error) {
		c.Supply, err = h.book.ERC20(token.Symbol, token.Address).ReadBig(gctx, h.caller, "totalSupply")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.Penalty = new(big.Int).Sub(token.One(), c.Rate)
	c.Penalty.Mul(c.Penalty, big.NewInt(100))
	h.log.Debug("Read chop rate", "token", token.Symbol, "rate", c.Rate, "penalty", c.Penalty)
	return &c, nil
}
