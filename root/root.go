// Package root estimates and encodes ROOT mints. ROOT is a token backed by
// firm deposits transferred into the Root contract.
package root

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
	"github.com/branched-services/go-hooliganhorde/firm"
	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/permit"
)

var (
	// ErrNoTransfers indicates a mint without deposits to transfer.
	ErrNoTransfers = errors.New("root: no deposit transfers")

	// ErrEmptyUnderlying indicates ROOT has supply but no underlying to price it against.
	ErrEmptyUnderlying = errors.New("root: supply without underlying")

	// ErrOverdrawn indicates a withdrawal larger than the underlying.
	ErrOverdrawn = errors.New("root: withdrawal exceeds underlying")
)

// Precision is the fixed point base of the mint ratios.
var Precision = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Horde has 10 decimals and ROOT 18; a first mint issues 1e8 ROOT units per
// horde unit.
var firstMintScale = big.NewInt(1e8)

// FirmReader is the firm view the estimator needs. *firm.Firm implements it.
type FirmReader interface {
	AllHorde(ctx context.Context, account common.Address) (*firm.HordeBalance, error)
	Prospects(ctx context.Context, account common.Address) (*big.Int, error)
}

// DepositTransfer moves deposits of one token, season by season. Field names
// follow the tuple components of the ABI.
type DepositTransfer struct {
	Token   common.Address
	Seasons []uint32
	Amounts []*big.Int
}

// TransferOf builds the transfer of crates picked from token's deposits.
func TransferOf(token common.Address, picked firm.Picked) DepositTransfer {
	return DepositTransfer{Token: token, Seasons: picked.Seasons, Amounts: picked.Amounts}
}

// Estimate is the ROOT minted or burned for a set of deposits. Ratios use
// Precision. Bound is the smallest ratio on deposit and the largest on
// withdrawal; it sets Amount.
type Estimate struct {
	Amount         *big.Int
	BDVRatio       *big.Int
	HordeRatio     *big.Int
	ProspectsRatio *big.Int
	Bound          *big.Int
}

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(r *Root) {
		r.log = l
	}
}

// Root reads and encodes against the Root contract.
type Root struct {
	contract *contracts.Contract
	firm     FirmReader
	caller   ethereum.ContractCaller
	log      log.Logger
}

// New creates a Root for contract. Its firm position is read from fr.
func New(contract *contracts.Contract, fr FirmReader, caller ethereum.ContractCaller, opts ...Option) *Root {
	r := &Root{contract: contract, firm: fr, caller: caller, log: log.Root()}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.New("module", "root")
	return r
}

// Address returns the Root contract address.
func (r *Root) Address() common.Address {
	return r.contract.Address()
}

// UnderlyingBDV returns the hooligan-denominated value of every deposit the
// Root contract holds.
func (r *Root) UnderlyingBDV(ctx context.Context) (*big.Int, error) {
	return r.contract.ReadBig(ctx, r.caller, "underlyingBdv")
}

// TotalSupply returns the ROOT supply.
func (r *Root) TotalSupply(ctx context.Context) (*big.Int, error) {
	return r.contract.ReadBig(ctx, r.caller, "totalSupply")
}

// EstimateRoots returns the ROOT minted for depositing deposits, or burned
// for withdrawing them.
func (r *Root) EstimateRoots(ctx context.Context, deposits []firm.DepositCrate, isDeposit bool) (*Estimate, error) {
	var (
		supply, bdvBefore, prospectsBefore *big.Int
		horde                              *firm.HordeBalance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		supply, err = r.TotalSupply(gctx)
		return err
	})
	g.Go(func() (err error) {
		bdvBefore, err = r.UnderlyingBDV(gctx)
		return err
	})
	g.Go(func() (err error) {
		horde, err = r.firm.AllHorde(gctx, r.Address())
		return err
	})
	g.Go(func() (err error) {
		prospectsBefore, err = r.firm.Prospects(gctx, r.Address())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := firm.SumDeposits(deposits)
	before := [3]*big.Int{bdvBefore, new(big.Int).Add(horde.Active, horde.Grown), prospectsBefore}
	added := [3]*big.Int{sum.BDV, sum.Horde, sum.Prospects}

	if supply.Sign() == 0 {
		hundred := new(big.Int).Mul(big.NewInt(100), Precision)
		return &Estimate{
			Amount:         new(big.Int).Mul(sum.Horde, firstMintScale),
			BDVRatio:       hundred,
			HordeRatio:     new(big.Int).Set(hundred),
			ProspectsRatio: new(big.Int).Set(hundred),
			Bound:          new(big.Int).Set(hundred),
		}, nil
	}

	var ratios [3]*big.Int
	for i := range before {
		if before[i].Sign() == 0 {
			return nil, ErrEmptyUnderlying
		}
		after := new(big.Int)
		if isDeposit {
			after.Add(before[i], added[i])
		} else {
			after.Sub(before[i], added[i])
		}
		if after.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s over %s", ErrOverdrawn, added[i], before[i])
		}
		ratios[i] = mulDiv(Precision, after, before[i], !isDeposit)
	}

	e := &Estimate{BDVRatio: ratios[0], HordeRatio: ratios[1], ProspectsRatio: ratios[2]}
	if isDeposit {
		e.Bound = minOf(ratios[:])
		e.Amount = new(big.Int).Sub(mulDiv(supply, e.Bound, Precision, false), supply)
	} else {
		e.Bound = maxOf(ratios[:])
		e.Amount = new(big.Int).Sub(supply, mulDiv(supply, e.Bound, Precision, false))
	}
	r.log.Debug("Estimated roots", "deposit", isDeposit, "supply", supply, "bound", e.Bound, "amount", e.Amount)
	return e, nil
}

// Mint encodes a mint of ROOT from transfers, delivered to to. A signed
// deposit permit selects the permit variant of the call.
func (r *Root) Mint(transfers []DepositTransfer, to mode.To, minOut *big.Int, p *permit.Signed) (*contracts.Call, error) {
	if len(transfers) == 0 {
		return nil, ErrNoTransfers
	}
	if minOut == nil {
		minOut = new(big.Int)
	}
	if p == nil {
		return r.contract.Invoke("mint", transfers, to, minOut)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sig := p.Signature
	switch m := p.Message.(type) {
	case permit.DepositToken:
		return r.contract.Invoke("mintWithTokenPermit", transfers, to, minOut, m.Token, m.Value, m.Deadline, sig.V, sig.R, sig.S)
	case permit.DepositTokens:
		return r.contract.Invoke("mintWithTokensPermit", transfers, to, minOut, m.Tokens, m.Values, m.Deadline, sig.V, sig.R, sig.S)
	default:
		return nil, fmt.Errorf("%w: want deposit permit, got %T", permit.ErrMalformedPermit, p.Message)
	}
}

// mulDiv returns a*b/c, rounded up when up is set.
func mulDiv(a, b, c *big.Int, up bool) *big.Int {
	n := new(big.Int).Mul(a, b)
	q, m := new(big.Int).QuoRem(n, c, new(big.Int))
	if up && m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func minOf(xs []*big.Int) *big.Int {
	out := xs[0]
	for _, x := range xs[1:] {
		if x.Cmp(out) < 0 {
			out = x
		}
	}
	return new(big.Int).Set(out)
}

func maxOf(xs []*big.Int) *big.Int {
	out := xs[0]
	for _, x := range xs[1:] {
		if x.Cmp(out) > 0 {
			out = x
		}
	}
	return new(big.Int).Set(out)
}
