// Package firm derives an account's deposit and withdrawal balances, with
// their horde and prospect rewards, from the event ledger.
package firm

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/events"
	"github.com/branched-services/go-hooliganhorde/tokens"
)

// EventSource supplies an account's firm events in chain order.
// *events.Fetcher implements it.
type EventSource interface {
	FirmEvents(ctx context.Context, account common.Address, token *common.Address, r events.BlockRange) ([]events.Event, error)
}

// DepositedBalance is the deposited part of a token balance.
type DepositedBalance struct {
	Amount *big.Int
	BDV    *big.Int
	Crates []DepositCrate
}

// WithdrawalBalance is the withdrawn or claimable part of a token balance.
type WithdrawalBalance struct {
	Amount *big.Int
	Crates []WithdrawalCrate
}

func (b *WithdrawalBalance) add(c Crate) {
	b.Amount.Add(b.Amount, c.Amount)
	b.Crates = append(b.Crates, c)
}

// TokenBalance is an account's firm position in one token.
type TokenBalance struct {
	Token     *tokens.Token
	Deposited DepositedBalance
	Withdrawn WithdrawalBalance
	Claimable WithdrawalBalance
}

func newTokenBalance(t *tokens.Token) *TokenBalance {
	return &TokenBalance{
		Token:     t,
		Deposited: DepositedBalance{Amount: new(big.Int), BDV: new(big.Int)},
		Withdrawn: WithdrawalBalance{Amount: new(big.Int)},
		Claimable: WithdrawalBalance{Amount: new(big.Int)},
	}
}

// Option configures a Firm.
type Option func(*Firm)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(f *Firm) {
		f.log = l
	}
}

// Firm reads firm balances.
type Firm struct {
	registry *tokens.Registry
	protocol *contracts.Contract
	caller   ethereum.ContractCaller
	events   EventSource
	log      log.Logger
}

// New creates a Firm reading views from protocol through caller and events
// from src.
func New(registry *tokens.Registry, protocol *contracts.Contract, caller ethereum.ContractCaller, src EventSource, opts ...Option) *Firm {
	f := &Firm{
		registry: registry,
		protocol: protocol,
		caller:   caller,
		events:   src,
		log:      log.Root(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.New("module", "firm")
	return f
}

// Season returns the protocol's current season.
func (f *Firm) Season(ctx context.Context) (uint32, error) {
	out, err := f.protocol.Read(ctx, f.caller, "season")
	if err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("%w: season returned nothing", contracts.ErrUnexpectedOutput)
	}
	season, ok := out[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("%w: season is %T", contracts.ErrUnexpectedOutput, out[0])
	}
	return season, nil
}

// BDV returns the hooligan-denominated value of amount of token.
func (f *Firm) BDV(ctx context.Context, token *tokens.Token, amount *big.Int) (*big.Int, error) {
	if amount == nil {
		amount = token.One()
	}
	return f.protocol.ReadBig(ctx, f.caller, "bdv", token.Address, amount)
}

// Horde returns the horde balance of account.
func (f *Firm) Horde(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfHorde", account)
}

// Prospects returns the prospect balance of account.
func (f *Firm) Prospects(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfProspects", account)
}

// EarnedHooligans returns the hooligans account earned since its last plant.
func (f *Firm) EarnedHooligans(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfEarnedHooligans", account)
}

// EarnedHorde returns the horde account earned since its last plant. Horde
// already counts it.
func (f *Firm) EarnedHorde(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfEarnedHorde", account)
}

// GrownHorde returns the horde account grew since its last mow.
func (f *Firm) GrownHorde(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfGrownHorde", account)
}

// PlantableProspects returns the prospects account would receive from
// planting its earned hooligans.
func (f *Firm) PlantableProspects(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.protocol.ReadBig(ctx, f.caller, "balanceOfEarnedProspects", account)
}

// HordeBalance splits an account's horde by origin. Active includes Earned;
// Grown is not yet mown.
type HordeBalance struct {
	Active *big.Int
	Earned *big.Int
	Grown  *big.Int
}

// AllHorde reads the active, earned and grown horde of account concurrently.
func (f *Firm) AllHorde(ctx context.Context, account common.Address) (*HordeBalance, error) {
	var b HordeBalance
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Active, err = f.Horde(gctx, account)
		return err
	})
	g.Go(func() (err error) {
		b.Earned, err = f.EarnedHorde(gctx, account)
		return err
	})
	g.Go(func() (err error) {
		b.Grown, err = f.GrownHorde(gctx, account)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBalance rebuilds account's balance of one whitelisted token from its
// events.
func (f *Firm) GetBalance(ctx context.Context, token *tokens.Token, account common.Address) (*TokenBalance, error) {
	if !f.registry.IsWhitelisted(token) {
		return nil, fmt.Errorf("%w: %s", ErrNotWhitelisted, token.Describe())
	}
	addr := token.Address
	balances, err := f.balances(ctx, account, &addr, []*tokens.Token{token})
	if err != nil {
		return nil, err
	}
	return balances[0], nil
}

// GetBalances rebuilds account's balances of every whitelisted token, in
// registry whitelist order.
func (f *Firm) GetBalances(ctx context.Context, account common.Address) ([]*TokenBalance, error) {
	return f.balances(ctx, account, nil, f.registry.Whitelist())
}

func (f *Firm) balances(ctx context.Context, account common.Address, token *common.Address, want []*tokens.Token) ([]*TokenBalance, error) {
	season, err := f.Season(ctx)
	if err != nil {
		return nil, err
	}
	evs, err := f.events.FirmEvents(ctx, account, token, events.BlockRange{})
	if err != nil {
		return nil, err
	}
	p, err := events.NewProcessor(f.registry, account, events.Params{Season: season, Whitelist: f.registry.Whitelist()},
		events.WithProcessorLogger(f.log))
	if err != nil {
		return nil, err
	}
	data, err := p.IngestAll(evs)
	if err != nil {
		return nil, err
	}

	out := make([]*TokenBalance, 0, len(want))
	for _, t := range want {
		b, err := f.build(t, data, season)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	f.log.Debug("Built firm balances", "account", account, "season", season, "events", len(evs), "tokens", len(out))
	return out, nil
}

func (f *Firm) build(t *tokens.Token, data *events.Data, season uint32) (*TokenBalance, error) {
	b := newTokenBalance(t)
	for s, raw := range data.Deposits[t] {
		crate, err := MakeDepositCrate(f.registry, t, s, raw.Amount, raw.BDV, season)
		if err != nil {
			return nil, err
		}
		b.Deposited.Amount.Add(b.Deposited.Amount, crate.Amount)
		b.Deposited.BDV.Add(b.Deposited.BDV, crate.BDV)
		b.Deposited.Crates = append(b.Deposited.Crates, crate)
	}
	sort.Slice(b.Deposited.Crates, func(i, j int) bool {
		return b.Deposited.Crates[i].Season < b.Deposited.Crates[j].Season
	})

	raw := make(map[uint32]*big.Int, len(data.Withdrawals[t]))
	for s, w := range data.Withdrawals[t] {
		raw[s] = w.Amount
	}
	b.Withdrawn, b.Claimable = SplitWithdrawals(raw, season)
	return b, nil
}
