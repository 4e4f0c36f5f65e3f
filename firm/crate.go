package firm

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/branched-services/go-hooliganhorde/tokens"
)

var (
	// ErrSeasonOrder indicates a deposit season later than the current season.
	ErrSeasonOrder = errors.New("firm: deposit season is after current season")

	// ErrInsufficientCrates indicates the crates hold less than the requested amount.
	ErrInsufficientCrates = errors.New("firm: not enough amount in crates")

	// ErrNotWhitelisted indicates a token that cannot be deposited.
	ErrNotWhitelisted = errors.New("firm: token is not whitelisted")
)

// Prospects grow horde at 1/10000 horde per prospect per season.
const grownHordeDivisor = 10_000

// Crate is a single deposit or withdrawal of one token in one season.
type Crate struct {
	Season uint32
	Amount *big.Int
}

// DepositCrate is a deposit with its value and rewards.
type DepositCrate struct {
	Crate
	BDV        *big.Int
	BaseHorde  *big.Int
	GrownHorde *big.Int
	Horde      *big.Int
	Prospects  *big.Int
}

// WithdrawalCrate is a withdrawal waiting to be, or ready to be, claimed.
type WithdrawalCrate = Crate

// CalculateGrownHorde returns the horde grown by prospects between
// depositSeason and currentSeason.
func CalculateGrownHorde(registry *tokens.Registry, currentSeason, depositSeason uint32, prospects *big.Int) (*big.Int, error) {
	if currentSeason < depositSeason {
		return nil, fmt.Errorf("%w: current %d, deposit %d", ErrSeasonOrder, currentSeason, depositSeason)
	}
	horde := registry.MustFind(tokens.SymbolHorde)
	prosp := registry.MustFind(tokens.SymbolProspects)

	grown := new(big.Int).Mul(prospects, big.NewInt(int64(currentSeason-depositSeason)))
	grown.Mul(grown, horde.One())
	div := new(big.Int).Mul(prosp.One(), big.NewInt(grownHordeDivisor))
	return grown.Quo(grown, div), nil
}

// MakeDepositCrate values a raw deposit of token at currentSeason.
func MakeDepositCrate(registry *tokens.Registry, token *tokens.Token, season uint32, amount, bdv *big.Int, currentSeason uint32) (DepositCrate, error) {
	prospects := token.Prospects(bdv)
	base := token.Horde(bdv)
	grown, err := CalculateGrownHorde(registry, currentSeason, season, prospects)
	if err != nil {
		return DepositCrate{}, err
	}
	return DepositCrate{
		Crate:      Crate{Season: season, Amount: new(big.Int).Set(amount)},
		BDV:        new(big.Int).Set(bdv),
		BaseHorde:  base,
		GrownHorde: grown,
		Horde:      new(big.Int).Add(base, grown),
		Prospects:  prospects,
	}, nil
}

// DepositSum totals a set of deposit crates.
type DepositSum struct {
	Amount    *big.Int
	BDV       *big.Int
	Horde     *big.Int
	Prospects *big.Int
}

// SumDeposits totals crates.
func SumDeposits(crates []DepositCrate) DepositSum {
	s := DepositSum{Amount: new(big.Int), BDV: new(big.Int), Horde: new(big.Int), Prospects: new(big.Int)}
	for _, c := range crates {
		s.Amount.Add(s.Amount, c.Amount)
		s.BDV.Add(s.BDV, c.BDV)
		s.Horde.Add(s.Horde, c.Horde)
		s.Prospects.Add(s.Prospects, c.Prospects)
	}
	return s
}

// CratesOf returns the plain crates of deposits.
func CratesOf(deposits []DepositCrate) []Crate {
	out := make([]Crate, len(deposits))
	for i, d := range deposits {
		out[i] = d.Crate
	}
	return out
}

// CrateOrder returns crates in the order they should be spent.
type CrateOrder func([]Crate) []Crate

// NewestFirst orders crates by season, latest first.
func NewestFirst(crates []Crate) []Crate {
	out := append([]Crate(nil), crates...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season > out[j].Season })
	return out
}

// OldestFirst orders crates by season, earliest first.
func OldestFirst(crates []Crate) []Crate {
	out := append([]Crate(nil), crates...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

// Picked lists crates chosen to cover an amount, in spending order.
type Picked struct {
	Seasons []uint32
	Amounts []*big.Int
}

// PickCrates takes from crates in order until amount is covered; the last
// crate may be taken in part. A nil order means NewestFirst.
func PickCrates(crates []Crate, amount *big.Int, order CrateOrder) (Picked, error) {
	if order == nil {
		order = NewestFirst
	}
	var p Picked
	remaining := new(big.Int).Set(amount)
	for _, c := range order(crates) {
		if remaining.Sign() <= 0 {
			break
		}
		take := c.Amount
		if take.Cmp(remaining) > 0 {
			take = remaining
		}
		p.Seasons = append(p.Seasons, c.Season)
		p.Amounts = append(p.Amounts, new(big.Int).Set(take))
		remaining = new(big.Int).Sub(remaining, take)
	}
	if remaining.Sign() > 0 {
		return Picked{}, fmt.Errorf("%w: short by %s", ErrInsufficientCrates, remaining)
	}
	return p, nil
}

// SplitWithdrawals separates withdrawals claimable at currentSeason from
// those still in flight. Both lists are sorted by season.
func SplitWithdrawals(withdrawals map[uint32]*big.Int, currentSeason uint32) (withdrawn, claimable WithdrawalBalance) {
	withdrawn = WithdrawalBalance{Amount: new(big.Int)}
	claimable = WithdrawalBalance{Amount: new(big.Int)}
	for season, amount := range withdrawals {
		c := Crate{Season: season, Amount: new(big.Int).Set(amount)}
		if season <= currentSeason {
			claimable.add(c)
		} else {
			withdrawn.add(c)
		}
	}
	withdrawn.Crates = OldestFirst(withdrawn.Crates)
	claimable.Crates = OldestFirst(claimable.Crates)
	return withdrawn, claimable
}
