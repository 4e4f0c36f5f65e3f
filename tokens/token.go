// Package tokens is the asset registry: every token the protocol knows about,
// lookup by address or symbol, and the firm whitelist with its per-BDV
// reward rates.
package tokens

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BDVDecimals is the precision of BDV (hooligan-denominated value) amounts.
const BDVDecimals = 6

// NativeAddress is the placeholder address used for the chain's native currency.
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Rewards are the HORDE and PROSPECT amounts, in raw units, granted per whole
// unit of deposited BDV.
type Rewards struct {
	Horde     *big.Int
	Prospects *big.Int
}

// Token describes a single asset. Tokens are compared by pointer identity;
// a Registry hands out exactly one *Token per asset.
type Token struct {
	Symbol      string
	Name        string
	Address     common.Address
	Decimals    uint8
	Native      bool
	LP          bool
	Unripe      bool
	Internal    bool
	Whitelisted bool
	Rewards     *Rewards
}

// String returns the token symbol.
func (t *Token) String() string {
	return t.Symbol
}

// One returns a single whole unit of the token in raw units.
func (t *Token) One() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Decimals)), nil)
}

// Horde returns the base horde granted for bdv.
func (t *Token) Horde(bdv *big.Int) *big.Int {
	if t.Rewards == nil || bdv == nil {
		return new(big.Int)
	}
	return perBDV(bdv, t.Rewards.Horde)
}

// Prospects returns the prospects granted for bdv.
func (t *Token) Prospects(bdv *big.Int) *big.Int {
	if t.Rewards == nil || bdv == nil {
		return new(big.Int)
	}
	return perBDV(bdv, t.Rewards.Prospects)
}

// Describe returns a short human readable description for logs.
func (t *Token) Describe() string {
	return fmt.Sprintf("%s (%s)", t.Symbol, t.Address.Hex())
}

func perBDV(bdv, rate *big.Int) *big.Int {
	out := new(big.Int).Mul(bdv, rate)
	return out.Quo(out, bdvUnit)
}

var bdvUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(BDVDecimals), nil)
