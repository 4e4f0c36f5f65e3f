package workflow

import (
	"math"
	"math/big"
)

const slippagePrecision = 1_000_000

// Slip reduces amount by slippage percent, rounding the retained fraction
// down to six decimal places.
func Slip(amount *big.Int, slippage float64) *big.Int {
	factor := int64(math.Floor(slippagePrecision * (1 - slippage/100)))
	out := new(big.Int).Mul(amount, big.NewInt(factor))
	return out.Quo(out, big.NewInt(slippagePrecision))
}

// ValidateSlippage checks that slippage is a percentage in [0, 100].
func ValidateSlippage(slippage float64) error {
	if math.IsNaN(slippage) || slippage < 0 || slippage > 100 {
		return ErrInvalidSlippage
	}
	return nil
}
