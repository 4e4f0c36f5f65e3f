package events

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMissingWhitelist indicates a processor was created without whitelisted tokens.
	ErrMissingWhitelist = errors.New("events: missing whitelist")

	// ErrUnknownAsset indicates an event references a token outside the whitelist.
	ErrUnknownAsset = errors.New("events: unknown asset")

	// ErrUnknownDepositBucket indicates a deposit removal without a matching deposit.
	ErrUnknownDepositBucket = errors.New("events: unknown deposit")

	// ErrUnknownWithdrawalBucket indicates a withdrawal removal without a matching withdrawal.
	ErrUnknownWithdrawalBucket = errors.New("events: unknown withdrawal")

	// ErrDepositUnderflow indicates a removal larger than the deposit it targets.
	ErrDepositUnderflow = errors.New("events: removal exceeds deposit")

	// ErrMalformedEvent indicates an event whose fields are inconsistent or undecodable.
	ErrMalformedEvent = errors.New("events: malformed event")

	// ErrUnknownPlot indicates a plot operation that matches no plot in the line.
	ErrUnknownPlot = errors.New("events: unknown plot")

	// ErrPlotRange indicates a plot operation running past the end of its plot.
	ErrPlotRange = errors.New("events: plot range exceeded")
)

// BucketError reports a failure on one (token, season) bucket.
type BucketError struct {
	Kind   Kind
	Token  common.Address
	Season uint32
	Err    error
}

func (e *BucketError) Error() string {
	return fmt.Sprintf("events: %s %s season %d: %v", e.Kind, e.Token.Hex(), e.Season, e.Err)
}

func (e *BucketError) Unwrap() error {
	return e.Err
}
