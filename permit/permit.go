// Package permit holds signed permits as the SDK receives them. Signing
// happens elsewhere; this package only carries the message and the split
// signature and checks their shape.
package permit

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContextKey is the workflow data key a permit is looked up under when a
// step was built without one.
const ContextKey = "permit"

var (
	// ErrPermitRequired indicates a step needs a permit and none was supplied.
	ErrPermitRequired = errors.New("permit: permit required")

	// ErrMalformedPermit indicates the permit message has the wrong shape.
	ErrMalformedPermit = errors.New("permit: malformed permit")
)

// Message is one of ERC2612, DepositToken or DepositTokens.
type Message interface {
	isMessage()
	validate() error
}

// ERC2612 is a token approval permit.
type ERC2612 struct {
	Owner    common.Address
	Spender  common.Address
	Value    *big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

func (ERC2612) isMessage() {}

func (m ERC2612) validate() error {
	if m.Value == nil || m.Deadline == nil {
		return fmt.Errorf("%w: erc2612 needs value and deadline", ErrMalformedPermit)
	}
	return nil
}

// DepositToken approves the transfer of deposits of a single token.
type DepositToken struct {
	Owner    common.Address
	Spender  common.Address
	Token    common.Address
	Value    *big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

func (DepositToken) isMessage() {}

func (m DepositToken) validate() error {
	if m.Token == (common.Address{}) || m.Value == nil || m.Deadline == nil {
		return fmt.Errorf("%w: deposit permit needs token, value and deadline", ErrMalformedPermit)
	}
	return nil
}

// DepositTokens approves the transfer of deposits of several tokens.
type DepositTokens struct {
	Owner    common.Address
	Spender  common.Address
	Tokens   []common.Address
	Values   []*big.Int
	Nonce    *big.Int
	Deadline *big.Int
}

func (DepositTokens) isMessage() {}

func (m DepositTokens) validate() error {
	if len(m.Tokens) == 0 || len(m.Tokens) != len(m.Values) || m.Deadline == nil {
		return fmt.Errorf("%w: deposits permit needs matching tokens and values", ErrMalformedPermit)
	}
	return nil
}

// Split is an ECDSA signature split into its components.
type Split struct {
	V uint8
	R [32]byte
	S [32]byte
}

// Signed is a permit message with its signature.
type Signed struct {
	Owner     common.Address
	Message   Message
	Signature Split
}

// Validate checks the message shape.
func (s *Signed) Validate() error {
	if s == nil {
		return ErrPermitRequired
	}
	if s.Message == nil {
		return fmt.Errorf("%w: no message", ErrMalformedPermit)
	}
	return s.Message.validate()
}

// ERC2612 returns the message as a token permit.
func (s *Signed) ERC2612() (ERC2612, error) {
	if err := s.Validate(); err != nil {
		return ERC2612{}, err
	}
	m, ok := s.Message.(ERC2612)
	if !ok {
		return ERC2612{}, fmt.Errorf("%w: want token permit, got %T", ErrMalformedPermit, s.Message)
	}
	return m, nil
}

// FromData extracts a permit from workflow data.
func FromData(data map[string]any) (*Signed, error) {
	v, ok := data[ContextKey]
	if !ok || v == nil {
		return nil, ErrPermitRequired
	}
	p, ok := v.(*Signed)
	if !ok {
		return nil, fmt.Errorf("%w: data holds %T", ErrMalformedPermit, v)
	}
	if p == nil {
		return nil, ErrPermitRequired
	}
	return p, nil
}
