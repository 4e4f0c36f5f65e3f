package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrArgumentCount indicates the argument count does not match the method inputs.
	ErrArgumentCount = errors.New("contracts: wrong number of arguments")

	// ErrUnexpectedOutput indicates a read returned values of an unexpected shape.
	ErrUnexpectedOutput = errors.New("contracts: unexpected call output")

	// ErrInvalidAddress indicates a configured address is not a hex address.
	ErrInvalidAddress = errors.New("contracts: invalid address")
)

// MethodNotFoundError indicates the contract doesn't have the requested method.
type MethodNotFoundError struct {
	Contract string
	Address  common.Address
	Method   string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("contracts: method %q not found in %s (%s)", e.Method, e.Contract, e.Address.Hex())
}

// ArgumentError indicates an issue with a method argument.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("contracts: argument %d for method %q: %v", e.Index, e.Method, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// CallError wraps a failed read against a contract.
type CallError struct {
	Contract string
	Method   string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("contracts: %s.%s: %v", e.Contract, e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
