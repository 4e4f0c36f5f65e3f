// Package contracts wraps the protocol and pool contracts: calldata encoding,
// decoded reads over an ethereum.ContractCaller, and the address book.
package contracts

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Contract pairs an address with its ABI.
type Contract struct {
	name    string
	address common.Address
	abi     abi.ABI
}

// New creates a Contract wrapper. name is used in errors and logs.
func New(name string, address common.Address, contractABI abi.ABI) *Contract {
	return &Contract{
		name:    name,
		address: address,
		abi:     contractABI,
	}
}

// At returns a copy of the contract bound to another address.
func (c *Contract) At(name string, address common.Address) *Contract {
	return New(name, address, c.abi)
}

// Name returns the contract name.
func (c *Contract) Name() string {
	return c.name
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Invoke encodes a call to the named method with the given arguments.
// Go integers are widened to *big.Int where the ABI type needs it, and
// slices are converted to fixed-size arrays of matching length.
func (c *Contract) Invoke(methodName string, args ...any) (*Call, error) {
	method, ok := c.abi.Methods[methodName]
	if !ok {
		return nil, &MethodNotFoundError{Contract: c.name, Address: c.address, Method: methodName}
	}
	if len(args) != len(method.Inputs) {
		return nil, &ArgumentError{Method: methodName, Index: len(args), Err: ErrArgumentCount}
	}

	converted := make([]any, len(args))
	for i, arg := range args {
		v, err := convertToABIType(arg, method.Inputs[i].Type)
		if err != nil {
			return nil, &ArgumentError{Method: methodName, Index: i, Err: err}
		}
		converted[i] = v
	}

	data, err := c.abi.Pack(methodName, converted...)
	if err != nil {
		return nil, &ArgumentError{Method: methodName, Index: -1, Err: err}
	}
	return &Call{target: c.address, method: methodName, data: data}, nil
}

// MustInvoke is like Invoke but panics on error.
func (c *Contract) MustInvoke(methodName string, args ...any) *Call {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// Read performs an eth_call of the named method at the latest block and
// returns the decoded outputs.
func (c *Contract) Read(ctx context.Context, caller ethereum.ContractCaller, methodName string, args ...any) ([]any, error) {
	call, err := c.Invoke(methodName, args...)
	if err != nil {
		return nil, err
	}
	to := c.address
	raw, err := caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: call.Data()}, nil)
	if err != nil {
		return nil, &CallError{Contract: c.name, Method: methodName, Err: err}
	}
	out, err := c.abi.Unpack(methodName, raw)
	if err != nil {
		return nil, &CallError{Contract: c.name, Method: methodName, Err: err}
	}
	return out, nil
}

// ReadBig reads a method whose first output is an integer wider than 64 bits.
func (c *Contract) ReadBig(ctx context.Context, caller ethereum.ContractCaller, methodName string, args ...any) (*big.Int, error) {
	out, err := c.Read(ctx, caller, methodName, args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &CallError{Contract: c.name, Method: methodName, Err: ErrUnexpectedOutput}
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, &CallError{Contract: c.name, Method: methodName, Err: fmt.Errorf("%w: %T", ErrUnexpectedOutput, out[0])}
	}
	return v, nil
}

// ReadInto reads a method and copies its outputs into dst, which must be a
// pointer to a struct whose fields follow the output order. A single tuple
// output lands in dst's first field.
func (c *Contract) ReadInto(ctx context.Context, caller ethereum.ContractCaller, dst any, methodName string, args ...any) error {
	out, err := c.Read(ctx, caller, methodName, args...)
	if err != nil {
		return err
	}
	if err := c.abi.Methods[methodName].Outputs.Copy(dst, out); err != nil {
		return &CallError{Contract: c.name, Method: methodName, Err: fmt.Errorf("%w: %v", ErrUnexpectedOutput, err)}
	}
	return nil
}

// HasMethod returns true if the contract has a method with the given name.
func (c *Contract) HasMethod(methodName string) bool {
	_, ok := c.abi.Methods[methodName]
	return ok
}

// MethodNames returns all method names in the contract ABI, sorted.
func (c *Contract) MethodNames() []string {
	names := make([]string, 0, len(c.abi.Methods))
	for name := range c.abi.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseABI parses a JSON ABI string into an abi.ABI.
func ParseABI(abiJSON string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(abiJSON))
}

// MustParseABI is like ParseABI but panics on error.
func MustParseABI(abiJSON string) abi.ABI {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		panic(err)
	}
	return parsed
}

// convertToABIType handles the Go conversions the abi packer does not.
func convertToABIType(value any, t abi.Type) (any, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		if t.Size > 64 {
			switch v := value.(type) {
			case int:
				return big.NewInt(int64(v)), nil
			case int64:
				return big.NewInt(v), nil
			case uint64:
				return new(big.Int).SetUint64(v), nil
			case uint32:
				return new(big.Int).SetUint64(uint64(v)), nil
			}
			return value, nil
		}
		// Named integer kinds (balance modes) are narrowed to the plain Go type.
		rv := reflect.ValueOf(value)
		want := t.GetType()
		if rv.Kind() == want.Kind() && rv.Type() != want {
			return rv.Convert(want).Interface(), nil
		}
		return value, nil
	case abi.FixedBytesTy:
		if h, ok := value.(common.Hash); ok && t.Size == common.HashLength {
			return [32]byte(h), nil
		}
		return value, nil
	case abi.ArrayTy:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return value, nil
		}
		if rv.Len() != t.Size {
			return nil, fmt.Errorf("want %d elements, got %d", t.Size, rv.Len())
		}
		arr := reflect.New(t.GetType()).Elem()
		for i := 0; i < rv.Len(); i++ {
			elem, err := convertToABIType(rv.Index(i).Interface(), *t.Elem)
			if err != nil {
				return nil, err
			}
			if elem == nil {
				return nil, fmt.Errorf("nil element %d", i)
			}
			arr.Index(i).Set(reflect.ValueOf(elem))
		}
		return arr.Interface(), nil
	default:
		return value, nil
	}
}
