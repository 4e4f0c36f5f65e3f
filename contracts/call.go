package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Call is an encoded contract call: target, calldata and attached value.
// Call is immutable - modifier methods return new instances.
type Call struct {
	target common.Address
	method string
	data   []byte
	value  *big.Int
}

// NewCall creates a Call from already encoded calldata.
func NewCall(target common.Address, data []byte) *Call {
	return &Call{target: target, data: common.CopyBytes(data)}
}

// Target returns the contract the call is sent to.
func (c *Call) Target() common.Address {
	return c.target
}

// Method returns the method name, or "" for raw calldata.
func (c *Call) Method() string {
	return c.method
}

// Data returns a copy of the calldata.
func (c *Call) Data() []byte {
	return common.CopyBytes(c.data)
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.data)
	return sel
}

// Value returns the native value attached to the call. Never nil.
func (c *Call) Value() *big.Int {
	if c.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.value)
}

// HasValue reports whether a non-zero value is attached.
func (c *Call) HasValue() bool {
	return c.value != nil && c.value.Sign() > 0
}

// WithValue attaches native value to the call.
//
// Returns a new Call with the value set.
func (c *Call) WithValue(amount *big.Int) *Call {
	clone := c.clone()
	if amount == nil {
		clone.value = nil
	} else {
		clone.value = new(big.Int).Set(amount)
	}
	return clone
}

func (c *Call) clone() *Call {
	clone := *c
	clone.data = common.CopyBytes(c.data)
	return &clone
}
