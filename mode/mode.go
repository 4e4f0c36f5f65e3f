// Package mode defines the balance modes the protocol uses to decide where
// tokens are pulled from and where they are delivered.
package mode

import "fmt"

// From selects the balance a protocol call spends from.
type From uint8

const (
	// External spends from the caller's wallet balance.
	External From = iota

	// Internal spends from the caller's internal protocol balance.
	Internal

	// ExternalInternal spends from the wallet first, then the internal balance.
	ExternalInternal

	// InternalTolerant spends whatever is available internally, up to the amount.
	InternalTolerant
)

// String returns the mode name.
func (m From) String() string {
	switch m {
	case External:
		return "EXTERNAL"
	case Internal:
		return "INTERNAL"
	case ExternalInternal:
		return "EXTERNAL_INTERNAL"
	case InternalTolerant:
		return "INTERNAL_TOLERANT"
	default:
		return fmt.Sprintf("From(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m From) Valid() bool {
	return m <= InternalTolerant
}

// To selects the balance a protocol call delivers to.
type To uint8

const (
	// ToExternal delivers to the recipient's wallet.
	ToExternal To = iota

	// ToInternal delivers to the recipient's internal protocol balance.
	ToInternal
)

// String returns the mode name.
func (m To) String() string {
	switch m {
	case ToExternal:
		return "EXTERNAL"
	case ToInternal:
		return "INTERNAL"
	default:
		return fmt.Sprintf("To(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m To) Valid() bool {
	return m <= ToInternal
}
