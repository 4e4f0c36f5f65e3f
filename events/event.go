// Package events reconstructs an account's protocol ledger from chain
// events. Logs are fetched concurrently, decoded into a closed set of
// typed event arguments, put into chain order and folded by a Processor
// into deposits, withdrawals, plots, listings and orders.
package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/mode"
)

// Kind is the on-chain event name.
type Kind string

const (
	KindAddDeposit             Kind = "AddDeposit"
	KindRemoveDeposit          Kind = "RemoveDeposit"
	KindRemoveDeposits         Kind = "RemoveDeposits"
	KindAddWithdrawal          Kind = "AddWithdrawal"
	KindRemoveWithdrawal       Kind = "RemoveWithdrawal"
	KindRemoveWithdrawals      Kind = "RemoveWithdrawals"
	KindSow                    Kind = "Sow"
	KindDraft                  Kind = "Draft"
	KindPlotTransfer           Kind = "PlotTransfer"
	KindRookieListingCreated   Kind = "RookieListingCreated"
	KindRookieListingCancelled Kind = "RookieListingCancelled"
	KindRookieListingFilled    Kind = "RookieListingFilled"
	KindRookieOrderCreated     Kind = "RookieOrderCreated"
	KindRookieOrderCancelled   Kind = "RookieOrderCancelled"
	KindRookieOrderFilled      Kind = "RookieOrderFilled"
)

// Event is a decoded log with its position in the chain.
type Event struct {
	Args             Args
	Address          common.Address
	BlockNumber      uint64
	TransactionIndex uint
	TransactionHash  common.Hash
	LogIndex         uint
}

// Kind returns the kind of the event arguments, or "" when there are none.
func (e Event) Kind() Kind {
	if e.Args == nil {
		return ""
	}
	return e.Args.Kind()
}

// Before reports whether e precedes o in chain order.
func (e Event) Before(o Event) bool {
	if e.BlockNumber != o.BlockNumber {
		return e.BlockNumber < o.BlockNumber
	}
	if e.TransactionIndex != o.TransactionIndex {
		return e.TransactionIndex < o.TransactionIndex
	}
	return e.LogIndex < o.LogIndex
}

// Args is implemented by the argument types of every supported event.
type Args interface {
	Kind() Kind
	isArgs()
}

// AddDeposit credits a deposit bucket.
type AddDeposit struct {
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
	BDV     *big.Int
}

// RemoveDeposit debits one deposit bucket.
type RemoveDeposit struct {
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
}

// RemoveDeposits debits several deposit buckets of one token. Amounts holds
// one entry per season; Amount is their total.
type RemoveDeposits struct {
	Account common.Address
	Token   common.Address
	Seasons []uint32
	Amounts []*big.Int
	Amount  *big.Int
}

// AddWithdrawal credits a withdrawal bucket.
type AddWithdrawal struct {
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
}

// RemoveWithdrawal claims a withdrawal bucket.
type RemoveWithdrawal struct {
	Account common.Address
	Token   common.Address
	Season  uint32
	Amount  *big.Int
}

// RemoveWithdrawals claims several withdrawal buckets of one token.
type RemoveWithdrawals struct {
	Account common.Address
	Token   common.Address
	Seasons []uint32
	Amount  *big.Int
}

// Sow creates a plot.
type Sow struct {
	Account   common.Address
	Index     *big.Int
	Hooligans *big.Int
	Rookies   *big.Int
}

// Draft consumes plots that reached the draftable index.
type Draft struct {
	Account   common.Address
	Plots     []*big.Int
	Hooligans *big.Int
}

// PlotTransfer moves rookies starting at ID between accounts.
type PlotTransfer struct {
	From    common.Address
	To      common.Address
	ID      *big.Int
	Rookies *big.Int
}

// RookieListingCreated lists part of a plot for sale.
type RookieListingCreated struct {
	Account           common.Address
	Index             *big.Int
	Start             *big.Int
	Amount            *big.Int
	PricePerRookie    *big.Int
	MaxDraftableIndex *big.Int
	Mode              mode.To
}

// RookieListingCancelled removes a listing.
type RookieListingCancelled struct {
	Account common.Address
	Index   *big.Int
}

// RookieListingFilled sells part of a listing.
type RookieListingFilled struct {
	From   common.Address
	To     common.Address
	Index  *big.Int
	Start  *big.Int
	Amount *big.Int
}

// RookieOrderCreated places a buy order.
type RookieOrderCreated struct {
	Account        common.Address
	ID             [32]byte
	Amount         *big.Int
	PricePerRookie *big.Int
	MaxPlaceInLine *big.Int
}

// RookieOrderCancelled removes an order.
type RookieOrderCancelled struct {
	Account common.Address
	ID      [32]byte
}

// RookieOrderFilled fills part of an order.
type RookieOrderFilled struct {
	From   common.Address
	To     common.Address
	ID     [32]byte
	Index  *big.Int
	Start  *big.Int
	Amount *big.Int
}

// Unknown carries a log the decoder has no type for.
type Unknown struct {
	Name  string
	Topic common.Hash
}

func (AddDeposit) Kind() Kind             { return KindAddDeposit }
func (RemoveDeposit) Kind() Kind          { return KindRemoveDeposit }
func (RemoveDeposits) Kind() Kind         { return KindRemoveDeposits }
func (AddWithdrawal) Kind() Kind          { return KindAddWithdrawal }
func (RemoveWithdrawal) Kind() Kind       { return KindRemoveWithdrawal }
func (RemoveWithdrawals) Kind() Kind      { return KindRemoveWithdrawals }
func (Sow) Kind() Kind                    { return KindSow }
func (Draft) Kind() Kind                  { return KindDraft }
func (PlotTransfer) Kind() Kind           { return KindPlotTransfer }
func (RookieListingCreated) Kind() Kind   { return KindRookieListingCreated }
func (RookieListingCancelled) Kind() Kind { return KindRookieListingCancelled }
func (RookieListingFilled) Kind() Kind    { return KindRookieListingFilled }
func (RookieOrderCreated) Kind() Kind     { return KindRookieOrderCreated }
func (RookieOrderCancelled) Kind() Kind   { return KindRookieOrderCancelled }
func (RookieOrderFilled) Kind() Kind      { return KindRookieOrderFilled }
func (u Unknown) Kind() Kind              { return Kind(u.Name) }

func (AddDeposit) isArgs()             {}
func (RemoveDeposit) isArgs()          {}
func (RemoveDeposits) isArgs()         {}
func (AddWithdrawal) isArgs()          {}
func (RemoveWithdrawal) isArgs()       {}
func (RemoveWithdrawals) isArgs()      {}
func (Sow) isArgs()                    {}
func (Draft) isArgs()                  {}
func (PlotTransfer) isArgs()           {}
func (RookieListingCreated) isArgs()   {}
func (RookieListingCancelled) isArgs() {}
func (RookieListingFilled) isArgs()    {}
func (RookieOrderCreated) isArgs()     {}
func (RookieOrderCancelled) isArgs()   {}
func (RookieOrderFilled) isArgs()      {}
func (Unknown) isArgs()                {}
