package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/mode"
)

// MarketStatus is the lifecycle state of a listing or order.
type MarketStatus string

const (
	StatusActive    MarketStatus = "ACTIVE"
	StatusCancelled MarketStatus = "CANCELLED"
	StatusFilled    MarketStatus = "FILLED"
)

// Listing is an offer to sell rookies from a plot. ID is the plot index in
// decimal.
type Listing struct {
	ID                string
	Account           common.Address
	Index             *big.Int
	Start             *big.Int
	PricePerRookie    *big.Int
	MaxDraftableIndex *big.Int
	Mode              mode.To
	Amount            *big.Int
	TotalAmount       *big.Int
	RemainingAmount   *big.Int
	FilledAmount      *big.Int
	Status            MarketStatus
}

func (l *Listing) clone() *Listing {
	c := *l
	c.Index = cloneInt(l.Index)
	c.Start = cloneInt(l.Start)
	c.PricePerRookie = cloneInt(l.PricePerRookie)
	c.MaxDraftableIndex = cloneInt(l.MaxDraftableIndex)
	c.Amount = cloneInt(l.Amount)
	c.TotalAmount = cloneInt(l.TotalAmount)
	c.RemainingAmount = cloneInt(l.RemainingAmount)
	c.FilledAmount = cloneInt(l.FilledAmount)
	return &c
}

// Order is an offer to buy rookies. ID is the hex order id.
type Order struct {
	ID              string
	Account         common.Address
	MaxPlaceInLine  *big.Int
	PricePerRookie  *big.Int
	TotalAmount     *big.Int
	RemainingAmount *big.Int
	FilledAmount    *big.Int
	Status          MarketStatus
}

func (o *Order) clone() *Order {
	c := *o
	c.MaxPlaceInLine = cloneInt(o.MaxPlaceInLine)
	c.PricePerRookie = cloneInt(o.PricePerRookie)
	c.TotalAmount = cloneInt(o.TotalAmount)
	c.RemainingAmount = cloneInt(o.RemainingAmount)
	c.FilledAmount = cloneInt(o.FilledAmount)
	return &c
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func orderID(id [32]byte) string {
	return common.Hash(id).Hex()
}

func (p *Processor) listingCreated(a RookieListingCreated) {
	id := a.Index.String()
	p.data.Listings[id] = &Listing{
		ID:                id,
		Account:           a.Account,
		Index:             cloneInt(a.Index),
		Start:             cloneInt(a.Start),
		PricePerRookie:    cloneInt(a.PricePerRookie),
		MaxDraftableIndex: cloneInt(a.MaxDraftableIndex),
		Mode:              a.Mode,
		Amount:            cloneInt(a.Amount),
		TotalAmount:       cloneInt(a.Amount),
		RemainingAmount:   cloneInt(a.Amount),
		FilledAmount:      new(big.Int),
		Status:            StatusActive,
	}
}

func (p *Processor) listingCancelled(a RookieListingCancelled) {
	delete(p.data.Listings, a.Index.String())
}

// listingFilled moves the listing to the index after the sold range. Fills
// of listings not in the ledger are ignored.
func (p *Processor) listingFilled(a RookieListingFilled) {
	prev := a.Index.String()
	l, ok := p.data.Listings[prev]
	if !ok {
		return
	}
	delete(p.data.Listings, prev)

	next := new(big.Int).Add(a.Index, a.Start)
	next.Add(next, a.Amount)
	l.ID = next.String()
	l.Index = next
	l.Start = new(big.Int)
	l.FilledAmount = new(big.Int).Add(l.FilledAmount, a.Amount)
	l.RemainingAmount = new(big.Int).Sub(l.TotalAmount, l.FilledAmount)
	if l.RemainingAmount.Sign() <= 0 {
		l.Status = StatusFilled
	}
	p.data.Listings[l.ID] = l
}

func (p *Processor) orderCreated(a RookieOrderCreated) {
	id := orderID(a.ID)
	p.data.Orders[id] = &Order{
		ID:              id,
		Account:         a.Account,
		MaxPlaceInLine:  cloneInt(a.MaxPlaceInLine),
		PricePerRookie:  cloneInt(a.PricePerRookie),
		TotalAmount:     cloneInt(a.Amount),
		RemainingAmount: cloneInt(a.Amount),
		FilledAmount:    new(big.Int),
		Status:          StatusActive,
	}
}

func (p *Processor) orderCancelled(a RookieOrderCancelled) {
	delete(p.data.Orders, orderID(a.ID))
}

func (p *Processor) orderFilled(a RookieOrderFilled) {
	o, ok := p.data.Orders[orderID(a.ID)]
	if !ok {
		return
	}
	o.FilledAmount = new(big.Int).Add(o.FilledAmount, a.Amount)
	o.RemainingAmount = new(big.Int).Sub(o.TotalAmount, o.FilledAmount)
	if o.RemainingAmount.Sign() <= 0 {
		o.Status = StatusFilled
	}
}
