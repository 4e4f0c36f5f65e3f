package events

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/branched-services/go-hooliganhorde/tokens"
)

// TokenLookup resolves event token addresses. *tokens.Registry implements it.
type TokenLookup interface {
	FindByAddress(addr common.Address) (*tokens.Token, bool)
}

// Params fixes the context events are processed in.
type Params struct {
	Season    uint32
	Whitelist []*tokens.Token
}

// DepositCrateRaw is the running total of one deposit bucket.
type DepositCrateRaw struct {
	Amount *big.Int
	BDV    *big.Int
}

// WithdrawalCrateRaw is the running total of one withdrawal bucket.
type WithdrawalCrateRaw struct {
	Amount *big.Int
}

// Data is the ledger built by a Processor.
type Data struct {
	Plots       *PlotLine
	Deposits    map[*tokens.Token]map[uint32]DepositCrateRaw
	Withdrawals map[*tokens.Token]map[uint32]WithdrawalCrateRaw
	Listings    map[string]*Listing
	Orders      map[string]*Order
}

// NewData returns an empty ledger with a bucket map per whitelisted token.
func NewData(whitelist []*tokens.Token) *Data {
	d := &Data{
		Plots:       &PlotLine{},
		Deposits:    make(map[*tokens.Token]map[uint32]DepositCrateRaw, len(whitelist)),
		Withdrawals: make(map[*tokens.Token]map[uint32]WithdrawalCrateRaw, len(whitelist)),
		Listings:    make(map[string]*Listing),
		Orders:      make(map[string]*Order),
	}
	for _, t := range whitelist {
		d.Deposits[t] = make(map[uint32]DepositCrateRaw)
		d.Withdrawals[t] = make(map[uint32]WithdrawalCrateRaw)
	}
	return d
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	out := &Data{
		Plots:       &PlotLine{},
		Deposits:    make(map[*tokens.Token]map[uint32]DepositCrateRaw, len(d.Deposits)),
		Withdrawals: make(map[*tokens.Token]map[uint32]WithdrawalCrateRaw, len(d.Withdrawals)),
		Listings:    make(map[string]*Listing, len(d.Listings)),
		Orders:      make(map[string]*Order, len(d.Orders)),
	}
	if d.Plots != nil {
		out.Plots = d.Plots.Clone()
	}
	for t, buckets := range d.Deposits {
		out.Deposits[t] = cloneDeposits(buckets)
	}
	for t, buckets := range d.Withdrawals {
		c := make(map[uint32]WithdrawalCrateRaw, len(buckets))
		for s, w := range buckets {
			c[s] = WithdrawalCrateRaw{Amount: cloneInt(w.Amount)}
		}
		out.Withdrawals[t] = c
	}
	for id, l := range d.Listings {
		out.Listings[id] = l.clone()
	}
	for id, o := range d.Orders {
		out.Orders[id] = o.clone()
	}
	return out
}

func cloneDeposits(buckets map[uint32]DepositCrateRaw) map[uint32]DepositCrateRaw {
	c := make(map[uint32]DepositCrateRaw, len(buckets))
	for s, d := range buckets {
		c[s] = DepositCrateRaw{Amount: cloneInt(d.Amount), BDV: cloneInt(d.BDV)}
	}
	return c
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithInitialData starts the processor from a copy of d instead of an
// empty ledger.
func WithInitialData(d *Data) ProcessorOption {
	return func(p *Processor) {
		p.data = d.Clone()
	}
}

// WithProcessorLogger sets the logger. Default is the root logger.
func WithProcessorLogger(l log.Logger) ProcessorOption {
	return func(p *Processor) {
		p.log = l
	}
}

// Processor folds events in chain order into a ledger for one account.
// It is not safe for concurrent use.
type Processor struct {
	lookup    TokenLookup
	account   common.Address
	params    Params
	whitelist map[*tokens.Token]struct{}
	data      *Data
	log       log.Logger
}

// NewProcessor creates a processor for account.
func NewProcessor(lookup TokenLookup, account common.Address, params Params, opts ...ProcessorOption) (*Processor, error) {
	if len(params.Whitelist) == 0 {
		return nil, ErrMissingWhitelist
	}
	p := &Processor{
		lookup:    lookup,
		account:   account,
		params:    params,
		whitelist: make(map[*tokens.Token]struct{}, len(params.Whitelist)),
		log:       log.Root(),
	}
	for _, t := range params.Whitelist {
		p.whitelist[t] = struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.data == nil {
		p.data = NewData(params.Whitelist)
	}
	for _, t := range params.Whitelist {
		if p.data.Deposits[t] == nil {
			p.data.Deposits[t] = make(map[uint32]DepositCrateRaw)
		}
		if p.data.Withdrawals[t] == nil {
			p.data.Withdrawals[t] = make(map[uint32]WithdrawalCrateRaw)
		}
	}
	p.log = p.log.New("processor", account.Hex())
	return p, nil
}

// Account returns the account whose ledger is built.
func (p *Processor) Account() common.Address {
	return p.account
}

// Params returns the processing parameters.
func (p *Processor) Params() Params {
	return p.params
}

// Data returns the ledger. It is owned by the processor and changes with
// every ingested event; use Clone to keep a snapshot.
func (p *Processor) Data() *Data {
	return p.data
}

// Ingest applies one event. Unsupported kinds are ignored. A failing event
// leaves the ledger unchanged.
func (p *Processor) Ingest(e Event) error {
	var err error
	switch a := e.Args.(type) {
	case AddDeposit:
		err = p.addDeposit(a)
	case RemoveDeposit:
		err = p.removeDeposits(KindRemoveDeposit, a.Token, []uint32{a.Season}, []*big.Int{a.Amount})
	case RemoveDeposits:
		if len(a.Seasons) != len(a.Amounts) {
			err = fmt.Errorf("%w: %d seasons, %d amounts", ErrMalformedEvent, len(a.Seasons), len(a.Amounts))
			break
		}
		err = p.removeDeposits(KindRemoveDeposits, a.Token, a.Seasons, a.Amounts)
	case AddWithdrawal:
		err = p.addWithdrawal(a)
	case RemoveWithdrawal:
		err = p.removeWithdrawals(KindRemoveWithdrawal, a.Token, []uint32{a.Season}, a.Amount)
	case RemoveWithdrawals:
		err = p.removeWithdrawals(KindRemoveWithdrawals, a.Token, a.Seasons, a.Amount)
	case Sow:
		p.data.Plots.Set(a.Index, a.Rookies)
	case Draft:
		err = p.data.Plots.Draft(a.Plots, a.Hooligans)
	case PlotTransfer:
		err = p.plotTransfer(a)
	case RookieListingCreated:
		p.listingCreated(a)
	case RookieListingCancelled:
		p.listingCancelled(a)
	case RookieListingFilled:
		p.listingFilled(a)
	case RookieOrderCreated:
		p.orderCreated(a)
	case RookieOrderCancelled:
		p.orderCancelled(a)
	case RookieOrderFilled:
		p.orderFilled(a)
	default:
		p.log.Trace("Ignoring event", "kind", e.Kind(), "block", e.BlockNumber, "log", e.LogIndex)
		return nil
	}
	if err != nil {
		return fmt.Errorf("events: %s at block %d log %d: %w", e.Kind(), e.BlockNumber, e.LogIndex, err)
	}
	return nil
}

// IngestAll applies events in order and returns the ledger. Processing
// stops at the first failing event.
func (p *Processor) IngestAll(events []Event) (*Data, error) {
	for _, e := range events {
		if err := p.Ingest(e); err != nil {
			return nil, err
		}
	}
	p.log.Debug("Processed events", "count", len(events), "plots", p.data.Plots.Len(),
		"listings", len(p.data.Listings), "orders", len(p.data.Orders))
	return p.data, nil
}

// lookupToken resolves addr through the registry. season names the bucket
// the event targets, for error reporting.
func (p *Processor) lookupToken(kind Kind, addr common.Address, season uint32) (*tokens.Token, bool, error) {
	t, ok := p.lookup.FindByAddress(addr)
	if !ok {
		return nil, false, &BucketError{Kind: kind, Token: addr, Season: season, Err: ErrUnknownAsset}
	}
	_, listed := p.whitelist[t]
	return t, listed, nil
}

// token resolves addr and requires it to be whitelisted.
func (p *Processor) token(kind Kind, addr common.Address, season uint32) (*tokens.Token, error) {
	t, listed, err := p.lookupToken(kind, addr, season)
	if err != nil {
		return nil, err
	}
	if !listed {
		return nil, &BucketError{Kind: kind, Token: addr, Season: season, Err: ErrUnknownAsset}
	}
	return t, nil
}

func (p *Processor) addDeposit(a AddDeposit) error {
	t, err := p.token(KindAddDeposit, a.Token, a.Season)
	if err != nil {
		return err
	}
	buckets := p.data.Deposits[t]
	next := DepositCrateRaw{Amount: cloneInt(a.Amount), BDV: cloneInt(a.BDV)}
	if have, ok := buckets[a.Season]; ok {
		next.Amount.Add(next.Amount, have.Amount)
		next.BDV.Add(next.BDV, have.BDV)
	}
	buckets[a.Season] = next
	return nil
}

// removeDeposits applies every removal to a scratch copy of the token's
// buckets and commits only when all succeed. The bdv removed scales with
// the share of the bucket amount removed.
func (p *Processor) removeDeposits(kind Kind, tokenAddr common.Address, seasons []uint32, amounts []*big.Int) error {
	t, err := p.token(kind, tokenAddr, firstSeason(seasons))
	if err != nil {
		return err
	}
	scratch := cloneDeposits(p.data.Deposits[t])
	for i, season := range seasons {
		amount := amounts[i]
		have, ok := scratch[season]
		if !ok {
			return &BucketError{Kind: kind, Token: tokenAddr, Season: season, Err: ErrUnknownDepositBucket}
		}
		if amount.Cmp(have.Amount) > 0 {
			return &BucketError{Kind: kind, Token: tokenAddr, Season: season, Err: ErrDepositUnderflow}
		}
		bdv := new(big.Int)
		if have.Amount.Sign() != 0 {
			bdv.Mul(amount, have.BDV)
			bdv.Quo(bdv, have.Amount)
		}
		rest := new(big.Int).Sub(have.Amount, amount)
		if rest.Sign() == 0 {
			delete(scratch, season)
			continue
		}
		scratch[season] = DepositCrateRaw{Amount: rest, BDV: new(big.Int).Sub(have.BDV, bdv)}
	}
	p.data.Deposits[t] = scratch
	return nil
}

func (p *Processor) addWithdrawal(a AddWithdrawal) error {
	t, err := p.token(KindAddWithdrawal, a.Token, a.Season)
	if err != nil {
		return err
	}
	buckets := p.data.Withdrawals[t]
	next := cloneInt(a.Amount)
	if have, ok := buckets[a.Season]; ok {
		next.Add(next, have.Amount)
	}
	buckets[a.Season] = WithdrawalCrateRaw{Amount: next}
	return nil
}

// removeWithdrawals deletes whole season buckets. The contract emits a zero
// amount when nothing was claimable; such events change nothing, and
// neither do removals of tokens off the whitelist.
func (p *Processor) removeWithdrawals(kind Kind, tokenAddr common.Address, seasons []uint32, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	t, listed, err := p.lookupToken(kind, tokenAddr, firstSeason(seasons))
	if err != nil {
		return err
	}
	if !listed {
		p.log.Trace("Ignoring withdrawal removal", "kind", kind, "token", t.Symbol)
		return nil
	}
	buckets := p.data.Withdrawals[t]
	for _, season := range seasons {
		if _, ok := buckets[season]; !ok {
			return &BucketError{Kind: kind, Token: tokenAddr, Season: season, Err: ErrUnknownWithdrawalBucket}
		}
	}
	for _, season := range seasons {
		delete(buckets, season)
	}
	return nil
}

// plotTransfer applies a transfer involving the account. Transfers between
// other accounts are ignored.
func (p *Processor) plotTransfer(a PlotTransfer) error {
	switch p.account {
	case a.To:
		p.data.Plots.Receive(a.ID, a.Rookies)
		return nil
	case a.From:
		return p.data.Plots.Send(a.ID, a.Rookies)
	}
	return nil
}

func firstSeason(seasons []uint32) uint32 {
	if len(seasons) == 0 {
		return 0
	}
	return seasons[0]
}
