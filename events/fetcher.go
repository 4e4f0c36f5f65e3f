package events

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
)

// LogFilterer is the subset of a chain client needed to query logs.
// *ethclient.Client implements it.
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Mainnet start blocks for event queries.
const (
	GenesisBlock      uint64 = 12974075
	MarketLaunchBlock uint64 = 14148509
)

// StartBlocks are the first blocks searched when a range has no start.
type StartBlocks struct {
	Genesis uint64
	Market  uint64
}

// BlockRange bounds a query. A nil From uses the default start block; a nil
// To means the latest block.
type BlockRange struct {
	From *big.Int
	To   *big.Int
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithStartBlocks overrides the default start blocks.
func WithStartBlocks(s StartBlocks) FetcherOption {
	return func(f *Fetcher) {
		f.starts = s
	}
}

// WithFetcherLogger sets the logger. Default is the root logger.
func WithFetcherLogger(l log.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = l
	}
}

// Fetcher queries the protocol's event logs for an account.
type Fetcher struct {
	filterer LogFilterer
	address  common.Address
	abi      abi.ABI
	decoder  *Decoder
	starts   StartBlocks
	log      log.Logger
}

// NewFetcher creates a fetcher for the protocol at address. contractABI must
// declare the events being queried.
func NewFetcher(filterer LogFilterer, address common.Address, contractABI abi.ABI, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		filterer: filterer,
		address:  address,
		abi:      contractABI,
		decoder:  NewDecoder(contractABI),
		starts:   StartBlocks{Genesis: GenesisBlock, Market: MarketLaunchBlock},
		log:      log.Root(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.New("fetcher", address.Hex())
	return f
}

// query is one log filter: an event and the topics after its signature.
type query struct {
	kind   Kind
	topics [][]common.Hash
}

func addressTopic(a common.Address) []common.Hash {
	return []common.Hash{common.BytesToHash(a.Bytes())}
}

// FirmEvents returns the deposit and withdrawal events of account in chain
// order. A nil token matches every token.
func (f *Fetcher) FirmEvents(ctx context.Context, account common.Address, token *common.Address, r BlockRange) ([]Event, error) {
	topics := [][]common.Hash{addressTopic(account)}
	if token != nil {
		topics = append(topics, addressTopic(*token))
	}
	kinds := []Kind{
		KindAddDeposit, KindAddWithdrawal, KindRemoveWithdrawal,
		KindRemoveWithdrawals, KindRemoveDeposit, KindRemoveDeposits,
	}
	qs := make([]query, len(kinds))
	for i, k := range kinds {
		qs[i] = query{kind: k, topics: topics}
	}
	return f.fetch(ctx, qs, r, f.starts.Genesis)
}

// FieldEvents returns the sow, draft and plot transfer events involving
// account in chain order.
func (f *Fetcher) FieldEvents(ctx context.Context, account common.Address, r BlockRange) ([]Event, error) {
	acct := addressTopic(account)
	qs := []query{
		{kind: KindSow, topics: [][]common.Hash{acct}},
		{kind: KindDraft, topics: [][]common.Hash{acct}},
		{kind: KindPlotTransfer, topics: [][]common.Hash{acct}},
		{kind: KindPlotTransfer, topics: [][]common.Hash{nil, acct}},
	}
	return f.fetch(ctx, qs, r, f.starts.Genesis)
}

// MarketEvents returns the listing and order events of account in chain
// order. Fills are matched on the filled side.
func (f *Fetcher) MarketEvents(ctx context.Context, account common.Address, r BlockRange) ([]Event, error) {
	acct := addressTopic(account)
	qs := []query{
		{kind: KindRookieListingCreated, topics: [][]common.Hash{acct}},
		{kind: KindRookieListingCancelled, topics: [][]common.Hash{acct}},
		{kind: KindRookieListingFilled, topics: [][]common.Hash{nil, acct}},
		{kind: KindRookieOrderCreated, topics: [][]common.Hash{acct}},
		{kind: KindRookieOrderCancelled, topics: [][]common.Hash{acct}},
		{kind: KindRookieOrderFilled, topics: [][]common.Hash{nil, acct}},
	}
	return f.fetch(ctx, qs, r, f.starts.Market)
}

// fetch runs every query concurrently, then merges the results into one
// de-duplicated list in chain order before decoding.
func (f *Fetcher) fetch(ctx context.Context, qs []query, r BlockRange, defaultStart uint64) ([]Event, error) {
	from := r.From
	if from == nil {
		from = new(big.Int).SetUint64(defaultStart)
	}

	filters := make([]ethereum.FilterQuery, len(qs))
	for i, q := range qs {
		ev, ok := f.abi.Events[string(q.kind)]
		if !ok {
			return nil, fmt.Errorf("events: no %s event in ABI", q.kind)
		}
		filters[i] = ethereum.FilterQuery{
			FromBlock: from,
			ToBlock:   r.To,
			Addresses: []common.Address{f.address},
			Topics:    append([][]common.Hash{{ev.ID}}, q.topics...),
		}
	}

	results := make([][]types.Log, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range filters {
		g.Go(func() error {
			logs, err := f.filterer.FilterLogs(gctx, filters[i])
			if err != nil {
				return fmt.Errorf("events: query %s: %w", qs[i].kind, err)
			}
			results[i] = logs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := MergeLogs(results...)
	f.log.Debug("Fetched logs", "queries", len(qs), "logs", len(merged), "from", from, "to", r.To)
	return f.decoder.DecodeAll(merged)
}

type logKey struct {
	tx    common.Hash
	index uint
}

// MergeLogs flattens log lists, drops duplicates and removed logs, and
// sorts by block number, transaction index and log index.
func MergeLogs(lists ...[]types.Log) []types.Log {
	seen := make(map[logKey]struct{})
	var out []types.Log
	for _, logs := range lists {
		for _, l := range logs {
			if l.Removed {
				continue
			}
			k := logKey{tx: l.TxHash, index: l.Index}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BlockNumber != b.BlockNumber {
			return a.BlockNumber < b.BlockNumber
		}
		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}
		return a.Index < b.Index
	})
	return out
}

// SortEvents orders events by chain position.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Before(events[j])
	})
}
