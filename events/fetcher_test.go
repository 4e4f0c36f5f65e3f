package events

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branched-services/go-hooliganhorde/internal/chaintest"
	"github.com/branched-services/go-hooliganhorde/tokens"
)

func positioned(l types.Log, block uint64, txIndex, index uint) types.Log {
	l.BlockNumber, l.TxIndex, l.Index = block, txIndex, index
	l.TxHash = common.BigToHash(new(big.Int).SetUint64(block*1000 + uint64(txIndex)))
	return l
}

func TestFetcherFirmEvents(t *testing.T) {
	hooligan := tokens.MustDefault().MustFind("HOOLIGAN")
	filterer := &chaintest.Filterer{Logs: []types.Log{
		positioned(eventLog("RemoveDeposit", []any{account, hooligan.Address}, uint32(1), big.NewInt(4)), 20, 0, 3),
		positioned(eventLog("AddDeposit", []any{account, hooligan.Address}, uint32(1), big.NewInt(10), big.NewInt(10)), 20, 0, 1),
		positioned(eventLog("AddWithdrawal", []any{account, hooligan.Address}, uint32(2), big.NewInt(5)), 10, 4, 0),
		positioned(eventLog("AddDeposit", []any{other, hooligan.Address}, uint32(1), big.NewInt(99), big.NewInt(99)), 11, 0, 0),
		positioned(eventLog("Sow", []any{account}, big.NewInt(1), big.NewInt(1), big.NewInt(1)), 12, 0, 0),
	}}

	f := NewFetcher(filterer, protocolAddr, protocolABI)
	evs, err := f.FirmEvents(context.Background(), account, nil, BlockRange{})
	require.NoError(t, err)

	kinds := make([]Kind, len(evs))
	for i, e := range evs {
		kinds[i] = e.Kind()
	}
	assert.Equal(t, []Kind{KindAddWithdrawal, KindAddDeposit, KindRemoveDeposit}, kinds)

	queries := filterer.Queries()
	require.Len(t, queries, 6)
	for _, q := range queries {
		assert.Equal(t, new(big.Int).SetUint64(GenesisBlock), q.FromBlock)
		assert.Nil(t, q.ToBlock)
		assert.Equal(t, []common.Address{protocolAddr}, q.Addresses)
		require.Len(t, q.Topics, 2)
	}

	reg := tokens.MustDefault()
	p, err := NewProcessor(reg, account, Params{Season: 3, Whitelist: reg.Whitelist()})
	require.NoError(t, err)
	data, err := p.IngestAll(evs)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6), data.Deposits[reg.MustFind("HOOLIGAN")][1].Amount)
}

func TestFetcherTokenFilterAndRange(t *testing.T) {
	hooligan := tokens.MustDefault().MustFind("HOOLIGAN")
	lp := tokens.MustDefault().MustFind("HOOLIGAN3CRV")
	filterer := &chaintest.Filterer{Logs: []types.Log{
		positioned(eventLog("AddDeposit", []any{account, hooligan.Address}, uint32(1), big.NewInt(1), big.NewInt(1)), 5, 0, 0),
		positioned(eventLog("AddDeposit", []any{account, lp.Address}, uint32(1), big.NewInt(1), big.NewInt(1)), 6, 0, 0),
		positioned(eventLog("AddDeposit", []any{account, lp.Address}, uint32(2), big.NewInt(1), big.NewInt(1)), 50, 0, 0),
	}}

	f := NewFetcher(filterer, protocolAddr, protocolABI, WithStartBlocks(StartBlocks{}))
	evs, err := f.FirmEvents(context.Background(), account, &lp.Address, BlockRange{To: big.NewInt(10)})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(6), evs[0].BlockNumber)

	for _, q := range filterer.Queries() {
		assert.Len(t, q.Topics, 3)
		assert.Equal(t, big.NewInt(0), q.FromBlock)
	}
}

func TestFetcherFieldEventsDeduplicates(t *testing.T) {
	self := positioned(eventLog("PlotTransfer", []any{account, account, big.NewInt(5)}, big.NewInt(1)), 30, 1, 2)
	filterer := &chaintest.Filterer{Logs: []types.Log{
		self,
		positioned(eventLog("PlotTransfer", []any{other, account, big.NewInt(9)}, big.NewInt(1)), 29, 0, 0),
		positioned(eventLog("Sow", []any{account}, big.NewInt(5), big.NewInt(1), big.NewInt(1)), 28, 0, 0),
	}}

	f := NewFetcher(filterer, protocolAddr, protocolABI)
	evs, err := f.FieldEvents(context.Background(), account, BlockRange{})
	require.NoError(t, err)
	require.Len(t, evs, 3, "a transfer to self matches both queries but appears once")
	assert.Equal(t, KindSow, evs[0].Kind())
	assert.Equal(t, uint64(30), evs[2].BlockNumber)
	assert.Len(t, filterer.Queries(), 4)
}

func TestFetcherMarketStart(t *testing.T) {
	filterer := &chaintest.Filterer{}
	f := NewFetcher(filterer, protocolAddr, protocolABI)
	_, err := f.MarketEvents(context.Background(), account, BlockRange{})
	require.NoError(t, err)

	queries := filterer.Queries()
	require.Len(t, queries, 6)
	for _, q := range queries {
		assert.Equal(t, new(big.Int).SetUint64(MarketLaunchBlock), q.FromBlock)
	}
}

func TestFetcherError(t *testing.T) {
	boom := errors.New("node down")
	f := NewFetcher(&chaintest.Filterer{Err: boom}, protocolAddr, protocolABI)
	_, err := f.FieldEvents(context.Background(), account, BlockRange{})
	assert.ErrorIs(t, err, boom)
}

func TestMergeLogs(t *testing.T) {
	a := types.Log{BlockNumber: 2, TxIndex: 0, Index: 5, TxHash: common.HexToHash("0x02")}
	b := types.Log{BlockNumber: 1, TxIndex: 3, Index: 1, TxHash: common.HexToHash("0x01")}
	c := types.Log{BlockNumber: 1, TxIndex: 3, Index: 0, TxHash: common.HexToHash("0x01")}
	removed := types.Log{BlockNumber: 0, TxHash: common.HexToHash("0x03"), Removed: true}

	out := MergeLogs([]types.Log{a, b}, []types.Log{c, a, removed})
	assert.Equal(t, []types.Log{c, b, a}, out)
}

func TestSortEvents(t *testing.T) {
	evs := []Event{
		{BlockNumber: 2, LogIndex: 0},
		{BlockNumber: 1, TransactionIndex: 1, LogIndex: 0},
		{BlockNumber: 1, TransactionIndex: 0, LogIndex: 7},
	}
	SortEvents(evs)
	assert.Equal(t, uint(7), evs[0].LogIndex)
	assert.Equal(t, uint(1), evs[1].TransactionIndex)
	assert.Equal(t, uint64(2), evs[2].BlockNumber)
}
