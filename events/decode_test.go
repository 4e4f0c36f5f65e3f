package events

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/internal/chaintest"
	"github.com/branched-services/go-hooliganhorde/mode"
)

var (
	protocolABI  = contracts.MustParseABI(contracts.ProtocolABI)
	protocolAddr = contracts.MainnetAddresses().Protocol
	tokenAddr    = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

func eventLog(name string, indexed []any, data ...any) types.Log {
	return chaintest.EventLog(protocolABI, protocolAddr, name, indexed, data...)
}

func TestDecode(t *testing.T) {
	orderKey := [32]byte{0xaa, 0xbb}

	tests := []struct {
		name string
		log  types.Log
		want Args
	}{
		{
			"AddDeposit",
			eventLog("AddDeposit", []any{account, tokenAddr}, uint32(6074), big.NewInt(1000), big.NewInt(990)),
			AddDeposit{Account: account, Token: tokenAddr, Season: 6074, Amount: big.NewInt(1000), BDV: big.NewInt(990)},
		},
		{
			"RemoveDeposits",
			eventLog("RemoveDeposits", []any{account, tokenAddr}, []uint32{1, 2}, []*big.Int{big.NewInt(3), big.NewInt(4)}, big.NewInt(7)),
			RemoveDeposits{Account: account, Token: tokenAddr, Seasons: []uint32{1, 2}, Amounts: []*big.Int{big.NewInt(3), big.NewInt(4)}, Amount: big.NewInt(7)},
		},
		{
			"RemoveWithdrawals",
			eventLog("RemoveWithdrawals", []any{account, tokenAddr}, []uint32{9}, big.NewInt(5)),
			RemoveWithdrawals{Account: account, Token: tokenAddr, Seasons: []uint32{9}, Amount: big.NewInt(5)},
		},
		{
			"PlotTransfer",
			eventLog("PlotTransfer", []any{account, other, big.NewInt(777)}, big.NewInt(12)),
			PlotTransfer{From: account, To: other, ID: big.NewInt(777), Rookies: big.NewInt(12)},
		},
		{
			"Draft",
			eventLog("Draft", []any{account}, []*big.Int{big.NewInt(1), big.NewInt(2)}, big.NewInt(3)),
			Draft{Account: account, Plots: []*big.Int{big.NewInt(1), big.NewInt(2)}, Hooligans: big.NewInt(3)},
		},
		{
			"RookieListingCreated",
			eventLog("RookieListingCreated", []any{account}, big.NewInt(100), big.NewInt(0), big.NewInt(50), big.NewInt(250000), big.NewInt(900), uint8(1)),
			RookieListingCreated{Account: account, Index: big.NewInt(100), Start: big.NewInt(0), Amount: big.NewInt(50), PricePerRookie: big.NewInt(250000), MaxDraftableIndex: big.NewInt(900), Mode: mode.ToInternal},
		},
		{
			"RookieOrderFilled",
			eventLog("RookieOrderFilled", []any{other, account}, orderKey, big.NewInt(1), big.NewInt(2), big.NewInt(3)),
			RookieOrderFilled{From: other, To: account, ID: orderKey, Index: big.NewInt(1), Start: big.NewInt(2), Amount: big.NewInt(3)},
		},
	}

	d := NewDecoder(protocolABI)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.log
			l.BlockNumber, l.TxIndex, l.Index = 15, 2, 9

			e, err := d.Decode(l)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind(), e.Kind())
			assert.Equal(t, uint64(15), e.BlockNumber)
			assert.Equal(t, uint(2), e.TransactionIndex)
			assert.Equal(t, uint(9), e.LogIndex)
			assert.Equal(t, protocolAddr, e.Address)
			assertArgsEqual(t, tt.want, e.Args)
		})
	}
}

// assertArgsEqual compares args by their rendered form so that big.Int
// values built differently but numerically equal match.
func assertArgsEqual(t *testing.T, want, got Args) {
	t.Helper()
	assert.IsType(t, want, got)
	assert.Equal(t, fmt.Sprintf("%+v", want), fmt.Sprintf("%+v", got))
}

func TestDecodeUnknown(t *testing.T) {
	d := NewDecoder(protocolABI)

	e, err := d.Decode(types.Log{Topics: []common.Hash{common.HexToHash("0x1234")}})
	require.NoError(t, err)
	assert.Equal(t, Unknown{Topic: common.HexToHash("0x1234")}, e.Args)

	e, err = d.Decode(types.Log{})
	require.NoError(t, err)
	assert.Equal(t, Unknown{}, e.Args)
}

func TestDecodeMalformed(t *testing.T) {
	d := NewDecoder(protocolABI)
	l := eventLog("AddDeposit", []any{account, tokenAddr}, uint32(1), big.NewInt(1), big.NewInt(1))
	l.Data = l.Data[:40]

	_, err := d.Decode(l)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	l = eventLog("AddDeposit", []any{account, tokenAddr}, uint32(1), big.NewInt(1), big.NewInt(1))
	l.Topics = l.Topics[:2]
	_, err = d.Decode(l)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestBuildArgsFieldErrors(t *testing.T) {
	fields := map[string]any{
		"account": account,
		"token":   tokenAddr,
		"season":  uint32(3),
		"amount":  big.NewInt(5),
	}

	_, err := buildArgs(string(KindAddDeposit), &fieldReader{fields: fields})
	assert.EqualError(t, err, `missing field "bdv"`)

	fields["bdv"] = int64(5)
	_, err = buildArgs(string(KindAddDeposit), &fieldReader{fields: fields})
	assert.EqualError(t, err, `field "bdv" has type int64`)

	fields["bdv"] = big.NewInt(5)
	args, err := buildArgs(string(KindAddDeposit), &fieldReader{fields: fields})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), args.(AddDeposit).Season)
}
