package farm

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/internal/chaintest"
	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/permit"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

var account = common.HexToAddress("0x00000000000000000000000000000000000000a1")

type recordingSubmitter struct {
	calls []*contracts.Call
}

func (s *recordingSubmitter) Submit(_ context.Context, call *contracts.Call) (*workflow.Transaction, error) {
	s.calls = append(s.calls, call)
	tx := types.NewTx(&types.LegacyTx{Nonce: uint64(len(s.calls)), GasPrice: big.NewInt(1)})
	return workflow.NewTransaction(tx, nil), nil
}

type fixture struct {
	farm    *Farm
	book    *contracts.Book
	reg     *tokens.Registry
	caller  *chaintest.Caller
	indices [][2]int64
}

func (fx *fixture) tok(symbol string) *tokens.Token {
	return fx.reg.MustFind(symbol)
}

func (fx *fixture) lastIndices() [2]int64 {
	return fx.indices[len(fx.indices)-1]
}

func (fx *fixture) record(args []any) {
	fx.indices = append(fx.indices, [2]int64{args[0].(*big.Int).Int64(), args[1].(*big.Int).Int64()})
}

// newFixture prices tricrypto2 at 1 WETH = 1000 USDT, underlying metapool
// swaps at a 1% fee, the metapool's own coins at 2x, 3pool deposits at a 2%
// loss and metapool deposits at par. bdv is half the amount.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := tokens.MustDefault()
	book := contracts.MustNewBook(contracts.MainnetAddresses())
	fx := &fixture{book: book, reg: reg, caller: chaintest.NewCaller()}

	addr := func(s string) common.Address { return reg.MustFind(s).Address }
	tricryptoCoins := map[common.Address]int64{addr("USDT"): 0, addr("WETH"): 2}
	metaCoins := map[common.Address]int64{addr("HOOLIGAN"): 0, addr("3CRV"): 1, addr("DAI"): 1, addr("USDC"): 2, addr("USDT"): 3}
	lookup := func(coins map[common.Address]int64, args []any) (*big.Int, *big.Int, error) {
		i, okI := coins[args[1].(common.Address)]
		j, okJ := coins[args[2].(common.Address)]
		if !okI || !okJ {
			return nil, nil, errors.New("coin not in pool")
		}
		return big.NewInt(i), big.NewInt(j), nil
	}

	fx.caller.
		On(book.CryptoFactory.Address(), book.CryptoFactory.ABI(), "get_coin_indices", func(args []any) ([]any, error) {
			i, j, err := lookup(tricryptoCoins, args)
			return []any{i, j}, err
		}).
		On(book.MetaFactory.Address(), book.MetaFactory.ABI(), "get_coin_indices", func(args []any) ([]any, error) {
			i, j, err := lookup(metaCoins, args)
			return []any{i, j, false}, err
		}).
		On(book.Tricrypto2.Address(), book.Tricrypto2.ABI(), "get_dy", func(args []any) ([]any, error) {
			fx.record(args)
			dx := args[2].(*big.Int)
			if args[0].(*big.Int).Int64() == 2 {
				return []any{new(big.Int).Quo(dx, big.NewInt(1e9))}, nil
			}
			return []any{new(big.Int).Mul(dx, big.NewInt(1e9))}, nil
		}).
		On(book.Hooligan3Crv.Address(), book.Hooligan3Crv.ABI(), "get_dy_underlying", func(args []any) ([]any, error) {
			fx.record(args)
			dx := new(big.Int).Mul(args[2].(*big.Int), big.NewInt(99))
			return []any{dx.Quo(dx, big.NewInt(100))}, nil
		}).
		On(book.Hooligan3Crv.Address(), book.Hooligan3Crv.ABI(), "get_dy", func(args []any) ([]any, error) {
			fx.record(args)
			return []any{new(big.Int).Mul(args[2].(*big.Int), big.NewInt(2))}, nil
		}).
		On(book.Hooligan3Crv.Address(), book.Hooligan3Crv.ABI(), "calc_token_amount", func(args []any) ([]any, error) {
			amounts := args[0].([2]*big.Int)
			return []any{new(big.Int).Add(amounts[0], amounts[1])}, nil
		}).
		On(book.Pool3.Address(), book.Pool3.ABI(), "calc_token_amount", func(args []any) ([]any, error) {
			amounts := args[0].([3]*big.Int)
			sum := new(big.Int).Add(amounts[0], amounts[1])
			sum.Add(sum, amounts[2]).Mul(sum, big.NewInt(98))
			return []any{sum.Quo(sum, big.NewInt(100))}, nil
		}).
		On(book.Protocol.Address(), book.Protocol.ABI(), "bdv", func(args []any) ([]any, error) {
			return []any{new(big.Int).Quo(args[1].(*big.Int), big.NewInt(2))}, nil
		})

	f, err := New(book, reg, fx.caller)
	require.NoError(t, err)
	fx.farm = f
	return fx
}

// farmCalls decodes an aggregated farm call into method names and their
// arguments.
func (fx *fixture) farmCalls(t *testing.T, call *contracts.Call) ([]string, [][]any) {
	t.Helper()
	a := fx.book.Protocol.ABI()
	farm := a.Methods["farm"]
	require.Equal(t, farm.ID, call.Data()[:4])
	outer, err := farm.Inputs.Unpack(call.Data()[4:])
	require.NoError(t, err)

	var names []string
	var args [][]any
	for _, data := range outer[0].([][]byte) {
		m, err := a.MethodById(data[:4])
		require.NoError(t, err)
		in, err := m.Inputs.Unpack(data[4:])
		require.NoError(t, err)
		names = append(names, m.Name)
		args = append(args, in)
	}
	return names, args
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestNewRequiresRoutedTokens(t *testing.T) {
	reg, err := tokens.NewRegistry(&tokens.Token{Symbol: "ETH", Native: true})
	require.NoError(t, err)
	_, err = New(contracts.MustNewBook(contracts.MainnetAddresses()), reg, chaintest.NewCaller())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestWrapAndTransfer(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	w := fx.farm.Create("wrap")
	require.NoError(t, w.Add(
		fx.farm.WrapEth(mode.ToInternal),
		fx.farm.TransferToken(fx.tok("WETH").Address, account, mode.Internal, mode.ToExternal),
	))

	out, err := w.Estimate(ctx, ether(1))
	require.NoError(t, err)
	assert.Equal(t, ether(1), out)

	call, err := w.Encode()
	require.NoError(t, err)
	assert.Equal(t, ether(1), call.Value())

	names, args := fx.farmCalls(t, call)
	assert.Equal(t, []string{"wrapEth", "transferToken"}, names)
	assert.Equal(t, uint8(mode.ToInternal), args[0][1])
	assert.Equal(t, account, args[1][1])
	assert.Equal(t, ether(1), args[1][2])

	in, err := w.EstimateReversed(ctx, ether(3))
	require.NoError(t, err)
	assert.Equal(t, ether(3), in)
}

func TestMowAndPlant(t *testing.T) {
	fx := newFixture(t)
	other := common.HexToAddress("0x00000000000000000000000000000000000000b2")
	w := fx.farm.Create("claim", workflow.WithAccount(account))
	require.NoError(t, w.Add(fx.farm.Mow(common.Address{}), fx.farm.Mow(other), fx.farm.Plant()))

	out, err := w.Estimate(context.Background(), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Sign())

	call, err := w.Encode()
	require.NoError(t, err)
	assert.Equal(t, 0, call.Value().Sign())

	names, args := fx.farmCalls(t, call)
	assert.Equal(t, []string{"update", "update", "plant"}, names)
	assert.Equal(t, account, args[0][0])
	assert.Equal(t, other, args[1][0])
	assert.Empty(t, args[2])
}

func TestExchange(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	sub := &recordingSubmitter{}
	w := fx.farm.Create("swap", workflow.WithSubmitter(sub))
	require.NoError(t, w.Add(fx.farm.Weth2Usdt(mode.External, mode.ToInternal)))

	out, err := w.Estimate(ctx, ether(2))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2_000_000_000), out)
	assert.Equal(t, [2]int64{2, 0}, fx.lastIndices())

	_, err = w.Execute(ctx, ether(2), workflow.ExecuteOptions{Slippage: 0.5})
	require.NoError(t, err)
	require.Len(t, sub.calls, 1)
	names, args := fx.farmCalls(t, sub.calls[0])
	assert.Equal(t, []string{"exchange"}, names)
	assert.Equal(t, fx.book.Tricrypto2.Address(), args[0][0])
	assert.Equal(t, fx.book.CryptoFactory.Address(), args[0][1])
	assert.Equal(t, fx.tok("WETH").Address, args[0][2])
	assert.Equal(t, ether(2), args[0][4])
	assert.Equal(t, workflow.Slip(big.NewInt(2_000_000_000), 0.5), args[0][5])

	in, err := w.EstimateReversed(ctx, big.NewInt(1_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, ether(1), in)
	assert.Equal(t, [2]int64{0, 2}, fx.lastIndices(), "reverse quotes with swapped indices")
}

func TestExchangeUnderlying(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	w := fx.farm.Create("usdt")
	require.NoError(t, w.Add(fx.farm.Usdt2Hooligan(mode.Internal, mode.ToExternal)))

	out, err := w.Estimate(ctx, big.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(990_000), out)
	assert.Equal(t, [2]int64{3, 0}, fx.lastIndices())

	call, err := w.Encode()
	require.NoError(t, err)
	names, args := fx.farmCalls(t, call)
	assert.Equal(t, []string{"exchangeUnderlying"}, names)
	assert.Equal(t, fx.book.Hooligan3Crv.Address(), args[0][0])
	assert.Equal(t, big.NewInt(990_000), args[0][4])
	assert.Equal(t, uint8(mode.Internal), args[0][5])

	_, err = w.EstimateReversed(ctx, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, [2]int64{0, 3}, fx.lastIndices())
}

func TestAddLiquidity(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	w := fx.farm.Create("lp")
	require.NoError(t, w.Add(fx.farm.AddLiquidity(fx.book.Pool3, fx.book.PoolRegistry, []int64{0, 1, 0}, mode.External, mode.ToInternal)))

	out, err := w.Estimate(ctx, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(98), out)

	call, err := w.Encode()
	require.NoError(t, err)
	_, args := fx.farmCalls(t, call)
	assert.Equal(t, fx.book.PoolRegistry.Address(), args[0][1])
	amounts := args[0][2].([]*big.Int)
	require.Len(t, amounts, 3)
	assert.Equal(t, 0, amounts[0].Sign())
	assert.Equal(t, big.NewInt(100), amounts[1])
	assert.Equal(t, 0, amounts[2].Sign())
	assert.Equal(t, big.NewInt(98), args[0][3])

	_, err = w.EstimateReversed(ctx, big.NewInt(100))
	assert.ErrorIs(t, err, workflow.ErrUnsupportedOperation)
}

func signedERC2612(value int64) *permit.Signed {
	return &permit.Signed{
		Owner: account,
		Message: permit.ERC2612{
			Owner:    account,
			Spender:  common.HexToAddress("0x00000000000000000000000000000000000000c3"),
			Value:    big.NewInt(value),
			Nonce:    big.NewInt(0),
			Deadline: big.NewInt(1_700_000_000),
		},
		Signature: permit.Split{V: 27, R: [32]byte{1}, S: [32]byte{2}},
	}
}

func TestPermitERC20(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	hooligan := fx.tok("HOOLIGAN")

	w := fx.farm.Create("permit")
	require.NoError(t, w.Add(fx.farm.PermitERC20(hooligan.Address, nil)))
	_, err := w.Estimate(ctx, big.NewInt(5))
	require.NoError(t, err, "estimates do not need the permit")
	_, err = w.Encode()
	assert.ErrorIs(t, err, permit.ErrPermitRequired)

	sub := &recordingSubmitter{}
	w = fx.farm.Create("permit", workflow.WithSubmitter(sub))
	require.NoError(t, w.Add(fx.farm.PermitERC20(hooligan.Address, nil)))
	_, err = w.Execute(ctx, big.NewInt(5), workflow.ExecuteOptions{Data: map[string]any{permit.ContextKey: signedERC2612(5)}})
	require.NoError(t, err)
	names, args := fx.farmCalls(t, sub.calls[0])
	assert.Equal(t, []string{"permitERC20"}, names)
	assert.Equal(t, hooligan.Address, args[0][0])
	assert.Equal(t, account, args[0][1])
	assert.Equal(t, big.NewInt(5), args[0][3])
	assert.Equal(t, uint8(27), args[0][5])

	wrong := &permit.Signed{Owner: account, Message: permit.DepositToken{Token: hooligan.Address, Value: big.NewInt(1), Deadline: big.NewInt(1)}}
	w = fx.farm.Create("permit")
	require.NoError(t, w.Add(fx.farm.PermitERC20(hooligan.Address, wrong)))
	_, err = w.Estimate(ctx, big.NewInt(5))
	require.NoError(t, err)
	_, err = w.Encode()
	assert.ErrorIs(t, err, permit.ErrMalformedPermit)
}

func TestPermitDeposits(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	hooligan, lp := fx.tok("HOOLIGAN"), fx.tok("HOOLIGAN3CRV")

	tests := []struct {
		name    string
		message permit.Message
		method  string
		err     error
	}{
		{"single token", permit.DepositToken{Owner: account, Token: hooligan.Address, Value: big.NewInt(1), Deadline: big.NewInt(9)}, "permitDeposit", nil},
		{"several tokens", permit.DepositTokens{Owner: account, Tokens: []common.Address{hooligan.Address, lp.Address}, Values: []*big.Int{big.NewInt(1), big.NewInt(2)}, Deadline: big.NewInt(9)}, "permitDeposits", nil},
		{"token permit", signedERC2612(1).Message, "", permit.ErrMalformedPermit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := fx.farm.Create("permit")
			require.NoError(t, w.Add(fx.farm.PermitDeposits(&permit.Signed{Owner: account, Message: tt.message})))
			_, err := w.Estimate(ctx, big.NewInt(1))
			require.NoError(t, err)
			call, err := w.Encode()
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			names, _ := fx.farmCalls(t, call)
			assert.Equal(t, []string{tt.method}, names)
		})
	}
}

func TestLoadPipeline(t *testing.T) {
	fx := newFixture(t)
	hooligan := fx.tok("HOOLIGAN")

	steps, err := fx.farm.LoadPipeline(fx.tok("ETH"), mode.External, nil)
	require.NoError(t, err)
	assert.Empty(t, steps)

	_, err = fx.farm.LoadPipeline(hooligan, mode.Internal, signedERC2612(1))
	assert.ErrorIs(t, err, ErrPermitMode)

	steps, err = fx.farm.LoadPipeline(hooligan, mode.External, signedERC2612(100))
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "permitERC20", steps[0].Name())
	assert.Equal(t, "transferToken", steps[1].Name())

	w := fx.farm.Create("load")
	require.NoError(t, w.Add(steps...))
	_, err = w.Estimate(context.Background(), big.NewInt(100))
	require.NoError(t, err)
	call, err := w.Encode()
	require.NoError(t, err)
	_, args := fx.farmCalls(t, call)
	assert.Equal(t, fx.book.Pipeline, args[1][1])
	assert.Equal(t, uint8(mode.ToExternal), args[1][4])
}

func TestWeth2Hooligan(t *testing.T) {
	fx := newFixture(t)
	w := fx.farm.Create("outer")
	require.NoError(t, w.Add(fx.farm.Weth2Hooligan(mode.External, mode.ToExternal)))
	assert.Equal(t, 2, w.Len(), "presets flatten into the outer workflow")

	out, err := w.Estimate(context.Background(), ether(1))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(990_000_000), out)

	call, err := w.Encode()
	require.NoError(t, err)
	names, args := fx.farmCalls(t, call)
	assert.Equal(t, []string{"exchange", "exchangeUnderlying"}, names)
	assert.Equal(t, uint8(mode.ToInternal), args[0][7])
	assert.Equal(t, uint8(mode.Internal), args[1][5])
}

func TestSwapRouter(t *testing.T) {
	fx := newFixture(t)
	r := fx.farm.SwapRouter()

	tests := []struct{ from, to, want string }{
		{"ETH", "HOOLIGAN", "ETH -> WETH -> USDT -> HOOLIGAN"},
		{"HOOLIGAN", "ETH", "HOOLIGAN -> USDT -> WETH -> ETH"},
		{"DAI", "USDC", "DAI -> HOOLIGAN -> USDC"},
		{"3CRV", "USDT", "3CRV -> HOOLIGAN -> USDT"},
		{"HOOLIGAN", "HOOLIGAN", "HOOLIGAN -> HOOLIGAN"},
		{"ETH", "ETH", ""},
	}
	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GetRoute(tt.from, tt.to).String())
		})
	}

	steps, err := r.GetRoute("ETH", "HOOLIGAN").Materialize(account, mode.External, mode.ToExternal)
	require.NoError(t, err)
	w := fx.farm.Create("eth to hooligan")
	require.NoError(t, w.Add(steps...))
	out, err := w.Estimate(context.Background(), ether(1))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(990_000_000), out)
}

func TestDepositRoutes(t *testing.T) {
	fx := newFixture(t)
	r := fx.farm.NewDepositBuilder().Router()

	tests := []struct{ from, to, want string }{
		{"ETH", "HOOLIGAN3CRV:FIRM", "ETH -> WETH -> USDT -> 3CRV -> HOOLIGAN3CRV -> HOOLIGAN3CRV:FIRM"},
		{"USDC", "HOOLIGAN3CRV:FIRM", "USDC -> 3CRV -> HOOLIGAN3CRV -> HOOLIGAN3CRV:FIRM"},
		{"HOOLIGAN", "HOOLIGAN3CRV:FIRM", "HOOLIGAN -> HOOLIGAN3CRV -> HOOLIGAN3CRV:FIRM"},
		{"HOOLIGAN", "HOOLIGAN:FIRM", "HOOLIGAN -> HOOLIGAN:FIRM"},
		{"urHOOLIGAN3CRV", "urHOOLIGAN3CRV:FIRM", "urHOOLIGAN3CRV -> urHOOLIGAN3CRV:FIRM"},
		{"USDC", "HOOLIGAN:FIRM", ""},
	}
	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, r.GetRoute(tt.from, tt.to).String())
		})
	}
	assert.Equal(t, "devDebug", r.GetRoute("DAI", "DAI").Step(0).Label)
}

func TestDepositOperation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	sub := &recordingSubmitter{}
	builder := fx.farm.NewDepositBuilder()
	lp := fx.tok("HOOLIGAN3CRV")

	_, err := builder.BuildDeposit(fx.tok("DAI"), account)
	assert.ErrorIs(t, err, ErrNotWhitelisted)

	op, err := builder.BuildDeposit(lp, account, workflow.WithSubmitter(sub))
	require.NoError(t, err)
	_, err = op.Estimate(ctx, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNoInputToken)

	require.NoError(t, op.SetInputToken(fx.tok("USDC")))
	assert.Equal(t, 3, op.Route().Len())

	est, err := op.Estimate(ctx, big.NewInt(1_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(980_000_000), est)

	_, err = op.Execute(ctx, big.NewInt(1_000_000_000), 0.5)
	require.NoError(t, err)
	require.Len(t, sub.calls, 1)
	names, args := fx.farmCalls(t, sub.calls[0])
	assert.Equal(t, []string{"addLiquidity", "addLiquidity", "deposit"}, names)
	assert.Equal(t, uint8(mode.External), args[0][4], "first hop spends from the caller's mode")
	assert.Equal(t, uint8(mode.ToInternal), args[0][5])
	assert.Equal(t, uint8(mode.InternalTolerant), args[1][4])
	assert.Equal(t, lp.Address, args[2][0])
	assert.Equal(t, big.NewInt(980_000_000), args[2][1])
	assert.Equal(t, uint8(mode.InternalTolerant), args[2][2])

	summary, err := op.Summary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Steps, 3)
	assert.Same(t, lp, summary.Token)
	assert.Equal(t, "490000000", summary.BDV.String())
	assert.Equal(t, "4900000000000", summary.Horde.String())
	assert.Equal(t, "1960000000", summary.Prospects.String())

	direct, err := builder.BuildDeposit(fx.tok("HOOLIGAN"), account)
	require.NoError(t, err)
	err = direct.SetInputToken(fx.tok("USDC"))
	assert.Error(t, err)
	assert.Nil(t, direct.Input())
}

func TestDepositFromEther(t *testing.T) {
	fx := newFixture(t)
	sub := &recordingSubmitter{}
	op, err := fx.farm.NewDepositBuilder().BuildDeposit(fx.tok("HOOLIGAN3CRV"), account, workflow.WithSubmitter(sub))
	require.NoError(t, err)
	require.NoError(t, op.SetInputToken(fx.tok("ETH")))

	_, err = op.Execute(context.Background(), ether(1), 1)
	require.NoError(t, err)
	require.Len(t, sub.calls, 1)
	assert.Equal(t, ether(1), sub.calls[0].Value())
	names, _ := fx.farmCalls(t, sub.calls[0])
	assert.Equal(t, []string{"wrapEth", "exchange", "addLiquidity", "addLiquidity", "deposit"}, names)
}
