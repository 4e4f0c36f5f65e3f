package contracts

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branched-services/go-hooliganhorde/internal/chaintest"
	"github.com/branched-services/go-hooliganhorde/mode"
)

var testAddr = common.HexToAddress("0x1234567890123456789012345678901234567890")

func TestContractInvoke(t *testing.T) {
	protocol := New("protocol", testAddr, MustParseABI(ProtocolABI))

	t.Run("encodes selector and arguments", func(t *testing.T) {
		call, err := protocol.Invoke("wrapEth", big.NewInt(5), mode.ToInternal)
		require.NoError(t, err)

		method := protocol.ABI().Methods["wrapEth"]
		assert.True(t, bytes.Equal(method.ID, call.Data()[:4]))
		assert.Equal(t, testAddr, call.Target())
		assert.Equal(t, "wrapEth", call.Method())

		args, err := method.Inputs.Unpack(call.Data()[4:])
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(5), args[0])
		assert.Equal(t, uint8(1), args[1])
	})

	t.Run("widens plain integers", func(t *testing.T) {
		_, err := protocol.Invoke("deposit", common.Address{}, 100, mode.External)
		assert.NoError(t, err)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := protocol.Invoke("mint")
		var target *MethodNotFoundError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "mint", target.Method)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := protocol.Invoke("wrapEth", big.NewInt(1))
		assert.ErrorIs(t, err, ErrArgumentCount)
	})

	t.Run("bad argument type", func(t *testing.T) {
		_, err := protocol.Invoke("wrapEth", "one", mode.External)
		var target *ArgumentError
		assert.ErrorAs(t, err, &target)
	})
}

func TestContractInvokeFixedArray(t *testing.T) {
	pool := New("hooligan3crv", testAddr, MustParseABI(CurveMetaPoolABI))

	t.Run("slice converts to fixed array", func(t *testing.T) {
		call, err := pool.Invoke("calc_token_amount", []*big.Int{big.NewInt(1), big.NewInt(2)}, true)
		require.NoError(t, err)
		assert.Len(t, call.Data(), 4+3*32)
	})

	t.Run("slice length must match", func(t *testing.T) {
		_, err := pool.Invoke("calc_token_amount", []*big.Int{big.NewInt(1)}, true)
		assert.Error(t, err)
	})
}

func TestContractRead(t *testing.T) {
	protocol := New("protocol", testAddr, MustParseABI(ProtocolABI))
	ctx := context.Background()

	t.Run("decodes outputs", func(t *testing.T) {
		caller := chaintest.NewCaller().Returns(testAddr, protocol.ABI(), "season", uint32(6074))
		out, err := protocol.Read(ctx, caller, "season")
		require.NoError(t, err)
		assert.Equal(t, uint32(6074), out[0])
	})

	t.Run("read big", func(t *testing.T) {
		caller := chaintest.NewCaller().On(testAddr, protocol.ABI(), "bdv", func(args []any) ([]any, error) {
			amount := args[1].(*big.Int)
			return []any{new(big.Int).Div(amount, big.NewInt(2))}, nil
		})
		got, err := protocol.ReadBig(ctx, caller, "bdv", common.Address{}, big.NewInt(10))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(5), got)
	})

	t.Run("read big rejects small outputs", func(t *testing.T) {
		caller := chaintest.NewCaller().Returns(testAddr, protocol.ABI(), "season", uint32(1))
		_, err := protocol.ReadBig(ctx, caller, "season")
		assert.ErrorIs(t, err, ErrUnexpectedOutput)
	})

	t.Run("read into struct", func(t *testing.T) {
		caller := chaintest.NewCaller().Returns(testAddr, protocol.ABI(), "season", uint32(6074))
		var got struct{ Season uint32 }
		require.NoError(t, protocol.ReadInto(ctx, caller, &got, "season"))
		assert.Equal(t, uint32(6074), got.Season)
	})

	t.Run("read into mismatched struct", func(t *testing.T) {
		caller := chaintest.NewCaller().Returns(testAddr, protocol.ABI(), "season", uint32(6074))
		var got struct{ Season string }
		err := protocol.ReadInto(ctx, caller, &got, "season")
		assert.ErrorIs(t, err, ErrUnexpectedOutput)
	})

	t.Run("transport errors are wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		caller := chaintest.NewCaller().On(testAddr, protocol.ABI(), "season", func([]any) ([]any, error) {
			return nil, boom
		})
		_, err := protocol.Read(ctx, caller, "season")
		var target *CallError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "season", target.Method)
		assert.ErrorIs(t, err, boom)
	})
}

func TestContractAt(t *testing.T) {
	pool := New("pool", testAddr, MustParseABI(CurvePlainPoolABI))
	other := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	moved := pool.At("other", other)

	assert.Equal(t, other, moved.Address())
	assert.Equal(t, "other", moved.Name())
	assert.Equal(t, testAddr, pool.Address())
	assert.Equal(t, []string{"calc_token_amount", "get_dy"}, moved.MethodNames())
	assert.True(t, moved.HasMethod("get_dy"))
}

func TestParseABI(t *testing.T) {
	_, err := ParseABI("not json")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseABI("[") })

	for name, js := range map[string]string{
		"protocol":        ProtocolABI,
		"meta pool":       CurveMetaPoolABI,
		"plain pool":      CurvePlainPoolABI,
		"crypto pool":     CurveCryptoPoolABI,
		"registry":        CurveRegistryABI,
		"crypto registry": CurveCryptoRegistryABI,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseABI(js)
			assert.NoError(t, err)
		})
	}
}
