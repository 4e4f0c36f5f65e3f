package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallWithValue(t *testing.T) {
	call := NewCall(testAddr, []byte{0xde, 0xad, 0xbe, 0xef, 0x01})

	t.Run("original is unchanged", func(t *testing.T) {
		withValue := call.WithValue(big.NewInt(7))
		assert.False(t, call.HasValue())
		assert.Equal(t, 0, call.Value().Sign())
		assert.True(t, withValue.HasValue())
		assert.Equal(t, big.NewInt(7), withValue.Value())
	})

	t.Run("value is copied", func(t *testing.T) {
		v := big.NewInt(3)
		withValue := call.WithValue(v)
		v.SetInt64(99)
		assert.Equal(t, big.NewInt(3), withValue.Value())
	})

	t.Run("nil clears value", func(t *testing.T) {
		assert.False(t, call.WithValue(big.NewInt(1)).WithValue(nil).HasValue())
	})
}

func TestCallData(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	call := NewCall(testAddr, data)
	data[0] = 0xff

	assert.Equal(t, [4]byte{0x01, 0x02, 0x03, 0x04}, call.Selector())

	got := call.Data()
	got[1] = 0xff
	assert.Equal(t, byte(0x02), call.Data()[1])
	assert.Equal(t, "", call.Method())
}

func TestAddresses(t *testing.T) {
	t.Run("overrides known keys", func(t *testing.T) {
		a, err := ParseAddresses(map[string]string{
			"protocol": "0x00000000000000000000000000000000000000aa",
			"pool3":    "",
		})
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xaa"), a.Protocol)
		assert.Equal(t, MainnetAddresses().Pool3, a.Pool3)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := ParseAddresses(map[string]string{"bogus": "0x00"})
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("rejects bad hex", func(t *testing.T) {
		_, err := ParseAddresses(map[string]string{"protocol": "xyz"})
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("book binds every contract", func(t *testing.T) {
		b := MustNewBook(MainnetAddresses())
		assert.Equal(t, MainnetAddresses().Protocol, b.Protocol.Address())
		assert.True(t, b.Protocol.HasMethod("advancedPipe"))
		assert.True(t, b.Hooligan3Crv.HasMethod("get_dy_underlying"))
		assert.True(t, b.CryptoFactory.HasMethod("get_coin_indices"))
		assert.True(t, b.Price.HasMethod("price"))
		assert.True(t, b.Root.HasMethod("mintWithTokensPermit"))

		usdc := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
		erc20 := b.ERC20("USDC", usdc)
		assert.Equal(t, usdc, erc20.Address())
		assert.Equal(t, "USDC", erc20.Name())
		assert.True(t, erc20.HasMethod("totalSupply"))
	})

	t.Run("overrides price and root", func(t *testing.T) {
		a, err := ParseAddresses(map[string]string{
			"price": "0x0000000000000000000000000000000000000001",
			"root":  "0x0000000000000000000000000000000000000002",
		})
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x01"), a.Price)
		assert.Equal(t, common.HexToAddress("0x02"), a.Root)
		assert.Equal(t, MainnetAddresses().Protocol, a.Protocol)
	})
}
