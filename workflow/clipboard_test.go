package workflow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipboardEncode(t *testing.T) {
	t.Run("empty clipboard is two bytes", func(t *testing.T) {
		out, err := Clipboard{}.Encode()
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0x00}, out)
	})

	t.Run("ether flag appends the value", func(t *testing.T) {
		out, err := Clipboard{Value: big.NewInt(256)}.Encode()
		require.NoError(t, err)
		require.Len(t, out, 2+WordSize)
		assert.Equal(t, byte(0x01), out[1])
		assert.Equal(t, byte(0x01), out[len(out)-2])
	})

	t.Run("single paste layout", func(t *testing.T) {
		out, err := Clipboard{Pastes: []Paste{{ReturnData: 2, CopySlot: 1, PasteSlot: 3}}}.Encode()
		require.NoError(t, err)
		require.Len(t, out, WordSize)
		assert.Equal(t, ClipboardSingle, out[0])
		assert.Equal(t, uint64(2), getUint80(out[2:12]))
		assert.Equal(t, uint64(64), getUint80(out[12:22]))
		assert.Equal(t, uint64(132), getUint80(out[22:32]))
	})

	t.Run("multi paste layout", func(t *testing.T) {
		out, err := Clipboard{Pastes: []Paste{
			{ReturnData: 0, CopySlot: 0, PasteSlot: 1},
			{ReturnData: 1, CopySlot: 2, PasteSlot: 0},
		}}.Encode()
		require.NoError(t, err)
		require.Len(t, out, 4*WordSize)
		assert.Equal(t, ClipboardMulti, out[0])
		assert.Equal(t, byte(2), out[2*WordSize-1])

		second := new(big.Int).SetBytes(out[3*WordSize:])
		want := new(big.Int).Lsh(big.NewInt(1), 160)
		want.Or(want, new(big.Int).Lsh(big.NewInt(96), 80))
		want.Or(want, big.NewInt(36))
		assert.Equal(t, want, second)
	})

	t.Run("negative indexes are rejected", func(t *testing.T) {
		_, err := Clipboard{Pastes: []Paste{{ReturnData: -1}}}.Encode()
		assert.ErrorIs(t, err, ErrInvalidClipboard)
	})
}

func TestClipboardRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		clip Clipboard
	}{
		{"none", Clipboard{}},
		{"none with value", Clipboard{Value: big.NewInt(1e18)}},
		{"single", Clipboard{Pastes: []Paste{{ReturnData: 4, CopySlot: 7, PasteSlot: 2}}}},
		{"single with value", Clipboard{Pastes: []Paste{{ReturnData: 1}}, Value: big.NewInt(3)}},
		{"multi with value", Clipboard{Pastes: []Paste{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}, Value: big.NewInt(9)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.clip.Encode()
			require.NoError(t, err)
			decoded, err := DecodeClipboard(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.clip.Pastes, decoded.Pastes)
			if tt.clip.Value == nil {
				assert.Nil(t, decoded.Value)
			} else {
				assert.Equal(t, 0, tt.clip.Value.Cmp(decoded.Value))
			}
		})
	}
}

func TestDecodeClipboardErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0x00}},
		{"unknown type", []byte{0x07, 0x00}},
		{"short single", []byte{0x01, 0x00, 0x00}},
		{"missing value", []byte{0x00, 0x01}},
		{"trailing bytes", []byte{0x00, 0x00, 0xff}},
		{"unaligned single", append([]byte{0x01, 0x00}, make([]byte, 30)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClipboard(tt.data)
			assert.ErrorIs(t, err, ErrInvalidClipboard)
		})
	}
}

func TestSlip(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		slippage float64
		want     int64
	}{
		{"no slippage", 1_000_000, 0, 1_000_000},
		{"tenth of a percent", 1_000_000, 0.1, 999_000},
		{"half a percent", 2_000_000, 0.5, 1_990_000},
		{"rounds down", 7, 1, 6},
		{"everything", 1_000_000, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, big.NewInt(tt.want), Slip(big.NewInt(tt.amount), tt.slippage))
		})
	}
}

func TestValidateSlippage(t *testing.T) {
	assert.NoError(t, ValidateSlippage(0))
	assert.NoError(t, ValidateSlippage(100))
	assert.ErrorIs(t, ValidateSlippage(-0.1), ErrInvalidSlippage)
	assert.ErrorIs(t, ValidateSlippage(100.5), ErrInvalidSlippage)
}
