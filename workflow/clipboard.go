package workflow

import (
	"fmt"
	"math/big"
)

// Clipboard encoding constants.
const (
	// ClipboardNone copies nothing.
	ClipboardNone byte = 0x00

	// ClipboardSingle copies one word of earlier return data.
	ClipboardSingle byte = 0x01

	// ClipboardMulti copies several words of earlier return data.
	ClipboardMulti byte = 0x02

	// WordSize is the ABI word size in bytes.
	WordSize = 32
)

// Paste copies one word from the return data of an earlier pipe call into
// this call's calldata.
type Paste struct {
	// ReturnData is the position of the earlier call in the pipe.
	ReturnData int

	// CopySlot is the word index in the earlier call's return data.
	CopySlot int

	// PasteSlot is the argument word index in this call's calldata.
	PasteSlot int
}

// CopyIndex is the byte offset read from the return data. The first word of
// returned bytes is its length.
func (p Paste) CopyIndex() uint64 {
	return uint64(p.CopySlot)*WordSize + WordSize
}

// PasteIndex is the byte offset written in calldata. Calldata is stored as
// bytes, so its length word and the 4-byte selector come first.
func (p Paste) PasteIndex() uint64 {
	return uint64(p.PasteSlot)*WordSize + WordSize + 4
}

// Clipboard holds the paste instructions and native value of one pipe call.
type Clipboard struct {
	Pastes []Paste
	Value  *big.Int
}

func (c Clipboard) hasValue() bool {
	return c.Value != nil && c.Value.Sign() > 0
}

// Encode packs the clipboard.
//
//	none:   [type:1][ether:1] [value:32]?
//	single: [type:1][ether:1][returnData:10][copy:10][paste:10] [value:32]?
//	multi:  [type:1][ether:1][pad:30][count:32][packed:32]*n [value:32]?
//
// Each packed multi entry is returnData<<160 | copy<<80 | paste.
func (c Clipboard) Encode() ([]byte, error) {
	for i, p := range c.Pastes {
		if p.ReturnData < 0 || p.CopySlot < 0 || p.PasteSlot < 0 {
			return nil, fmt.Errorf("%w: paste %d out of range", ErrInvalidClipboard, i)
		}
	}

	var ether byte
	if c.hasValue() {
		ether = 0x01
	}

	var out []byte
	switch len(c.Pastes) {
	case 0:
		out = []byte{ClipboardNone, ether}
	case 1:
		out = make([]byte, WordSize)
		out[0], out[1] = ClipboardSingle, ether
		p := c.Pastes[0]
		putUint80(out[2:12], uint64(p.ReturnData))
		putUint80(out[12:22], p.CopyIndex())
		putUint80(out[22:32], p.PasteIndex())
	default:
		out = make([]byte, 2*WordSize, (2+len(c.Pastes))*WordSize+WordSize)
		out[0], out[1] = ClipboardMulti, ether
		new(big.Int).SetInt64(int64(len(c.Pastes))).FillBytes(out[WordSize:])
		for _, p := range c.Pastes {
			word := new(big.Int).SetUint64(uint64(p.ReturnData))
			word.Lsh(word, 80).Or(word, new(big.Int).SetUint64(p.CopyIndex()))
			word.Lsh(word, 80).Or(word, new(big.Int).SetUint64(p.PasteIndex()))
			out = append(out, word.FillBytes(make([]byte, WordSize))...)
		}
	}

	if c.hasValue() {
		if c.Value.BitLen() > 256 {
			return nil, fmt.Errorf("%w: value overflows uint256", ErrInvalidClipboard)
		}
		out = append(out, c.Value.FillBytes(make([]byte, WordSize))...)
	}
	return out, nil
}

// DecodeClipboard reverses Encode. Useful for debugging and testing.
func DecodeClipboard(data []byte) (Clipboard, error) {
	var c Clipboard
	if len(data) < 2 {
		return c, fmt.Errorf("%w: %d bytes", ErrInvalidClipboard, len(data))
	}
	ether := data[1] == 0x01

	var rest []byte
	switch data[0] {
	case ClipboardNone:
		rest = data[2:]
	case ClipboardSingle:
		if len(data) < WordSize {
			return c, fmt.Errorf("%w: short single clipboard", ErrInvalidClipboard)
		}
		rd, cp, ps := getUint80(data[2:12]), getUint80(data[12:22]), getUint80(data[22:32])
		p, err := pasteFromIndexes(rd, cp, ps)
		if err != nil {
			return c, err
		}
		c.Pastes = []Paste{p}
		rest = data[WordSize:]
	case ClipboardMulti:
		if len(data) < 2*WordSize {
			return c, fmt.Errorf("%w: short multi clipboard", ErrInvalidClipboard)
		}
		n := new(big.Int).SetBytes(data[WordSize : 2*WordSize])
		if !n.IsInt64() || int(n.Int64()) < 0 || len(data) < (2+int(n.Int64()))*WordSize {
			return c, fmt.Errorf("%w: bad paste count", ErrInvalidClipboard)
		}
		count := int(n.Int64())
		for i := 0; i < count; i++ {
			word := data[(2+i)*WordSize : (3+i)*WordSize]
			p, err := pasteFromIndexes(getUint80(word[2:12]), getUint80(word[12:22]), getUint80(word[22:32]))
			if err != nil {
				return c, err
			}
			c.Pastes = append(c.Pastes, p)
		}
		rest = data[(2+count)*WordSize:]
	default:
		return c, fmt.Errorf("%w: unknown type 0x%02x", ErrInvalidClipboard, data[0])
	}

	if ether {
		if len(rest) != WordSize {
			return c, fmt.Errorf("%w: missing value word", ErrInvalidClipboard)
		}
		c.Value = new(big.Int).SetBytes(rest)
	} else if len(rest) != 0 {
		return c, fmt.Errorf("%w: %d trailing bytes", ErrInvalidClipboard, len(rest))
	}
	return c, nil
}

func pasteFromIndexes(returnData, copyIndex, pasteIndex uint64) (Paste, error) {
	if copyIndex < WordSize || (copyIndex-WordSize)%WordSize != 0 ||
		pasteIndex < WordSize+4 || (pasteIndex-WordSize-4)%WordSize != 0 {
		return Paste{}, fmt.Errorf("%w: unaligned indexes %d/%d", ErrInvalidClipboard, copyIndex, pasteIndex)
	}
	return Paste{
		ReturnData: int(returnData),
		CopySlot:   int((copyIndex - WordSize) / WordSize),
		PasteSlot:  int((pasteIndex - WordSize - 4) / WordSize),
	}, nil
}

// putUint80 writes v big-endian into a 10-byte slice.
func putUint80(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

func getUint80(src []byte) uint64 {
	var v uint64
	for _, b := range src {
		v = v<<8 | uint64(b)
	}
	return v
}
