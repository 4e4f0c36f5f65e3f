package events

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/branched-services/go-hooliganhorde/mode"
)

// Decoder turns raw logs into typed events using a contract ABI.
type Decoder struct {
	abi abi.ABI
}

// NewDecoder creates a decoder for events of contractABI.
func NewDecoder(contractABI abi.ABI) *Decoder {
	return &Decoder{abi: contractABI}
}

// Decode decodes l. Logs of events missing from the ABI, or without topics,
// decode to Unknown args.
func (d *Decoder) Decode(l types.Log) (Event, error) {
	e := Event{
		Address:          l.Address,
		BlockNumber:      l.BlockNumber,
		TransactionIndex: l.TxIndex,
		TransactionHash:  l.TxHash,
		LogIndex:         l.Index,
	}
	if len(l.Topics) == 0 {
		e.Args = Unknown{}
		return e, nil
	}
	ev, err := d.abi.EventByID(l.Topics[0])
	if err != nil {
		e.Args = Unknown{Topic: l.Topics[0]}
		return e, nil
	}

	fields := make(map[string]any)
	if err := ev.Inputs.UnpackIntoMap(fields, l.Data); err != nil {
		return e, fmt.Errorf("%w: %s data: %v", ErrMalformedEvent, ev.Name, err)
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, l.Topics[1:]); err != nil {
		return e, fmt.Errorf("%w: %s topics: %v", ErrMalformedEvent, ev.Name, err)
	}

	args, err := buildArgs(ev.Name, &fieldReader{fields: fields})
	if err != nil {
		return e, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, ev.Name, err)
	}
	e.Args = args
	return e, nil
}

// DecodeAll decodes logs in the given order.
func (d *Decoder) DecodeAll(logs []types.Log) ([]Event, error) {
	out := make([]Event, 0, len(logs))
	for _, l := range logs {
		e, err := d.Decode(l)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func buildArgs(name string, f *fieldReader) (Args, error) {
	args := buildFields(name, f)
	if f.err != nil {
		return nil, f.err
	}
	return args, nil
}

func buildFields(name string, f *fieldReader) Args {
	switch Kind(name) {
	case KindAddDeposit:
		return AddDeposit{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Season:  f.u32("season"),
			Amount:  f.num("amount"),
			BDV:     f.num("bdv"),
		}
	case KindRemoveDeposit:
		return RemoveDeposit{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Season:  f.u32("season"),
			Amount:  f.num("amount"),
		}
	case KindRemoveDeposits:
		return RemoveDeposits{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Seasons: f.u32s("seasons"),
			Amounts: f.nums("amounts"),
			Amount:  f.num("amount"),
		}
	case KindAddWithdrawal:
		return AddWithdrawal{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Season:  f.u32("season"),
			Amount:  f.num("amount"),
		}
	case KindRemoveWithdrawal:
		return RemoveWithdrawal{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Season:  f.u32("season"),
			Amount:  f.num("amount"),
		}
	case KindRemoveWithdrawals:
		return RemoveWithdrawals{
			Account: f.addr("account"),
			Token:   f.addr("token"),
			Seasons: f.u32s("seasons"),
			Amount:  f.num("amount"),
		}
	case KindSow:
		return Sow{
			Account:   f.addr("account"),
			Index:     f.num("index"),
			Hooligans: f.num("hooligans"),
			Rookies:   f.num("rookies"),
		}
	case KindDraft:
		return Draft{
			Account:   f.addr("account"),
			Plots:     f.nums("plots"),
			Hooligans: f.num("hooligans"),
		}
	case KindPlotTransfer:
		return PlotTransfer{
			From:    f.addr("from"),
			To:      f.addr("to"),
			ID:      f.num("id"),
			Rookies: f.num("rookies"),
		}
	case KindRookieListingCreated:
		return RookieListingCreated{
			Account:           f.addr("account"),
			Index:             f.num("index"),
			Start:             f.num("start"),
			Amount:            f.num("amount"),
			PricePerRookie:    f.num("pricePerRookie"),
			MaxDraftableIndex: f.num("maxDraftableIndex"),
			Mode:              mode.To(f.u8("mode")),
		}
	case KindRookieListingCancelled:
		return RookieListingCancelled{
			Account: f.addr("account"),
			Index:   f.num("index"),
		}
	case KindRookieListingFilled:
		return RookieListingFilled{
			From:   f.addr("from"),
			To:     f.addr("to"),
			Index:  f.num("index"),
			Start:  f.num("start"),
			Amount: f.num("amount"),
		}
	case KindRookieOrderCreated:
		return RookieOrderCreated{
			Account:        f.addr("account"),
			ID:             f.id("id"),
			Amount:         f.num("amount"),
			PricePerRookie: f.num("pricePerRookie"),
			MaxPlaceInLine: f.num("maxPlaceInLine"),
		}
	case KindRookieOrderCancelled:
		return RookieOrderCancelled{
			Account: f.addr("account"),
			ID:      f.id("id"),
		}
	case KindRookieOrderFilled:
		return RookieOrderFilled{
			From:   f.addr("from"),
			To:     f.addr("to"),
			ID:     f.id("id"),
			Index:  f.num("index"),
			Start:  f.num("start"),
			Amount: f.num("amount"),
		}
	}
	return Unknown{Name: name}
}

// fieldReader reads decoded event fields by ABI name. The first missing or
// mistyped field is kept in err and later reads return zero values.
type fieldReader struct {
	fields map[string]any
	err    error
}

func get[T any](fields map[string]any, name string) (T, error) {
	var zero T
	v, ok := fields[name]
	if !ok {
		return zero, fmt.Errorf("missing field %q", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("field %q has type %T", name, v)
	}
	return t, nil
}

func read[T any](f *fieldReader, name string) T {
	if f.err != nil {
		var zero T
		return zero
	}
	v, err := get[T](f.fields, name)
	if err != nil {
		f.err = err
	}
	return v
}

func (f *fieldReader) addr(name string) common.Address { return read[common.Address](f, name) }
func (f *fieldReader) u8(name string) uint8             { return read[uint8](f, name) }
func (f *fieldReader) u32(name string) uint32           { return read[uint32](f, name) }
func (f *fieldReader) u32s(name string) []uint32        { return read[[]uint32](f, name) }
func (f *fieldReader) num(name string) *big.Int         { return read[*big.Int](f, name) }
func (f *fieldReader) nums(name string) []*big.Int      { return read[[]*big.Int](f, name) }
func (f *fieldReader) id(name string) [32]byte          { return read[[32]byte](f, name) }
