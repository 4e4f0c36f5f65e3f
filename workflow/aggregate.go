package workflow

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/contracts"
)

// PreparedCall is an encoded step call awaiting aggregation.
type PreparedCall struct {
	Index     int
	Step      string
	Call      *contracts.Call
	Clipboard *Clipboard
}

// Aggregator folds the calls of a run into a single call.
type Aggregator interface {
	Aggregate(calls []PreparedCall) (*contracts.Call, error)
}

// FarmAggregator batches protocol calls through farm(bytes[]). Every call
// must target the protocol itself.
type FarmAggregator struct {
	protocol *contracts.Contract
}

// NewFarmAggregator creates a FarmAggregator for protocol.
func NewFarmAggregator(protocol *contracts.Contract) *FarmAggregator {
	return &FarmAggregator{protocol: protocol}
}

// Aggregate implements Aggregator.
func (a *FarmAggregator) Aggregate(calls []PreparedCall) (*contracts.Call, error) {
	data := make([][]byte, 0, len(calls))
	total := new(big.Int)
	for _, c := range calls {
		if c.Call.Target() != a.protocol.Address() {
			return nil, &StepError{Index: c.Index, Step: c.Step, Err: fmt.Errorf("%w: %s", ErrForeignTarget, c.Call.Target().Hex())}
		}
		if c.Clipboard != nil && len(c.Clipboard.Pastes) > 0 {
			return nil, &StepError{Index: c.Index, Step: c.Step, Err: fmt.Errorf("%w: farm calls cannot paste", ErrInvalidClipboard)}
		}
		data = append(data, c.Call.Data())
		total.Add(total, c.Call.Value())
	}
	call, err := a.protocol.Invoke("farm", data)
	if err != nil {
		return nil, err
	}
	return call.WithValue(total), nil
}

// AdvancedPipeCall is one entry of advancedPipe. Field names follow the
// tuple components of the ABI.
type AdvancedPipeCall struct {
	Target    common.Address
	CallData  []byte
	Clipboard []byte
}

// PipeAggregator batches arbitrary calls through the protocol's
// advancedPipe, attaching each call's clipboard. A paste may only read the
// return data of an earlier call.
type PipeAggregator struct {
	protocol *contracts.Contract
}

// NewPipeAggregator creates a PipeAggregator for protocol.
func NewPipeAggregator(protocol *contracts.Contract) *PipeAggregator {
	return &PipeAggregator{protocol: protocol}
}

// Aggregate implements Aggregator.
func (a *PipeAggregator) Aggregate(calls []PreparedCall) (*contracts.Call, error) {
	pipes := make([]AdvancedPipeCall, 0, len(calls))
	total := new(big.Int)
	for pos, c := range calls {
		var clip Clipboard
		if c.Clipboard != nil {
			clip.Pastes = c.Clipboard.Pastes
		}
		for _, p := range clip.Pastes {
			if p.ReturnData >= pos {
				return nil, &StepError{Index: c.Index, Step: c.Step, Err: fmt.Errorf("%w: paste reads call %d from call %d", ErrInvalidClipboard, p.ReturnData, pos)}
			}
		}
		if c.Call.HasValue() {
			clip.Value = c.Call.Value()
			total.Add(total, clip.Value)
		}
		encoded, err := clip.Encode()
		if err != nil {
			return nil, &StepError{Index: c.Index, Step: c.Step, Err: err}
		}
		pipes = append(pipes, AdvancedPipeCall{Target: c.Call.Target(), CallData: c.Call.Data(), Clipboard: encoded})
	}
	call, err := a.protocol.Invoke("advancedPipe", pipes, total)
	if err != nil {
		return nil, err
	}
	return call.WithValue(total), nil
}
