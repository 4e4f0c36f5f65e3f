package farm

import (
	"fmt"

	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/permit"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// Weth2Usdt swaps WETH for USDT on tricrypto2.
func (f *Farm) Weth2Usdt(from mode.From, to mode.To) workflow.Step {
	return f.Exchange(f.book.Tricrypto2, f.book.CryptoFactory, f.token("WETH"), f.token("USDT"), from, to)
}

// Usdt2Weth swaps USDT for WETH on tricrypto2.
func (f *Farm) Usdt2Weth(from mode.From, to mode.To) workflow.Step {
	return f.Exchange(f.book.Tricrypto2, f.book.CryptoFactory, f.token("USDT"), f.token("WETH"), from, to)
}

// Usdt2Hooligan swaps USDT for HOOLIGAN through the HOOLIGAN3CRV metapool.
func (f *Farm) Usdt2Hooligan(from mode.From, to mode.To) workflow.Step {
	return f.ExchangeUnderlying(f.book.Hooligan3Crv, f.token("USDT"), f.token("HOOLIGAN"), from, to)
}

// Hooligan2Usdt swaps HOOLIGAN for USDT through the HOOLIGAN3CRV metapool.
func (f *Farm) Hooligan2Usdt(from mode.From, to mode.To) workflow.Step {
	return f.ExchangeUnderlying(f.book.Hooligan3Crv, f.token("HOOLIGAN"), f.token("USDT"), from, to)
}

// Weth2Hooligan swaps WETH for HOOLIGAN through USDT, holding the USDT
// internally between the hops.
func (f *Farm) Weth2Hooligan(from mode.From, to mode.To) *workflow.Workflow {
	w := f.Create("weth2hooligan")
	// Add only fails on a running workflow.
	_ = w.Add(f.Weth2Usdt(from, mode.ToInternal), f.Usdt2Hooligan(mode.Internal, to))
	return w
}

// Hooligan2Weth swaps HOOLIGAN for WETH through USDT.
func (f *Farm) Hooligan2Weth(from mode.From, to mode.To) *workflow.Workflow {
	w := f.Create("hooligan2weth")
	_ = w.Add(f.Hooligan2Usdt(from, mode.ToInternal), f.Usdt2Weth(mode.Internal, to))
	return w
}

// LoadPipeline returns the steps that move the incoming amount of token
// from the caller's balance into the pipeline contract. A non-nil permit
// is submitted first and requires an external balance. Native tokens need
// no loading.
func (f *Farm) LoadPipeline(token *tokens.Token, from mode.From, p *permit.Signed) ([]workflow.Step, error) {
	if token.Native {
		return nil, nil
	}
	var steps []workflow.Step
	if p != nil {
		if from != mode.External {
			return nil, fmt.Errorf("%w: %s", ErrPermitMode, from)
		}
		steps = append(steps, f.PermitERC20(token.Address, p))
	}
	steps = append(steps, f.TransferToken(token.Address, f.book.Pipeline, from, mode.ToExternal))
	return steps, nil
}
