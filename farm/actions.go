package farm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/permit"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// passThrough is the result of an action that moves amount without
// changing it. Reverse runs carry no call.
func passThrough(name string, amount *big.Int, rc *workflow.RunContext, prepare workflow.PrepareFunc) *workflow.StepResult {
	res := workflow.Passthrough(name, amount)
	if !rc.Reversed() {
		res.Prepare = prepare
	}
	return res
}

// WrapEth wraps the incoming ether into WETH.
type WrapEth struct {
	protocol *contracts.Contract
	to       mode.To
}

// WrapEth returns a step wrapping ether delivered to to.
func (f *Farm) WrapEth(to mode.To) *WrapEth {
	return &WrapEth{protocol: f.book.Protocol, to: to}
}

// Name implements workflow.Step.
func (a *WrapEth) Name() string { return "wrapEth" }

// Run implements workflow.Step. The amount is attached as call value.
func (a *WrapEth) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	res := passThrough(a.Name(), amountIn, rc, func(*workflow.RunContext) (*contracts.Call, error) {
		return a.protocol.Invoke("wrapEth", amountIn, a.to)
	})
	if !rc.Reversed() {
		res.Value = new(big.Int).Set(amountIn)
	}
	return res, nil
}

// UnwrapEth unwraps WETH into ether delivered to the caller's wallet.
type UnwrapEth struct {
	protocol *contracts.Contract
	from     mode.From
}

// UnwrapEth returns a step unwrapping WETH spent from from.
func (f *Farm) UnwrapEth(from mode.From) *UnwrapEth {
	return &UnwrapEth{protocol: f.book.Protocol, from: from}
}

// Name implements workflow.Step.
func (a *UnwrapEth) Name() string { return "unwrapEth" }

// Run implements workflow.Step.
func (a *UnwrapEth) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(*workflow.RunContext) (*contracts.Call, error) {
		return a.protocol.Invoke("unwrapEth", amountIn, a.from)
	}), nil
}

// TransferToken moves the incoming amount of a token to a recipient.
type TransferToken struct {
	protocol  *contracts.Contract
	token     common.Address
	recipient common.Address
	from      mode.From
	to        mode.To
}

// TransferToken returns a step sending token to recipient.
func (f *Farm) TransferToken(token, recipient common.Address, from mode.From, to mode.To) *TransferToken {
	return &TransferToken{protocol: f.book.Protocol, token: token, recipient: recipient, from: from, to: to}
}

// Name implements workflow.Step.
func (a *TransferToken) Name() string { return "transferToken" }

// Run implements workflow.Step.
func (a *TransferToken) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(*workflow.RunContext) (*contracts.Call, error) {
		return a.protocol.Invoke("transferToken", a.token, a.recipient, amountIn, a.from, a.to)
	}), nil
}

// resolvePermit returns p, or the permit stored in the run data.
func resolvePermit(p *permit.Signed, rc *workflow.RunContext) (*permit.Signed, error) {
	if p != nil {
		return p, nil
	}
	return permit.FromData(rc.Data)
}

// PermitERC20 submits a signed ERC-2612 approval.
type PermitERC20 struct {
	protocol *contracts.Contract
	token    common.Address
	permit   *permit.Signed
}

// PermitERC20 returns a step submitting p for token. A nil p is looked up
// under permit.ContextKey when the workflow is encoded.
func (f *Farm) PermitERC20(token common.Address, p *permit.Signed) *PermitERC20 {
	return &PermitERC20{protocol: f.book.Protocol, token: token, permit: p}
}

// Name implements workflow.Step.
func (a *PermitERC20) Name() string { return "permitERC20" }

// Run implements workflow.Step.
func (a *PermitERC20) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(rc *workflow.RunContext) (*contracts.Call, error) {
		p, err := resolvePermit(a.permit, rc)
		if err != nil {
			return nil, err
		}
		m, err := p.ERC2612()
		if err != nil {
			return nil, err
		}
		owner := m.Owner
		if owner == (common.Address{}) {
			owner = p.Owner
		}
		sig := p.Signature
		return a.protocol.Invoke("permitERC20", a.token, owner, m.Spender, m.Value, m.Deadline, sig.V, sig.R, sig.S)
	}), nil
}

// PermitDeposits submits a signed approval to transfer deposits.
type PermitDeposits struct {
	protocol *contracts.Contract
	permit   *permit.Signed
}

// PermitDeposits returns a step submitting p. Single-token messages encode
// permitDeposit, multi-token messages permitDeposits.
func (f *Farm) PermitDeposits(p *permit.Signed) *PermitDeposits {
	return &PermitDeposits{protocol: f.book.Protocol, permit: p}
}

// Name implements workflow.Step.
func (a *PermitDeposits) Name() string { return "permitDeposits" }

// Run implements workflow.Step.
func (a *PermitDeposits) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(rc *workflow.RunContext) (*contracts.Call, error) {
		p, err := resolvePermit(a.permit, rc)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		sig := p.Signature
		switch m := p.Message.(type) {
		case permit.DepositToken:
			return a.protocol.Invoke("permitDeposit", m.Owner, m.Spender, m.Token, m.Value, m.Deadline, sig.V, sig.R, sig.S)
		case permit.DepositTokens:
			return a.protocol.Invoke("permitDeposits", m.Owner, m.Spender, m.Tokens, m.Values, m.Deadline, sig.V, sig.R, sig.S)
		default:
			return nil, fmt.Errorf("%w: want deposit permit, got %T", permit.ErrMalformedPermit, p.Message)
		}
	}), nil
}

// Deposit deposits the incoming amount of a whitelisted token.
type Deposit struct {
	protocol *contracts.Contract
	token    *tokens.Token
	from     mode.From
}

// Deposit returns a step depositing token spent from from.
func (f *Farm) Deposit(token *tokens.Token, from mode.From) *Deposit {
	return &Deposit{protocol: f.book.Protocol, token: token, from: from}
}

// Name implements workflow.Step.
func (a *Deposit) Name() string { return "deposit" }

// Token returns the deposited token.
func (a *Deposit) Token() *tokens.Token { return a.token }

// Run implements workflow.Step.
func (a *Deposit) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(*workflow.RunContext) (*contracts.Call, error) {
		return a.protocol.Invoke("deposit", a.token.Address, amountIn, a.from)
	}), nil
}

// Mow adds an account's grown horde to its horde balance.
type Mow struct {
	protocol *contracts.Contract
	account  common.Address
}

// Mow returns a step mowing account. The zero address mows the workflow's
// account.
func (f *Farm) Mow(account common.Address) *Mow {
	return &Mow{protocol: f.book.Protocol, account: account}
}

// Name implements workflow.Step.
func (a *Mow) Name() string { return "update" }

// Run implements workflow.Step.
func (a *Mow) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(rc *workflow.RunContext) (*contracts.Call, error) {
		account := a.account
		if account == (common.Address{}) {
			account = rc.Account
		}
		return a.protocol.Invoke("update", account)
	}), nil
}

// Plant claims the caller's earned hooligans, earned horde and plantable
// prospects, mowing along the way.
type Plant struct {
	protocol *contracts.Contract
}

// Plant returns a step planting for the caller.
func (f *Farm) Plant() *Plant {
	return &Plant{protocol: f.book.Protocol}
}

// Name implements workflow.Step.
func (a *Plant) Name() string { return "plant" }

// Run implements workflow.Step.
func (a *Plant) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	return passThrough(a.Name(), amountIn, rc, func(*workflow.RunContext) (*contracts.Call, error) {
		return a.protocol.Invoke("plant")
	}), nil
}

// DevDebug logs the amount passing through and adds no call.
type DevDebug struct {
	message string
	log     log.Logger
}

// DevDebug returns a no-op step that logs message.
func (f *Farm) DevDebug(message string) *DevDebug {
	return &DevDebug{message: message, log: f.log}
}

// Name implements workflow.Step.
func (a *DevDebug) Name() string { return "devDebug" }

// Run implements workflow.Step.
func (a *DevDebug) Run(_ context.Context, amountIn *big.Int, rc *workflow.RunContext) (*workflow.StepResult, error) {
	a.log.Debug(a.message, "mode", rc.Mode, "index", rc.Index, "amount", amountIn)
	return workflow.Passthrough(a.Name(), amountIn), nil
}
