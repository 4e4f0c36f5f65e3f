package farm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/route"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// DepositBuilder creates deposit operations routed over DepositGraph.
type DepositBuilder struct {
	farm   *Farm
	router *route.Router
}

// NewDepositBuilder creates a DepositBuilder.
func (f *Farm) NewDepositBuilder(opts ...route.GraphOption) *DepositBuilder {
	return &DepositBuilder{
		farm:   f,
		router: route.NewRouter(f.DepositGraph(opts...), f.DepositSelfEdge, route.WithRouterLogger(f.log)),
	}
}

// Router returns the deposit router.
func (b *DepositBuilder) Router() *route.Router {
	return b.router
}

// BuildDeposit returns an operation depositing into target on behalf of
// account. The workflow options are applied to the workflow the operation
// builds once its input token is set.
func (b *DepositBuilder) BuildDeposit(target *tokens.Token, account common.Address, opts ...workflow.Option) (*DepositOperation, error) {
	if !b.farm.registry.IsWhitelisted(target) {
		return nil, fmt.Errorf("%w: cannot deposit %s", ErrNotWhitelisted, target.Symbol)
	}
	return &DepositOperation{
		farm:    b.farm,
		router:  b.router,
		target:  target,
		account: account,
		from:    mode.External,
		opts:    append([]workflow.Option{workflow.WithAccount(account)}, opts...),
	}, nil
}

// DepositOperation converts an input token into a deposit of its target.
// Like a Workflow, it is owned by one goroutine at a time.
type DepositOperation struct {
	farm    *Farm
	router  *route.Router
	target  *tokens.Token
	account common.Address
	from    mode.From
	opts    []workflow.Option

	input    *tokens.Token
	route    *route.Route
	workflow *workflow.Workflow
}

// Target returns the token being deposited.
func (op *DepositOperation) Target() *tokens.Token {
	return op.target
}

// Input returns the input token, or nil if none is set.
func (op *DepositOperation) Input() *tokens.Token {
	return op.input
}

// Route returns the route of the current input, or nil.
func (op *DepositOperation) Route() *route.Route {
	return op.route
}

// Workflow returns the workflow of the current input, or nil.
func (op *DepositOperation) Workflow() *workflow.Workflow {
	return op.workflow
}

// SetFromMode sets the balance the input is spent from and rebuilds the
// workflow if an input is set. Default is mode.External.
func (op *DepositOperation) SetFromMode(from mode.From) error {
	op.from = from
	if op.input == nil {
		return nil
	}
	return op.SetInputToken(op.input)
}

// SetInputToken routes input to the target's firm node and builds the
// workflow for it.
func (op *DepositOperation) SetInputToken(input *tokens.Token) error {
	r := op.router.GetRoute(input.Symbol, FirmNode(op.target))
	if r.Empty() {
		return fmt.Errorf("%w: %s to %s", route.ErrNoRoute, input.Symbol, FirmNode(op.target))
	}
	steps, err := r.Materialize(op.account, op.from, mode.ToInternal)
	if err != nil {
		return err
	}
	w := op.farm.Create(fmt.Sprintf("deposit %s as %s", input.Symbol, op.target.Symbol), op.opts...)
	if err := w.Add(steps...); err != nil {
		return err
	}
	op.input, op.route, op.workflow = input, r, w
	op.farm.log.Debug("Deposit route", "input", input.Symbol, "target", op.target.Symbol, "route", r.String())
	return nil
}

func (op *DepositOperation) ready() error {
	if op.workflow == nil {
		return ErrNoInputToken
	}
	return nil
}

// Estimate returns the amount of the target deposited for amountIn of the
// input.
func (op *DepositOperation) Estimate(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	if err := op.ready(); err != nil {
		return nil, err
	}
	return op.workflow.Estimate(ctx, amountIn)
}

// Execute submits the deposit with slippage in percent.
func (op *DepositOperation) Execute(ctx context.Context, amountIn *big.Int, slippage float64) (*workflow.Transaction, error) {
	if err := op.ready(); err != nil {
		return nil, err
	}
	return op.workflow.Execute(ctx, amountIn, workflow.ExecuteOptions{Slippage: slippage})
}

// DepositSummary describes the last run of a deposit operation: the
// conversions performed and the deposit they end in.
type DepositSummary struct {
	Steps     []workflow.StepSummary
	Token     *tokens.Token
	Amount    *big.Int
	BDV       *big.Int
	Horde     *big.Int
	Prospects *big.Int
}

// Summary describes the last Estimate or Execute. The deposit's BDV is
// read from the protocol.
func (op *DepositOperation) Summary(ctx context.Context) (*DepositSummary, error) {
	if err := op.ready(); err != nil {
		return nil, err
	}
	steps := op.workflow.Summary()
	if len(steps) == 0 {
		return nil, workflow.ErrNotRun
	}
	amount := steps[len(steps)-1].AmountOut
	bdv, err := op.farm.book.Protocol.ReadBig(ctx, op.farm.caller, "bdv", op.target.Address, amount)
	if err != nil {
		return nil, err
	}
	return &DepositSummary{
		Steps:     steps,
		Token:     op.target,
		Amount:    new(big.Int).Set(amount),
		BDV:       bdv,
		Horde:     op.target.Horde(bdv),
		Prospects: op.target.Prospects(bdv),
	}, nil
}
