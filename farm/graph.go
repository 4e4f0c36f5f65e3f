package farm

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/route"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// FirmSuffix marks the deposit target node of a whitelisted token.
const FirmSuffix = ":FIRM"

// FirmNode returns the deposit graph node for depositing t.
func FirmNode(t *tokens.Token) string {
	return t.Symbol + FirmSuffix
}

func build(fn func(account common.Address, from mode.From, to mode.To) workflow.Step) route.Builder {
	return func(account common.Address, from mode.From, to mode.To) (workflow.Step, error) {
		return fn(account, from, to), nil
	}
}

func (f *Farm) edge(g *route.Graph, from, to, label string, fn func(account common.Address, from mode.From, to mode.To) workflow.Step) {
	g.MustAddEdge(route.Edge{From: from, To: to, Label: label, Build: build(fn)})
}

// SwapGraph returns the graph of token swaps.
func (f *Farm) SwapGraph(opts ...route.GraphOption) *route.Graph {
	g := route.NewGraph(opts...)
	for _, s := range []string{"ETH", "WETH", "HOOLIGAN", "USDT", "USDC", "DAI", "3CRV"} {
		g.AddNode(s)
	}

	f.edge(g, "ETH", "WETH", "wrapEth", func(_ common.Address, _ mode.From, to mode.To) workflow.Step {
		return f.WrapEth(to)
	})
	f.edge(g, "WETH", "ETH", "unwrapEth", func(_ common.Address, from mode.From, _ mode.To) workflow.Step {
		return f.UnwrapEth(from)
	})
	f.edge(g, "WETH", "USDT", "exchange", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
		return f.Weth2Usdt(from, to)
	})
	f.edge(g, "USDT", "WETH", "exchange", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
		return f.Usdt2Weth(from, to)
	})

	hooligan := f.token("HOOLIGAN")
	for _, s := range []string{"USDT", "USDC", "DAI"} {
		t := f.token(s)
		f.edge(g, s, "HOOLIGAN", "exchangeUnderlying", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
			return f.ExchangeUnderlying(f.book.Hooligan3Crv, t, hooligan, from, to)
		})
		f.edge(g, "HOOLIGAN", s, "exchangeUnderlying", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
			return f.ExchangeUnderlying(f.book.Hooligan3Crv, hooligan, t, from, to)
		})
	}

	crv3 := f.token("3CRV")
	f.edge(g, "3CRV", "HOOLIGAN", "exchange", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
		return f.Exchange(f.book.Hooligan3Crv, f.book.MetaFactory, crv3, hooligan, from, to)
	})
	f.edge(g, "HOOLIGAN", "3CRV", "exchange", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
		return f.Exchange(f.book.Hooligan3Crv, f.book.MetaFactory, hooligan, crv3, from, to)
	})
	return g
}

// SwapSelfEdge moves a token between the account's balances. Native
// tokens have no self route.
func (f *Farm) SwapSelfEdge(node string) (route.Edge, bool) {
	t, ok := f.registry.FindBySymbol(node)
	if !ok || t.Native {
		return route.Edge{}, false
	}
	return route.Edge{
		From:  node,
		To:    node,
		Label: "transferToken",
		Build: build(func(account common.Address, from mode.From, to mode.To) workflow.Step {
			return f.TransferToken(t.Address, account, from, to)
		}),
	}, true
}

// SwapRouter returns a router over SwapGraph.
func (f *Farm) SwapRouter(opts ...route.GraphOption) *route.Router {
	return route.NewRouter(f.SwapGraph(opts...), f.SwapSelfEdge, route.WithRouterLogger(f.log))
}

// DepositGraph returns the graph of conversions into firm deposits. Every
// whitelisted token has an edge to its FirmNode.
func (f *Farm) DepositGraph(opts ...route.GraphOption) *route.Graph {
	g := route.NewGraph(opts...)
	whitelist := f.registry.Whitelist()
	for _, t := range whitelist {
		g.AddNode(t.Symbol)
		g.AddNode(FirmNode(t))
	}
	for _, s := range []string{"DAI", "USDC", "USDT", "3CRV", "WETH", "ETH"} {
		g.AddNode(s)
	}

	for _, t := range whitelist {
		f.edge(g, t.Symbol, FirmNode(t), "deposit", func(_ common.Address, from mode.From, _ mode.To) workflow.Step {
			return f.Deposit(t, from)
		})
	}

	// HOOLIGAN3CRV coins are [HOOLIGAN, 3CRV].
	for k, s := range []string{"HOOLIGAN", "3CRV"} {
		weights := []int64{0, 0}
		weights[k] = 1
		f.edge(g, s, "HOOLIGAN3CRV", "addLiquidity", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
			return f.AddLiquidity(f.book.Hooligan3Crv, f.book.MetaFactory, weights, from, to)
		})
	}

	// 3pool coins are [DAI, USDC, USDT].
	for k, s := range []string{"DAI", "USDC", "USDT"} {
		weights := []int64{0, 0, 0}
		weights[k] = 1
		f.edge(g, s, "3CRV", "addLiquidity", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
			return f.AddLiquidity(f.book.Pool3, f.book.PoolRegistry, weights, from, to)
		})
	}

	f.edge(g, "WETH", "USDT", "exchange", func(_ common.Address, from mode.From, to mode.To) workflow.Step {
		return f.Weth2Usdt(from, to)
	})
	f.edge(g, "ETH", "WETH", "wrapEth", func(_ common.Address, _ mode.From, to mode.To) workflow.Step {
		return f.WrapEth(to)
	})
	return g
}

// DepositSelfEdge passes a token through unchanged.
func (f *Farm) DepositSelfEdge(node string) (route.Edge, bool) {
	return route.Edge{
		From:  node,
		To:    node,
		Label: "devDebug",
		Build: build(func(common.Address, mode.From, mode.To) workflow.Step {
			return f.DevDebug(node + " -> " + node + " default")
		}),
	}, true
}
