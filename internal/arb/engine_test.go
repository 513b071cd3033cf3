package arb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surebetlabs/surebet/internal/odds"
)

func testConfig() Config {
	return Config{MinProfitPct: 0.5, MaxProfitPct: 30}
}

func TestEvaluateFindsArbitrage(t *testing.T) {
	quotes := []Quote{
		{Price: 2.10, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 2.10, Bookmaker: "pinnacle", Outcome: "teamb"},
	}

	op := Evaluate(quotes, testConfig())
	require.NotNil(t, op)
	require.NotNil(t, op.Arb)
	assert.Nil(t, op.Value)
	assert.Equal(t, KindArbitrage, op.Kind)

	// 1/2.1 + 1/2.1 = 0.9524 implied; the edge is 1/0.9524 - 1 = 5%.
	assert.InDelta(t, 5.0, op.Arb.ProfitPct, 0.01)
	assert.InDelta(t, 50.0, op.Arb.Stakes["betfair|teama"], 0.01)
	assert.InDelta(t, 50.0, op.Arb.Stakes["pinnacle|teamb"], 0.01)
	assert.InDelta(t, 100.0, op.Arb.TotalInvestment, 0.01)
	assert.InDelta(t, 105.0, op.Arb.GuaranteedReturn, 0.01)
	require.Len(t, op.Legs, 2)
	assert.Equal(t, Leg{Bookmaker: "betfair", Outcome: "teama", Price: 2.10}, op.Legs[0])
}

func TestEvaluateNoEdge(t *testing.T) {
	// 1/1.9 + 1/1.9 > 1: the book keeps its margin.
	quotes := []Quote{
		{Price: 1.90, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 1.90, Bookmaker: "pinnacle", Outcome: "teamb"},
	}
	assert.Nil(t, Evaluate(quotes, testConfig()))
}

func TestEvaluateBelowMinProfit(t *testing.T) {
	// 1/2.005 + 1/2.005 = 0.99751: a 0.25% edge, under the 0.5% floor.
	quotes := []Quote{
		{Price: 2.005, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 2.005, Bookmaker: "pinnacle", Outcome: "teamb"},
	}
	assert.Nil(t, Evaluate(quotes, testConfig()))
}

func TestEvaluateTooFewQuotes(t *testing.T) {
	assert.Nil(t, Evaluate(nil, testConfig()))
	assert.Nil(t, Evaluate([]Quote{{Price: 5.0, Bookmaker: "betfair", Outcome: "teama"}}, testConfig()))
}

// Implausibly large edges are bad data, not free money.
func TestEvaluateSanityCeiling(t *testing.T) {
	quotes := []Quote{
		{Price: 3.0, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 3.0, Bookmaker: "pinnacle", Outcome: "teamb"},
	}
	assert.Nil(t, Evaluate(quotes, testConfig()))

	cfg := testConfig()
	cfg.MaxProfitPct = 60
	op := Evaluate(quotes, cfg)
	require.NotNil(t, op)
	assert.InDelta(t, 50.0, op.Arb.ProfitPct, 0.01)
}

// Before rounding, proportional stakes equalize the payout: the return is
// the same whichever outcome resolves, and it matches min(stake * price).
func TestEvaluateProportionalStakesEqualizePayout(t *testing.T) {
	quotes := []Quote{
		{Price: 2.5, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 2.2, Bookmaker: "pinnacle", Outcome: "teamb"},
	}

	op := Evaluate(quotes, testConfig())
	require.NotNil(t, op)

	stakeA := op.Arb.Stakes["betfair|teama"]
	stakeB := op.Arb.Stakes["pinnacle|teamb"]
	assert.InDelta(t, 100.0, stakeA+stakeB, 0.05)
	assert.InDelta(t, stakeA*2.5, stakeB*2.2, 0.05)
	assert.InDelta(t, stakeA*2.5, op.Arb.GuaranteedReturn, 0.05)
	assert.InDelta(t, 17.02, op.Arb.ProfitPct, 0.01)
}

func TestEvaluateRoundedStakes(t *testing.T) {
	cfg := testConfig()
	cfg.Rounding = odds.RoundingPolicy{Enabled: true, Base: 5}

	quotes := []Quote{
		{Price: 2.5, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 2.2, Bookmaker: "pinnacle", Outcome: "teamb"},
	}

	op := Evaluate(quotes, cfg)
	require.NotNil(t, op)

	// 46.81/53.19 quantize to 45/55; the profit is re-derived from the
	// rounded stakes, not the nominal allocation.
	assert.Equal(t, 45.0, op.Arb.Stakes["betfair|teama"])
	assert.Equal(t, 55.0, op.Arb.Stakes["pinnacle|teamb"])
	assert.Equal(t, 100.0, op.Arb.TotalInvestment)
	assert.InDelta(t, 112.5, op.Arb.GuaranteedReturn, 0.01) // min(45*2.5, 55*2.2)
	assert.InDelta(t, 12.5, op.Arb.ProfitPct, 0.01)
}

// A coarse rounding base can push both stakes onto the same multiple and
// destroy the edge entirely; the evaluation reports nothing rather than a
// loss-making "arbitrage".
func TestEvaluateRoundingConsumesEdge(t *testing.T) {
	cfg := testConfig()
	cfg.Rounding = odds.RoundingPolicy{Enabled: true, Base: 50}

	quotes := []Quote{
		{Price: 3.0, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 1.6, Bookmaker: "pinnacle", Outcome: "teamb"},
	}
	assert.Nil(t, Evaluate(quotes, cfg))
}

// Identical inputs must produce identical records: the engine mints no IDs
// or timestamps, so batch re-runs dedupe downstream.
func TestEvaluateDeterministic(t *testing.T) {
	quotes := []Quote{
		{Price: 2.10, Bookmaker: "betfair", Outcome: "teama"},
		{Price: 2.10, Bookmaker: "pinnacle", Outcome: "teamb"},
	}
	first := Evaluate(quotes, testConfig())
	second := Evaluate(quotes, testConfig())
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}
