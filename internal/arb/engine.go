package arb

import (
	"math"

	"github.com/surebetlabs/surebet/internal/odds"
)

// Config carries the thresholds and stake policy for one evaluation. It is
// passed by value into every call so concurrent scans with different
// settings never share state.
type Config struct {
	MinProfitPct float64
	MaxProfitPct float64
	Rounding     odds.RoundingPolicy
}

// Stakes are allocated against a nominal total before rounding; callers
// scale to their bankroll downstream.
const nominalInvestment = 100.0

// Evaluate tests a best-price tuple for guaranteed profit. It returns nil
// for every no-opportunity case: fewer than two quotes, no arbitrage edge,
// an edge consumed by stake rounding, or a profit above the sanity ceiling
// (implausible results come from bad or stale quotes, typically mismatched
// markets, and are dropped rather than flagged).
func Evaluate(quotes []Quote, cfg Config) *Opportunity {
	if len(quotes) < 2 {
		return nil
	}

	probs := make([]float64, len(quotes))
	totalProb := 0.0
	for i, q := range quotes {
		probs[i] = odds.ImpliedProbability(q.Price)
		totalProb += probs[i]
	}

	if totalProb >= 1-(cfg.MinProfitPct/100) {
		return nil
	}

	// Proportional allocation: each outcome's stake covers the same payout,
	// so before rounding the return is identical whichever outcome resolves.
	stakes := make(map[string]float64, len(quotes))
	roundedTotal := 0.0
	guaranteed := math.Inf(1)
	for i, q := range quotes {
		stake := nominalInvestment * (probs[i] / totalProb)
		stake = cfg.Rounding.Apply(stake)
		stakes[stakeKey(q.Bookmaker, q.Outcome)] = odds.Round2(stake)
		roundedTotal += stake

		// Payout if this outcome resolves; every other stake is forfeited.
		if revenue := stake * q.Price; revenue < guaranteed {
			guaranteed = revenue
		}
	}

	profitPct := (guaranteed - roundedTotal) / roundedTotal * 100
	if profitPct > cfg.MaxProfitPct {
		return nil
	}
	if profitPct <= 0 {
		return nil // rounding consumed the edge
	}

	legs := make([]Leg, len(quotes))
	for i, q := range quotes {
		legs[i] = Leg{Bookmaker: q.Bookmaker, Outcome: q.Outcome, Price: q.Price}
	}

	op := newOpportunity(KindArbitrage, legs)
	op.Arb = &ArbDetail{
		ProfitPct:        odds.Round2(profitPct),
		Stakes:           stakes,
		TotalInvestment:  odds.Round2(roundedTotal),
		GuaranteedReturn: odds.Round2(guaranteed),
	}
	return op
}
