package arb

import (
	"sort"

	"github.com/surebetlabs/surebet/internal/odds"
)

// ValueConfig drives the value-bet scan. RemoveVig defaults to the
// proportional overround model when nil.
type ValueConfig struct {
	SharpBookmaker string
	MinEVPct       float64
	MaxStake       float64
	Rounding       odds.RoundingPolicy
	RemoveVig      odds.VigRemover
}

// FindValueBets de-vigs the sharp bookmaker's prices into true
// probabilities and scans every other bookmaker for outcomes priced above
// fair value. Without sharp quotes there is no probability reference and
// the scan returns nothing. Outcomes the sharp book does not price are
// skipped: no reference, no edge estimate.
func FindValueBets(book Book, cfg ValueConfig) []*Opportunity {
	sharp, ok := book[cfg.SharpBookmaker]
	if !ok || len(sharp) == 0 {
		return nil
	}

	implied := make(map[string]float64, len(sharp))
	for outcome, price := range sharp {
		implied[outcome] = odds.ImpliedProbability(price)
	}

	removeVig := cfg.RemoveVig
	if removeVig == nil {
		removeVig = odds.RemoveVigProportional
	}
	trueProbs, err := removeVig(implied)
	if err != nil {
		return nil
	}

	bookmakers := make([]string, 0, len(book))
	for key := range book {
		if key != cfg.SharpBookmaker {
			bookmakers = append(bookmakers, key)
		}
	}
	sort.Strings(bookmakers)

	stake := odds.Round2(cfg.Rounding.Apply(cfg.MaxStake))

	var found []*Opportunity
	for _, bm := range bookmakers {
		outcomes := make([]string, 0, len(book[bm]))
		for outcome := range book[bm] {
			if _, priced := trueProbs[outcome]; priced {
				outcomes = append(outcomes, outcome)
			}
		}
		sort.Strings(outcomes)

		for _, outcome := range outcomes {
			price := book[bm][outcome]
			trueProb := trueProbs[outcome]
			evPct := (trueProb*price - 1) * 100
			if evPct < cfg.MinEVPct {
				continue
			}

			op := newOpportunity(KindValueBet, []Leg{{
				Bookmaker: bm,
				Outcome:   outcome,
				Price:     price,
				TrueProb:  trueProb,
			}})
			op.Value = &ValueDetail{
				ExpectedValuePct: odds.Round2(evPct),
				TrueProb:         trueProb,
				Stake:            stake,
			}
			found = append(found, op)
		}
	}
	return found
}
