package arb

import (
	"fmt"
	"sort"

	"github.com/surebetlabs/surebet/internal/hashutil"
)

// Kind tags which detection produced an opportunity. The numeric fields
// that are only meaningful for one kind live on that kind's detail struct,
// so consumers never interpret a guaranteed return on a value bet or an
// expected value on an arbitrage.
type Kind string

const (
	KindArbitrage Kind = "arbitrage"
	KindValueBet  Kind = "value_bet"
)

// Quote is one bookmaker's decimal price for one canonical outcome token.
type Quote struct {
	Price     float64
	Bookmaker string
	Outcome   string
}

// Leg is a priced leg of an opportunity. TrueProb is set only on value-bet
// legs, where it carries the sharp book's de-vigged probability.
type Leg struct {
	Bookmaker string  `json:"bookmaker"`
	Outcome   string  `json:"outcome"`
	Price     float64 `json:"price"`
	TrueProb  float64 `json:"true_prob,omitempty"`
}

// ArbDetail carries the numbers that only a guaranteed arbitrage has.
// GuaranteedReturn is the worst case over all outcomes, computed from the
// final rounded stakes, so ProfitPct holds even after quantization.
type ArbDetail struct {
	ProfitPct        float64            `json:"profit_percentage"`
	Stakes           map[string]float64 `json:"stake_allocations"` // "bookmaker|outcome" -> amount
	TotalInvestment  float64            `json:"total_investment"`
	GuaranteedReturn float64            `json:"guaranteed_return"`
}

// ValueDetail carries the numbers that only a value bet has. Nothing here
// is guaranteed; ExpectedValuePct is an edge versus the sharp reference.
type ValueDetail struct {
	ExpectedValuePct float64 `json:"expected_value_percentage"`
	TrueProb         float64 `json:"true_probability"`
	Stake            float64 `json:"stake"`
}

// Opportunity is a detected arbitrage or value bet. Event identity starts
// as placeholders and is stamped by the aggregator before the record leaves
// the detector; after that the record is read-only. The engine mints no IDs
// or timestamps, so identical inputs produce identical records.
type Opportunity struct {
	EventID    string `json:"event_id"`
	SportKey   string `json:"sport_key"`
	MarketType string `json:"market_type"`
	Kind       Kind   `json:"kind"`
	Legs       []Leg  `json:"legs"`

	Arb   *ArbDetail   `json:"arbitrage,omitempty"`
	Value *ValueDetail `json:"value_bet,omitempty"`
}

func newOpportunity(kind Kind, legs []Leg) *Opportunity {
	return &Opportunity{
		MarketType: "h2h", // placeholder until the aggregator attaches identity
		Kind:       kind,
		Legs:       legs,
	}
}

// ProfitPct returns the headline percentage for either kind: guaranteed
// profit for an arbitrage, expected value for a value bet.
func (o *Opportunity) ProfitPct() float64 {
	switch {
	case o.Arb != nil:
		return o.Arb.ProfitPct
	case o.Value != nil:
		return o.Value.ExpectedValuePct
	default:
		return 0
	}
}

// Row is the flat serialization handed to persistence and alert logging.
// Per-leg price detail is deliberately omitted; it stays on the in-memory
// record for the alert formatter.
func (o *Opportunity) Row() map[string]any {
	row := map[string]any{
		"event_id":          o.EventID,
		"sport_key":         o.SportKey,
		"market_type":       o.MarketType,
		"kind":              string(o.Kind),
		"profit_percentage": o.ProfitPct(),
	}
	if o.Arb != nil {
		row["total_investment"] = o.Arb.TotalInvestment
		row["guaranteed_return"] = o.Arb.GuaranteedReturn
		row["stake_allocations"] = o.Arb.Stakes
	}
	if o.Value != nil {
		row["total_investment"] = o.Value.Stake
		row["guaranteed_return"] = 0.0
		row["stake_allocations"] = map[string]float64{
			stakeKey(o.Legs[0].Bookmaker, o.Legs[0].Outcome): o.Value.Stake,
		}
	}
	return row
}

// Fingerprint identifies the opportunity by what it bets on, not by when it
// was detected, so repeated scans of unchanged prices dedupe to one alert.
func (o *Opportunity) Fingerprint() string {
	parts := []string{o.EventID, o.SportKey, o.MarketType, string(o.Kind)}
	legs := make([]string, 0, len(o.Legs))
	for _, leg := range o.Legs {
		legs = append(legs, fmt.Sprintf("%s|%s|%.4f", leg.Bookmaker, leg.Outcome, leg.Price))
	}
	sort.Strings(legs)
	return hashutil.HashStrings(append(parts, legs...)...)
}

func stakeKey(bookmaker, outcome string) string {
	return bookmaker + "|" + outcome
}
