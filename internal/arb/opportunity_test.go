package arb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arbFixture() *Opportunity {
	return &Opportunity{
		EventID:    "ev-1",
		SportKey:   "soccer_epl",
		MarketType: "h2h",
		Kind:       KindArbitrage,
		Legs: []Leg{
			{Bookmaker: "betfair", Outcome: "teama", Price: 2.1},
			{Bookmaker: "pinnacle", Outcome: "teamb", Price: 2.1},
		},
		Arb: &ArbDetail{
			ProfitPct:        5.0,
			Stakes:           map[string]float64{"betfair|teama": 50, "pinnacle|teamb": 50},
			TotalInvestment:  100,
			GuaranteedReturn: 105,
		},
	}
}

func valueFixture() *Opportunity {
	return &Opportunity{
		EventID:    "ev-1",
		SportKey:   "soccer_epl",
		MarketType: "h2h",
		Kind:       KindValueBet,
		Legs: []Leg{
			{Bookmaker: "bet365", Outcome: "teama", Price: 2.3, TrueProb: 0.5},
		},
		Value: &ValueDetail{ExpectedValuePct: 15, TrueProb: 0.5, Stake: 1000},
	}
}

func TestProfitPctPerKind(t *testing.T) {
	assert.Equal(t, 5.0, arbFixture().ProfitPct())
	assert.Equal(t, 15.0, valueFixture().ProfitPct())
	assert.Equal(t, 0.0, (&Opportunity{}).ProfitPct())
}

func TestRowArbitrage(t *testing.T) {
	row := arbFixture().Row()
	assert.Equal(t, "ev-1", row["event_id"])
	assert.Equal(t, "arbitrage", row["kind"])
	assert.Equal(t, 5.0, row["profit_percentage"])
	assert.Equal(t, 100.0, row["total_investment"])
	assert.Equal(t, 105.0, row["guaranteed_return"])
	assert.Equal(t, map[string]float64{"betfair|teama": 50, "pinnacle|teamb": 50}, row["stake_allocations"])
}

// A value bet has no guaranteed return; the row says so rather than
// reusing the field for something else.
func TestRowValueBet(t *testing.T) {
	row := valueFixture().Row()
	assert.Equal(t, "value_bet", row["kind"])
	assert.Equal(t, 15.0, row["profit_percentage"])
	assert.Equal(t, 1000.0, row["total_investment"])
	assert.Equal(t, 0.0, row["guaranteed_return"])
	assert.Equal(t, map[string]float64{"bet365|teama": 1000}, row["stake_allocations"])
}

func TestFingerprintIgnoresLegOrder(t *testing.T) {
	op := arbFixture()
	swapped := arbFixture()
	swapped.Legs[0], swapped.Legs[1] = swapped.Legs[1], swapped.Legs[0]
	assert.Equal(t, op.Fingerprint(), swapped.Fingerprint())
}

func TestFingerprintChangesWithPrice(t *testing.T) {
	op := arbFixture()
	moved := arbFixture()
	moved.Legs[0].Price = 2.15
	assert.NotEqual(t, op.Fingerprint(), moved.Fingerprint())
}

func TestFingerprintSeparatesKinds(t *testing.T) {
	assert.NotEqual(t, arbFixture().Fingerprint(), valueFixture().Fingerprint())
}

func TestOpportunityJSONOmitsAbsentDetail(t *testing.T) {
	data, err := json.Marshal(valueFixture())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "arbitrage")
	assert.Contains(t, string(data), "value_bet")

	data, err = json.Marshal(arbFixture())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "value_bet")
	assert.NotContains(t, string(data), "true_prob")
}
