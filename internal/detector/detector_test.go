package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surebetlabs/surebet/internal/arb"
	"github.com/surebetlabs/surebet/internal/feed"
)

func testOptions() Options {
	return Options{
		MinProfitPct:   0.5,
		MaxProfitPct:   30,
		MinEVPct:       2,
		MaxStake:       1000,
		SharpBookmaker: "pinnacle",
	}
}

func h2hEvent(key1, key2 string) feed.Event {
	return feed.Event{
		ID:       "ev-1",
		SportKey: "soccer_epl",
		HomeTeam: "Team A",
		AwayTeam: "Team B",
		Bookmakers: []feed.BookmakerEntry{
			{
				Key: "betfair",
				Markets: []feed.Market{{
					Key: key1,
					Outcomes: []feed.Outcome{
						{Name: "Team A", Price: 2.10},
						{Name: "Team B", Price: 1.80},
					},
				}},
			},
			{
				Key: "pinnacle",
				Markets: []feed.Market{{
					Key: key2,
					Outcomes: []feed.Outcome{
						{Name: "Team A", Price: 1.80},
						{Name: "Team B", Price: 2.10},
					},
				}},
			},
		},
	}
}

func TestProcessEventsFindsArbitrage(t *testing.T) {
	found := ProcessEvents([]feed.Event{h2hEvent("h2h", "h2h")}, testOptions())
	require.Len(t, found, 1)

	op := found[0]
	assert.Equal(t, arb.KindArbitrage, op.Kind)
	assert.Equal(t, "ev-1", op.EventID)
	assert.Equal(t, "soccer_epl", op.SportKey)
	assert.Equal(t, "h2h", op.MarketType)
	require.NotNil(t, op.Arb)
	assert.InDelta(t, 5.0, op.Arb.ProfitPct, 0.01)
}

// The same market spelled "moneyline" at one book and "h2h" at another must
// fold into one canonical book, or cross-book arbitrage never triggers.
func TestProcessEventsNormalizesMarketKeys(t *testing.T) {
	found := ProcessEvents([]feed.Event{h2hEvent("moneyline", "h2h")}, testOptions())
	require.Len(t, found, 1)
	assert.Equal(t, "h2h", found[0].MarketType)
}

func TestProcessEventsStandardizesOutcomeNames(t *testing.T) {
	ev := feed.Event{
		ID:       "ev-2",
		SportKey: "soccer_epl",
		Bookmakers: []feed.BookmakerEntry{
			{
				Key: "betfair",
				Markets: []feed.Market{{
					Key: "totals",
					Outcomes: []feed.Outcome{
						{Name: "Over 2.5 Goals", Price: 2.10},
						{Name: "Under 2.5 Goals", Price: 1.80},
					},
				}},
			},
			{
				Key: "pinnacle",
				Markets: []feed.Market{{
					Key: "over_under",
					Outcomes: []feed.Outcome{
						{Name: "Over 2.5", Price: 1.80},
						{Name: "Under 2.5", Price: 2.10},
					},
				}},
			},
		},
	}

	found := ProcessEvents([]feed.Event{ev}, testOptions())
	require.Len(t, found, 1)

	op := found[0]
	assert.Equal(t, "totals", op.MarketType)
	assert.ElementsMatch(t,
		[]string{"o2.5", "u2.5"},
		[]string{op.Legs[0].Outcome, op.Legs[1].Outcome})
}

func TestProcessEventsValueBets(t *testing.T) {
	ev := feed.Event{
		ID:       "ev-3",
		SportKey: "basketball_nba",
		Bookmakers: []feed.BookmakerEntry{
			{
				Key: "pinnacle",
				Markets: []feed.Market{{
					Key: "h2h",
					Outcomes: []feed.Outcome{
						{Name: "Team A", Price: 2.0},
						{Name: "Team B", Price: 2.0},
					},
				}},
			},
			{
				Key: "bet365",
				Markets: []feed.Market{{
					Key: "h2h",
					Outcomes: []feed.Outcome{
						{Name: "Team A", Price: 2.3},
						{Name: "Team B", Price: 1.6},
					},
				}},
			},
		},
	}

	opts := testOptions()
	opts.ValueBets = true
	found := ProcessEvents([]feed.Event{ev}, opts)

	var values []*arb.Opportunity
	for _, op := range found {
		if op.Kind == arb.KindValueBet {
			values = append(values, op)
		}
	}
	require.Len(t, values, 1)
	assert.Equal(t, "ev-3", values[0].EventID)
	assert.Equal(t, "h2h", values[0].MarketType)
	assert.InDelta(t, 15.0, values[0].Value.ExpectedValuePct, 0.01)

	opts.ValueBets = false
	for _, op := range ProcessEvents([]feed.Event{ev}, opts) {
		assert.NotEqual(t, arb.KindValueBet, op.Kind)
	}
}

// A single bookmaker cannot be arbitraged against itself, however good its
// prices look.
func TestProcessEventsSingleBookmaker(t *testing.T) {
	ev := feed.Event{
		ID:       "ev-4",
		SportKey: "soccer_epl",
		Bookmakers: []feed.BookmakerEntry{{
			Key: "betfair",
			Markets: []feed.Market{{
				Key: "h2h",
				Outcomes: []feed.Outcome{
					{Name: "Team A", Price: 2.2},
					{Name: "Team B", Price: 2.2},
				},
			}},
		}},
	}
	assert.Empty(t, ProcessEvents([]feed.Event{ev}, testOptions()))
}

func TestProcessEventsSkipsInvalidPrices(t *testing.T) {
	ev := h2hEvent("h2h", "h2h")
	ev.Bookmakers[0].Markets[0].Outcomes[0].Price = 0.9

	found := ProcessEvents([]feed.Event{ev}, testOptions())
	// Best remaining Team A price is pinnacle's 1.80; no edge survives.
	assert.Empty(t, found)
}

func TestProcessEventsDeterministic(t *testing.T) {
	events := []feed.Event{h2hEvent("h2h", "h2h")}
	first := ProcessEvents(events, testOptions())
	second := ProcessEvents(events, testOptions())
	assert.Equal(t, first, second)
}
