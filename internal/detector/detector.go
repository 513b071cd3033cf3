package detector

import (
	"sort"

	"github.com/surebetlabs/surebet/internal/arb"
	"github.com/surebetlabs/surebet/internal/config"
	"github.com/surebetlabs/surebet/internal/feed"
	"github.com/surebetlabs/surebet/internal/markets"
	"github.com/surebetlabs/surebet/internal/odds"
)

// Options bundles the read-only settings one scan pass needs. Copying them
// out of the process config keeps every detector invocation a pure function
// of its arguments.
type Options struct {
	MinProfitPct   float64
	MaxProfitPct   float64
	MinEVPct       float64
	MaxStake       float64
	SharpBookmaker string
	Rounding       odds.RoundingPolicy
	ValueBets      bool
}

// FromConfig derives scan options from the environment config.
func FromConfig(cfg config.Config) Options {
	return Options{
		MinProfitPct:   cfg.MinProfitPct,
		MaxProfitPct:   cfg.MaxProfitPct,
		MinEVPct:       cfg.MinEVPct,
		MaxStake:       cfg.MaxStake,
		SharpBookmaker: cfg.SharpBookmaker,
		Rounding:       odds.RoundingPolicy{Enabled: cfg.RoundStakes, Base: cfg.RoundingBase},
		ValueBets:      true,
	}
}

// ProcessEvents runs the full detection pass over an ingestion batch:
// normalize market keys and outcome labels, group quotes into per-event
// per-canonical-market books, enumerate schemas, pick best prices, test
// for arbitrage, and optionally scan each book for value bets. Every
// returned record carries the originating event and sport identity.
func ProcessEvents(events []feed.Event, opts Options) []*arb.Opportunity {
	var found []*arb.Opportunity
	for _, ev := range events {
		found = append(found, processEvent(ev, opts)...)
	}
	return found
}

func processEvent(ev feed.Event, opts Options) []*arb.Opportunity {
	books := groupBooks(ev)

	marketKeys := make([]string, 0, len(books))
	for key := range books {
		marketKeys = append(marketKeys, key)
	}
	sort.Strings(marketKeys)

	engineCfg := arb.Config{
		MinProfitPct: opts.MinProfitPct,
		MaxProfitPct: opts.MaxProfitPct,
		Rounding:     opts.Rounding,
	}
	valueCfg := arb.ValueConfig{
		SharpBookmaker: opts.SharpBookmaker,
		MinEVPct:       opts.MinEVPct,
		MaxStake:       opts.MaxStake,
		Rounding:       opts.Rounding,
	}

	var found []*arb.Opportunity
	for _, marketKey := range marketKeys {
		book := books[marketKey]

		for _, schema := range arb.BuildSchemas(book) {
			quotes := arb.BestPrices(book, schema)
			if quotes == nil {
				continue
			}
			if op := arb.Evaluate(quotes, engineCfg); op != nil {
				stamp(op, ev, marketKey)
				found = append(found, op)
			}
		}

		if opts.ValueBets {
			for _, op := range arb.FindValueBets(book, valueCfg) {
				stamp(op, ev, marketKey)
				found = append(found, op)
			}
		}
	}
	return found
}

// groupBooks folds one event's raw bookmaker markets into canonical books:
// canonical market key -> bookmaker -> canonical outcome token -> price.
// Non-positive prices are dropped here as a second line of defense; the
// engine divides by them unchecked.
func groupBooks(ev feed.Event) map[string]arb.Book {
	books := make(map[string]arb.Book)
	for _, bm := range ev.Bookmakers {
		for _, market := range bm.Markets {
			canonical := markets.NormalizeMarketKey(market.Key)
			for _, outcome := range market.Outcomes {
				if outcome.Price < 1.0 {
					continue
				}
				token := markets.StandardizeOutcomeName(outcome.Name, canonical)
				book := books[canonical]
				if book == nil {
					book = make(arb.Book)
					books[canonical] = book
				}
				if book[bm.Key] == nil {
					book[bm.Key] = make(map[string]float64)
				}
				book[bm.Key][token] = outcome.Price
			}
		}
	}
	return books
}

func stamp(op *arb.Opportunity, ev feed.Event, marketKey string) {
	op.EventID = ev.ID
	op.SportKey = ev.SportKey
	op.MarketType = marketKey
}
