package markets

import "strings"

// Canonical market keys shared across bookmakers.
const (
	H2H     = "h2h"
	Spreads = "spreads"
	Totals  = "totals"
)

// aliasMap maps provider market keys to the canonical key. Keys absent here
// pass through lower-cased, so a novel market type still groups with itself
// across bookmakers, it just cannot share aliases with known synonyms.
var aliasMap = map[string]string{
	"h2h":          H2H,
	"h2h_lay":      H2H,
	"moneyline":    H2H,
	"match_winner": H2H,
	"1x2":          H2H,

	"spreads":        Spreads,
	"handicap":       Spreads,
	"asian_handicap": Spreads,

	"totals":     Totals,
	"over_under": Totals,
}

// NormalizeMarketKey converts a provider market key to the canonical key.
// e.g. "Moneyline" -> "h2h".
func NormalizeMarketKey(raw string) string {
	key := strings.ToLower(raw)
	if canonical, ok := aliasMap[key]; ok {
		return canonical
	}
	return key
}

// EquivalentMarkets returns every provider key that maps to the same
// canonical market, for callers that request multiple keys from a feed.
func EquivalentMarkets(key string) map[string]struct{} {
	canonical := NormalizeMarketKey(key)
	out := make(map[string]struct{})
	for raw, mapped := range aliasMap {
		if mapped == canonical {
			out[raw] = struct{}{}
		}
	}
	return out
}

var drawSynonyms = map[string]struct{}{
	"tie":      {},
	"the draw": {},
	"draw (x)": {},
}

// StandardizeOutcomeName reduces a provider outcome label to a compact
// canonical token so the same side matches across bookmakers.
// e.g. "Under 2.5 Goals" -> "u2.5". The same rules apply to every market
// type; marketType is accepted for future market-specific handling.
func StandardizeOutcomeName(raw, marketType string) string {
	_ = marketType

	name := strings.TrimSpace(strings.ToLower(raw))
	name = strings.ReplaceAll(name, "over ", "o")
	name = strings.ReplaceAll(name, "under ", "u")
	name = strings.TrimSpace(strings.ReplaceAll(name, "goals", ""))

	if _, ok := drawSynonyms[name]; ok {
		return "draw"
	}
	return name
}
