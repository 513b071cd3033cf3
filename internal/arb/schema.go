package arb

import "sort"

// Book maps bookmaker key -> canonical outcome token -> decimal price, for
// one event and one canonical market. Tokens must already be normalized;
// two books spelling the same side differently will never be matched into
// one schema (a silent false negative, not an error).
type Book map[string]map[string]float64

// Schema is one complete, mutually exclusive set of outcome tokens that
// resolves a single market: {c1, c2} or {c1, c2, draw}.
type Schema []string

// drawToken reports whether a token names the draw side of a 3-way market.
func drawToken(token string) bool {
	return token == "draw" || token == "x"
}

// BuildSchemas enumerates the candidate markets hidden in a book's token
// set. Competitor tokens are paired exhaustively; each pair becomes a 3-way
// schema per draw token seen, or a 2-way schema when no draw exists.
// N competitors therefore yield C(N,2) schemas, never one N+1-way market:
// competitor sets beyond pairs are usually distinct games' outcomes mixed
// together, not one N-way market.
func BuildSchemas(book Book) []Schema {
	seen := make(map[string]struct{})
	var draws, competitors []string
	for _, quotes := range book {
		for token := range quotes {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			if drawToken(token) {
				draws = append(draws, token)
			} else {
				competitors = append(competitors, token)
			}
		}
	}
	sort.Strings(draws)
	sort.Strings(competitors)

	var schemas []Schema
	for i := 0; i < len(competitors); i++ {
		for j := i + 1; j < len(competitors); j++ {
			if len(draws) == 0 {
				schemas = append(schemas, Schema{competitors[i], competitors[j]})
				continue
			}
			for _, draw := range draws {
				schemas = append(schemas, Schema{competitors[i], competitors[j], draw})
			}
		}
	}
	return schemas
}

// BestPrices picks, per outcome in the schema, the bookmaker offering the
// strictly highest price. It returns nil when any outcome has no offer, or
// when one bookmaker holds every best price: a single book cannot be
// arbitraged against itself.
func BestPrices(book Book, schema Schema) []Quote {
	bookmakers := make([]string, 0, len(book))
	for key := range book {
		bookmakers = append(bookmakers, key)
	}
	sort.Strings(bookmakers)

	quotes := make([]Quote, 0, len(schema))
	distinct := make(map[string]struct{})
	for _, outcome := range schema {
		best := Quote{Outcome: outcome}
		for _, bm := range bookmakers {
			price, ok := book[bm][outcome]
			if !ok {
				continue
			}
			if price > best.Price {
				best.Price = price
				best.Bookmaker = bm
			}
		}
		if best.Bookmaker == "" {
			return nil // no coverage for this outcome
		}
		quotes = append(quotes, best)
		distinct[best.Bookmaker] = struct{}{}
	}

	if len(distinct) < 2 {
		return nil
	}
	return quotes
}
