package feed

import "time"

// Event is one sporting event with the markets every bookmaker currently
// prices for it. The shape mirrors what odds feeds deliver: events contain
// bookmaker entries, bookmakers contain markets, markets contain outcomes.
type Event struct {
	ID           string           `json:"id"`
	SportKey     string           `json:"sport_key"`
	CommenceTime time.Time        `json:"commence_time"`
	HomeTeam     string           `json:"home_team"`
	AwayTeam     string           `json:"away_team"`
	Bookmakers   []BookmakerEntry `json:"bookmakers"`
}

// BookmakerEntry holds one bookmaker's markets for an event.
type BookmakerEntry struct {
	Key     string   `json:"key"`
	Markets []Market `json:"markets"`
}

// Market is one priced market as the provider labels it; Key is the raw
// provider market key before normalization.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a single priced side. Price is decimal odds (>= 1.0); entries
// with non-positive prices are dropped at the feed boundary and never reach
// the detection math.
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DropInvalidPrices removes outcomes whose price cannot be a decimal odd.
// The detector assumes every price it sees is >= 1.0.
func DropInvalidPrices(ev Event) Event {
	for bi := range ev.Bookmakers {
		for mi := range ev.Bookmakers[bi].Markets {
			m := &ev.Bookmakers[bi].Markets[mi]
			kept := m.Outcomes[:0]
			for _, out := range m.Outcomes {
				if out.Price >= 1.0 {
					kept = append(kept, out)
				}
			}
			m.Outcomes = kept
		}
	}
	return ev
}
