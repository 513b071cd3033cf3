package odds

import (
	"fmt"
	"math"
)

// ImpliedProbability converts a decimal price into its implied probability.
// Prices below 1.0 are invalid upstream and must be filtered by the caller.
func ImpliedProbability(price float64) float64 {
	return 1 / price
}

// Overround returns the bookmaker margin of a full outcome set: the amount
// by which the summed implied probabilities exceed 1.0.
func Overround(prices []float64) float64 {
	total := 0.0
	for _, p := range prices {
		total += ImpliedProbability(p)
	}
	return total - 1
}

// VigRemover maps a set of implied probabilities (summing to more than 1.0
// in a priced market) to an estimate of the true probabilities. The margin
// model is deliberately pluggable; RemoveVigProportional is the default.
type VigRemover func(probs map[string]float64) (map[string]float64, error)

// RemoveVigProportional normalizes implied probabilities to sum to 1.0,
// which distributes the margin proportionally to each outcome's raw
// implied probability.
func RemoveVigProportional(probs map[string]float64) (map[string]float64, error) {
	if len(probs) == 0 {
		return nil, fmt.Errorf("no probabilities provided")
	}
	total := 0.0
	for outcome, p := range probs {
		if p <= 0 {
			return nil, fmt.Errorf("non-positive probability for %q", outcome)
		}
		total += p
	}
	fair := make(map[string]float64, len(probs))
	for outcome, p := range probs {
		fair[outcome] = p / total
	}
	return fair, nil
}

// RoundingPolicy quantizes stakes to multiples of a base unit so bet sizes
// look like amounts a human would place.
type RoundingPolicy struct {
	Enabled bool
	Base    float64
}

// Apply rounds a stake to the nearest base multiple. A stake that rounds to
// zero is forced up to one base unit: a zero stake cannot hedge its outcome.
func (p RoundingPolicy) Apply(stake float64) float64 {
	if !p.Enabled || p.Base <= 0 {
		return stake
	}
	rounded := p.Base * math.Round(stake/p.Base)
	if rounded < p.Base {
		rounded = p.Base
	}
	return rounded
}

// Round2 rounds to two decimals for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
