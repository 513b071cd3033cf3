package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/surebetlabs/surebet/internal/config"
	"github.com/surebetlabs/surebet/internal/detector"
	"github.com/surebetlabs/surebet/internal/feed"
	"github.com/surebetlabs/surebet/internal/logging"
)

// scan_file runs one detection pass over a JSON file holding an array of
// feed events, for poking at the engine without Kafka or a live feed.
func main() {
	logging.InitFromEnv()

	if len(os.Args) < 2 {
		logging.Fatalf("usage: scan_file <events.json>")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logging.Fatalf("read %s: %v", os.Args[1], err)
	}

	var events []feed.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		logging.Fatalf("decode events: %v", err)
	}

	for i := range events {
		events[i] = feed.DropInvalidPrices(events[i])
	}

	opts := detector.FromConfig(config.Load())
	found := detector.ProcessEvents(events, opts)

	if len(found) == 0 {
		fmt.Println("no opportunities found")
		return
	}

	for _, op := range found {
		fmt.Printf("[%s] event=%s sport=%s market=%s profit=%.2f%%\n",
			op.Kind, op.EventID, op.SportKey, op.MarketType, op.ProfitPct())
		for _, leg := range op.Legs {
			fmt.Printf("  %s: %s @ %.2f\n", leg.Bookmaker, leg.Outcome, leg.Price)
		}
		if op.Arb != nil {
			fmt.Printf("  invest=%.2f guaranteed=%.2f\n", op.Arb.TotalInvestment, op.Arb.GuaranteedReturn)
		}
	}
	fmt.Printf("%d opportunities\n", len(found))
}
