package feed

import "time"

// EventSnapshot is the payload placed on the odds Kafka topic. One snapshot
// carries every bookmaker quote gathered for the event in a single fetch,
// so the detector always compares prices taken at the same time.
type EventSnapshot struct {
	Event      Event     `json:"event"`
	CapturedAt time.Time `json:"captured_at"`
}

// NewSnapshot stamps an event with its capture time, filtering out prices
// the detection math must never see.
func NewSnapshot(ev Event, capturedAt time.Time) EventSnapshot {
	return EventSnapshot{
		Event:      DropInvalidPrices(ev),
		CapturedAt: capturedAt,
	}
}
