package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/surebetlabs/surebet/internal/feed"
)

// PublishSnapshots writes one message per event to the snapshot topic. All
// of an event's bookmaker quotes travel in a single snapshot so the
// detector never compares prices captured at different times.
func PublishSnapshots(ctx context.Context, writer *kafka.Writer, events []feed.Event) error {
	if writer == nil || len(events) == 0 {
		return nil
	}

	captured := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(events))

	for _, ev := range events {
		if len(ev.Bookmakers) == 0 {
			continue
		}
		snapshot := feed.NewSnapshot(ev, captured)
		payload, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshal snapshot for event %s: %w", ev.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.ID),
			Value: payload,
		})
	}

	if len(msgs) == 0 {
		return nil
	}
	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d snapshots: %w", len(msgs), err)
	}
	return nil
}
