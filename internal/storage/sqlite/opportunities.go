package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/surebetlabs/surebet/internal/arb"
)

// StoredOpportunity is one persisted detection row.
type StoredOpportunity struct {
	ID         string
	EventID    string
	SportKey   string
	MarketType string
	Kind       string
	ProfitPct  float64
	DetectedAt time.Time
	Status     string
}

// InsertOpportunity persists a detection. The row ID and timestamps are
// minted here, not in the engine, which stays deterministic.
func (s *Store) InsertOpportunity(ctx context.Context, op *arb.Opportunity, ttl time.Duration) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("sqlite store not initialized")
	}
	if op == nil {
		return "", fmt.Errorf("opportunity is nil")
	}

	row := op.Row()
	stakesJSON, err := json.Marshal(row["stake_allocations"])
	if err != nil {
		return "", fmt.Errorf("marshal stakes: %w", err)
	}
	legsJSON, err := json.Marshal(op.Legs)
	if err != nil {
		return "", fmt.Errorf("marshal legs: %w", err)
	}

	id := uuid.NewString()
	detectedAt := time.Now().UTC()

	query := `
INSERT INTO opportunities (
	id, fingerprint, event_id, sport_key, market_type, kind,
	profit_percentage, total_investment, guaranteed_return,
	stake_allocations_json, legs_json, detected_at, expires_at, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err = s.db.ExecContext(
		ctx,
		query,
		id,
		op.Fingerprint(),
		op.EventID,
		op.SportKey,
		op.MarketType,
		string(op.Kind),
		op.ProfitPct(),
		row["total_investment"],
		row["guaranteed_return"],
		string(stakesJSON),
		string(legsJSON),
		detectedAt.Format(time.RFC3339Nano),
		detectedAt.Add(ttl).Format(time.RFC3339Nano),
		"detected",
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecentOpportunities returns the newest rows, most recent first.
func (s *Store) RecentOpportunities(ctx context.Context, limit int) ([]StoredOpportunity, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, event_id, sport_key, market_type, kind, profit_percentage, detected_at, status
FROM opportunities
ORDER BY detected_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredOpportunity
	for rows.Next() {
		var rec StoredOpportunity
		var detectedAt string
		if err := rows.Scan(
			&rec.ID, &rec.EventID, &rec.SportKey, &rec.MarketType,
			&rec.Kind, &rec.ProfitPct, &detectedAt, &rec.Status,
		); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, detectedAt); err == nil {
			rec.DetectedAt = ts
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats summarizes persisted detections since a cutoff.
type Stats struct {
	Opportunities int
	AvgProfitPct  float64
}

// StatsSince counts detections and averages their headline profit.
func (s *Store) StatsSince(ctx context.Context, since time.Time) (Stats, error) {
	if s == nil || s.db == nil {
		return Stats{}, fmt.Errorf("sqlite store not initialized")
	}

	var stats Stats
	var avg *float64
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*), AVG(profit_percentage)
FROM opportunities
WHERE detected_at >= ?
`, since.UTC().Format(time.RFC3339Nano)).Scan(&stats.Opportunities, &avg)
	if err != nil {
		return Stats{}, err
	}
	if avg != nil {
		stats.AvgProfitPct = *avg
	}
	return stats, nil
}

// InsertAlert records that a notification was produced, with its payload.
func (s *Store) InsertAlert(ctx context.Context, level, category, message string, data any) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}

	var dataJSON []byte
	if data != nil {
		var err error
		dataJSON, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal alert data: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO alerts (level, category, message, data_json, created_at)
VALUES (?, ?, ?, ?, ?)
`, level, category, message, string(dataJSON), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
