package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/surebetlabs/surebet/internal/alerts"
	"github.com/surebetlabs/surebet/internal/arb"
	"github.com/surebetlabs/surebet/internal/cache"
	"github.com/surebetlabs/surebet/internal/config"
	"github.com/surebetlabs/surebet/internal/detector"
	"github.com/surebetlabs/surebet/internal/feed"
	"github.com/surebetlabs/surebet/internal/logging"
	sqlstore "github.com/surebetlabs/surebet/internal/storage/sqlite"
	"github.com/surebetlabs/surebet/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logging.InitFromEnv()

	cfg := config.Load()

	store, err := sqlstore.Open(cfg.SQLitePath)
	if err != nil {
		logging.Fatalf("[detector] open sqlite: %v", err)
	}
	defer store.Close()
	if err := store.CreateTables(ctx); err != nil {
		logging.Fatalf("[detector] create tables: %v", err)
	}

	var seen cache.OpportunityCache
	if cfg.RedisAddr != "" {
		seen, err = cache.NewRedisOpportunityCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.OpportunityTimeout, "")
		if err != nil {
			logging.Fatalf("[detector] redis cache: %v", err)
		}
		defer seen.Close()
	} else {
		logging.Warnf("[detector] no REDIS_ADDR; duplicate alerts will not be suppressed")
	}

	var notifier *alerts.Client
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier, err = alerts.NewClient(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logging.Fatalf("[detector] telegram: %v", err)
		}
		if err := notifier.SendSystem(fmt.Sprintf(
			"🤖 Detector started\nMin profit: %.2f%%\nMin EV: %.2f%%\nSharp book: %s",
			cfg.MinProfitPct, cfg.MinEVPct, cfg.SharpBookmaker,
		)); err != nil {
			logging.Errorf("[detector] startup alert: %v", err)
		}
	} else {
		logging.Warnf("[detector] telegram not configured; alerts disabled")
	}

	opts := detector.FromConfig(cfg)
	handler := func(ctx context.Context, snap *feed.EventSnapshot) error {
		found := detector.ProcessEvents([]feed.Event{snap.Event}, opts)
		for _, op := range found {
			if err := handleOpportunity(ctx, op, cfg, store, seen, notifier); err != nil {
				logging.Errorf("[detector] handle opportunity: %v", err)
			}
		}
		return nil
	}

	logging.Infof("[detector] consuming %s with group %s (%d workers)", cfg.SnapshotTopic, cfg.WorkerGroup, cfg.WorkerCount)
	workers.Run(ctx, cfg.KafkaBrokers, cfg.SnapshotTopic, cfg.WorkerGroup, cfg.WorkerCount, handler)
}

// handleOpportunity persists every detection, but only alerts the first
// time a fingerprint shows up within its freshness window (or when the
// edge improved since the last alert).
func handleOpportunity(
	ctx context.Context,
	op *arb.Opportunity,
	cfg config.Config,
	store *sqlstore.Store,
	seen cache.OpportunityCache,
	notifier *alerts.Client,
) error {
	id, err := store.InsertOpportunity(ctx, op, cfg.OpportunityTimeout)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	logging.Infof("[detector] %s %s profit=%.2f%% event=%s market=%s id=%s",
		op.Kind, op.SportKey, op.ProfitPct(), op.EventID, op.MarketType, id)

	fingerprint := op.Fingerprint()
	if seen != nil {
		record, found, err := seen.Get(ctx, fingerprint)
		if err != nil {
			logging.Errorf("[detector] dedup cache get: %v", err)
		} else if found && record.ProfitPct >= op.ProfitPct() {
			return nil // already alerted at this edge or better
		}
	}

	if notifier != nil {
		if err := notifier.SendOpportunity(op, cfg.OpportunityTimeout); err != nil {
			return fmt.Errorf("telegram alert: %w", err)
		}
		message := fmt.Sprintf("%s: %.2f%% on %s", op.Kind, op.ProfitPct(), op.SportKey)
		if err := store.InsertAlert(ctx, "info", "opportunity", message, op.Row()); err != nil {
			logging.Errorf("[detector] record alert: %v", err)
		}
	}

	if seen != nil {
		if err := seen.Set(ctx, fingerprint, cache.OpportunityRecord{
			ProfitPct: op.ProfitPct(),
			Kind:      string(op.Kind),
			SeenAt:    time.Now().UTC(),
		}); err != nil {
			logging.Errorf("[detector] dedup cache set: %v", err)
		}
	}
	return nil
}
