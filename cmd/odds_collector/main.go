package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/surebetlabs/surebet/internal/config"
	"github.com/surebetlabs/surebet/internal/kafka"
	"github.com/surebetlabs/surebet/internal/logging"
	"github.com/surebetlabs/surebet/internal/oddsapi"
	"github.com/surebetlabs/surebet/internal/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logging.InitFromEnv()

	cfg := config.Load()

	client, err := oddsapi.NewClient(oddsapi.Config{
		APIKey:  cfg.OddsAPIKey,
		Regions: cfg.OddsAPIRegions,
		Markets: "h2h,spreads,totals",
	})
	if err != nil {
		logging.Fatalf("[collector] odds api: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	if err := kafka.WaitForBroker(waitCtx, cfg.KafkaBrokers); err != nil {
		logging.Fatalf("[collector] wait for broker: %v", err)
	}
	cancel()

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(ensureCtx, cfg.KafkaBrokers, cfg.SnapshotTopic); err != nil {
		logging.Errorf("[collector] ensure topic warning: %v", err)
	}
	cancelEnsure()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.SnapshotTopic)
	defer writer.Close()

	logging.Infof("[collector] scanning %d sports every %s", len(cfg.SportKeys), cfg.ScanInterval)

	ticker := time.NewTicker(cfg.ScanInterval)
	defer ticker.Stop()

	for {
		scan(ctx, client, writer, cfg)

		select {
		case <-ctx.Done():
			logging.Infof("[collector] shutting down")
			return
		case <-ticker.C:
		}
	}
}

func scan(ctx context.Context, client *oddsapi.Client, writer *kafkago.Writer, cfg config.Config) {
	for _, sportKey := range cfg.SportKeys {
		events, err := client.Odds(ctx, sportKey)
		if err != nil {
			logging.Errorf("[collector] fetch %s: %v", sportKey, err)
			continue
		}
		if len(events) == 0 {
			logging.Debugf("[collector] no events for %s", sportKey)
			continue
		}
		if err := queue.PublishSnapshots(ctx, writer, events); err != nil {
			logging.Errorf("[collector] publish %s: %v", sportKey, err)
			continue
		}
		logging.Infof("[collector] published %d events for %s", len(events), sportKey)
	}
}
