package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the binaries read from the environment.
// Engine-facing values (thresholds, rounding) are copied into the engine's
// own config per call so the detection math stays a pure function of its
// arguments.
type Config struct {
	// Detection thresholds.
	MinProfitPct   float64 // floor for reporting an arbitrage, percent
	MaxProfitPct   float64 // sanity ceiling; results above it are dropped
	MinEVPct       float64 // floor for reporting a value bet, percent
	SharpBookmaker string

	// Stake handling.
	RoundStakes  bool
	RoundingBase float64
	MaxStake     float64

	// Scheduling.
	ScanInterval       time.Duration
	OpportunityTimeout time.Duration

	// The Odds API.
	OddsAPIKey     string
	OddsAPIRegions string
	SportKeys      []string

	// Infrastructure.
	KafkaBrokers  []string
	SnapshotTopic string
	WorkerGroup   string
	WorkerCount   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SQLitePath string

	TelegramBotToken string
	TelegramChatID   string
}

// Load reads .env (if present) and builds a Config from the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		MinProfitPct:   envFloat("MIN_PROFIT_THRESHOLD", 0.5),
		MaxProfitPct:   envFloat("MAX_PROFIT_THRESHOLD", 30.0),
		MinEVPct:       envFloat("MIN_EV_THRESHOLD", 2.0),
		SharpBookmaker: envString("SHARP_BOOKMAKER", "pinnacle"),

		RoundStakes:  envBool("ROUND_STAKES", true),
		RoundingBase: envFloat("ROUNDING_BASE", 5),
		MaxStake:     envFloat("MAX_STAKE", 1000),

		ScanInterval:       envDuration("SCAN_INTERVAL", 30*time.Second),
		OpportunityTimeout: envDuration("OPPORTUNITY_TIMEOUT", 60*time.Second),

		OddsAPIKey:     os.Getenv("THE_ODDS_API_KEY"),
		OddsAPIRegions: envString("ODDS_API_REGIONS", "us,uk,eu,au"),
		SportKeys:      envList("SPORT_KEYS", "soccer_epl,basketball_nba"),

		KafkaBrokers:  envList("KAFKA_BROKERS", "kafka-broker:9092"),
		SnapshotTopic: envString("ODDS_KAFKA_TOPIC", "odds.snapshots"),
		WorkerGroup:   envString("DETECTOR_GROUP", "detector"),
		WorkerCount:   envInt("DETECTOR_WORKERS", 1),

		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		SQLitePath: envString("SQLITE_PATH", "data/surebet.db"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return def
}

// envDuration accepts either a Go duration string ("45s") or a bare number
// of seconds, matching how the original deployment configured intervals.
func envDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	if parsed, err := time.ParseDuration(val); err == nil {
		return parsed
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func envList(key, def string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
