package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/surebetlabs/surebet/internal/feed"
	"github.com/surebetlabs/surebet/internal/logging"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

// Client talks to The Odds API.
type Client struct {
	baseURL    string
	apiKey     string
	regions    string
	markets    string
	httpClient *http.Client
}

// Config provides the API key and optional overrides.
type Config struct {
	APIKey  string
	BaseURL string
	Regions string // comma-separated, e.g. "us,uk,eu,au"
	Markets string // comma-separated raw market keys to request
	Timeout time.Duration
}

// NewClient builds a configured Odds API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oddsapi: api key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	regions := cfg.Regions
	if regions == "" {
		regions = "us"
	}
	markets := cfg.Markets
	if markets == "" {
		markets = "h2h"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		regions: regions,
		markets: markets,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Sport is one entry from the sports catalogue.
type Sport struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// Sports lists the available sports. Also serves as an API key check.
func (c *Client) Sports(ctx context.Context) ([]Sport, error) {
	endpoint := fmt.Sprintf("%s/sports?apiKey=%s", c.baseURL, url.QueryEscape(c.apiKey))

	var sports []Sport
	if err := c.getJSON(ctx, endpoint, &sports); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	return sports, nil
}

type apiOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type apiMarket struct {
	Key      string       `json:"key"`
	Outcomes []apiOutcome `json:"outcomes"`
}

type apiBookmaker struct {
	Key     string      `json:"key"`
	Markets []apiMarket `json:"markets"`
}

type apiEvent struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Bookmakers   []apiBookmaker `json:"bookmakers"`
}

// Odds fetches every bookmaker's current prices for one sport and returns
// them as feed events. Prices come back in decimal format.
func (c *Client) Odds(ctx context.Context, sportKey string) ([]feed.Event, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", c.markets)
	params.Set("oddsFormat", "decimal")
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, url.PathEscape(sportKey), params.Encode())

	var raw []apiEvent
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("get odds for %s: %w", sportKey, err)
	}

	events := make([]feed.Event, 0, len(raw))
	for _, ev := range raw {
		events = append(events, normalizeEvent(ev))
	}
	return events, nil
}

func normalizeEvent(raw apiEvent) feed.Event {
	ev := feed.Event{
		ID:           raw.ID,
		SportKey:     raw.SportKey,
		CommenceTime: raw.CommenceTime,
		HomeTeam:     raw.HomeTeam,
		AwayTeam:     raw.AwayTeam,
	}
	for _, bm := range raw.Bookmakers {
		entry := feed.BookmakerEntry{Key: bm.Key}
		for _, m := range bm.Markets {
			market := feed.Market{Key: m.Key}
			for _, out := range m.Outcomes {
				market.Outcomes = append(market.Outcomes, feed.Outcome{
					Name:  out.Name,
					Price: out.Price,
				})
			}
			entry.Markets = append(entry.Markets, market)
		}
		ev.Bookmakers = append(ev.Bookmakers, entry)
	}
	return ev
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "surebet/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		logging.Debugf("[oddsapi] quota: %s used, %s remaining",
			resp.Header.Get("x-requests-used"), remaining)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
