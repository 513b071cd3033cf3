// Package alerts delivers detected opportunities to a Telegram chat. The
// client formats arbitrage and value-bet records differently, since only
// the former carries a guaranteed return, and retries delivery with a
// linear backoff for transient API failures.
package alerts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/surebetlabs/surebet/internal/arb"
)

// Client sends notifications through the Telegram Bot API.
type Client struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a Telegram alert client.
func NewClient(botToken, chatID string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %w", err)
	}

	return &Client{
		bot:        bot,
		chatID:     chatIDInt,
		maxRetries: 3,
		retryDelay: time.Second,
	}, nil
}

// SendOpportunity formats and delivers one detection.
func (c *Client) SendOpportunity(op *arb.Opportunity, expiresIn time.Duration) error {
	if c == nil || op == nil {
		return nil
	}
	return c.send(FormatOpportunity(op, expiresIn))
}

// SendSystem delivers a plain operational message (startup, shutdown, errors).
func (c *Client) SendSystem(message string) error {
	if c == nil {
		return nil
	}
	return c.send(message)
}

func (c *Client) send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelay * time.Duration(i+1))
	}
	return fmt.Errorf("send after %d retries: %w", c.maxRetries, lastErr)
}

// FormatOpportunity renders an opportunity as an HTML Telegram message. The
// rich per-leg price detail lives only here; the flat persisted row omits it.
func FormatOpportunity(op *arb.Opportunity, expiresIn time.Duration) string {
	var b strings.Builder

	switch op.Kind {
	case arb.KindValueBet:
		leg := op.Legs[0]
		fmt.Fprintf(&b, "📈 <b>VALUE BET DETECTED</b>\n\n")
		fmt.Fprintf(&b, "📊 <b>Expected value:</b> <code>%.2f%%</code>\n", op.Value.ExpectedValuePct)
		fmt.Fprintf(&b, "⚽ <b>Sport:</b> %s\n", op.SportKey)
		fmt.Fprintf(&b, "🎮 <b>Market:</b> %s\n\n", op.MarketType)
		fmt.Fprintf(&b, "• %s: %s @ %.2f (true prob %.1f%%)\n\n", leg.Bookmaker, leg.Outcome, leg.Price, leg.TrueProb*100)
		fmt.Fprintf(&b, "💵 <b>Stake:</b> $%.2f — return not guaranteed\n", op.Value.Stake)
	default:
		fmt.Fprintf(&b, "🎯 <b>ARBITRAGE OPPORTUNITY DETECTED</b>\n\n")
		fmt.Fprintf(&b, "📊 <b>Profit:</b> <code>%.2f%%</code>\n", op.Arb.ProfitPct)
		fmt.Fprintf(&b, "⚽ <b>Sport:</b> %s\n", op.SportKey)
		fmt.Fprintf(&b, "🎮 <b>Market:</b> %s\n\n", op.MarketType)

		fmt.Fprintf(&b, "<b>Odds:</b>\n")
		for _, leg := range op.Legs {
			fmt.Fprintf(&b, "• %s: %s @ %.2f\n", leg.Bookmaker, leg.Outcome, leg.Price)
		}

		fmt.Fprintf(&b, "\n<b>Stakes ($%.2f total):</b>\n", op.Arb.TotalInvestment)
		keys := make([]string, 0, len(op.Arb.Stakes))
		for key := range op.Arb.Stakes {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "• %s: $%.2f\n", key, op.Arb.Stakes[key])
		}

		fmt.Fprintf(&b, "\n💰 <b>Guaranteed return:</b> $%.2f\n", op.Arb.GuaranteedReturn)
	}

	if expiresIn > 0 {
		fmt.Fprintf(&b, "🕒 <i>Expires in %s</i>", expiresIn.Round(time.Second))
	}
	return b.String()
}
