// Package notify sends a post-run digest of the analysis via the Telegram
// Bot API: the safe-bet bucket plus the best performers per currency. It
// handles delivery with simple backoff retries for transient API failures.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/analysis"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// digestPerCurrency bounds how many top performers appear per currency.
const digestPerCurrency = 5

// Client sends analysis digests to a Telegram chat.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a Telegram digest client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendDigest sends the recommendation digest, retrying with linear backoff.
func (c *Client) SendDigest(recs analysis.Recommendations, tops map[models.Currency][]analysis.Performer) error {
	msg := tgbotapi.NewMessage(c.chatID, formatDigest(recs, tops))

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send digest after %d retries: %w", c.maxRetries, lastErr)
}

func formatDigest(recs analysis.Recommendations, tops map[models.Currency][]analysis.Performer) string {
	var b strings.Builder
	b.WriteString("Shop arbitrage digest\n\n")

	b.WriteString("Safe bets:\n")
	if len(recs.SafeBets) == 0 {
		b.WriteString("  none\n")
	}
	for _, p := range recs.SafeBets {
		fmt.Fprintf(&b, "  %s (%s): ROI %.1f%%, reliability %.0f%%\n",
			p.ItemName, p.Currency, p.ROIMedian, p.BreakEvenProb)
	}

	for _, currency := range models.Currencies() {
		performers := tops[currency]
		if len(performers) > digestPerCurrency {
			performers = performers[:digestPerCurrency]
		}
		fmt.Fprintf(&b, "\nTop performers (%s):\n", currency)
		if len(performers) == 0 {
			b.WriteString("  none\n")
		}
		for rank, p := range performers {
			fmt.Fprintf(&b, "  #%d %s: ROI %.1f%%, score %.1f\n",
				rank+1, p.ItemName, p.ROIMedian, p.Score)
		}
	}

	if n := len(recs.Avoid); n > 0 {
		fmt.Fprintf(&b, "\n%d entries flagged avoid.\n", n)
	}
	return b.String()
}
