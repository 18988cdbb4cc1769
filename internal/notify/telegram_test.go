package notify

import (
	"strings"
	"testing"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/analysis"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

func performer(id int, name string, currency models.Currency, roi, score float64) analysis.Performer {
	return analysis.Performer{
		ItemStats: analysis.ItemStats{
			ItemID:        id,
			ItemName:      name,
			Currency:      currency,
			ROIMedian:     roi,
			BreakEvenProb: 85,
			HasTrades:     true,
		},
		Score: score,
	}
}

func TestFormatDigest(t *testing.T) {
	recs := analysis.Recommendations{
		SafeBets: []analysis.Performer{
			performer(1, "Bloodchanting stone", models.CurrencyShards, 150, 80),
		},
		Avoid: []analysis.Performer{
			performer(2, "Blood idol", models.CurrencyTokens, -60, -40),
			performer(3, "Blood vial", models.CurrencyShards, -30, -20),
		},
	}
	tops := map[models.Currency][]analysis.Performer{
		models.CurrencyShards: {
			performer(1, "Bloodchanting stone", models.CurrencyShards, 150, 80),
			performer(4, "Blood rune", models.CurrencyShards, 90, 60),
		},
	}

	msg := formatDigest(recs, tops)

	for _, want := range []string{
		"Safe bets:",
		"Bloodchanting stone (Blood Shards): ROI 150.0%, reliability 85%",
		"Top performers (Blood Shards):",
		"#1 Bloodchanting stone: ROI 150.0%, score 80.0",
		"#2 Blood rune: ROI 90.0%, score 60.0",
		"Top performers (Blood Synthesis Tokens):",
		"2 entries flagged avoid.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatDigestCapsPerCurrency(t *testing.T) {
	var many []analysis.Performer
	for i := 0; i < 8; i++ {
		many = append(many, performer(i+1, "Blood rune", models.CurrencyShards, 50, 10))
	}
	msg := formatDigest(analysis.Recommendations{}, map[models.Currency][]analysis.Performer{
		models.CurrencyShards: many,
	})

	if strings.Contains(msg, "#6 ") {
		t.Error("digest must cap top performers at five per currency")
	}
	if !strings.Contains(msg, "#5 ") {
		t.Error("digest must include the fifth performer")
	}
}

func TestFormatDigestEmpty(t *testing.T) {
	msg := formatDigest(analysis.Recommendations{}, nil)
	if !strings.Contains(msg, "Safe bets:\n  none") {
		t.Errorf("digest = %q", msg)
	}
	if strings.Contains(msg, "flagged avoid") {
		t.Error("empty avoid bucket must be omitted")
	}
}

func TestNewClientRejectsBadChatID(t *testing.T) {
	if _, err := NewClient("irrelevant", "not-a-number", 3, 0); err == nil {
		t.Error("NewClient() must reject a non-numeric chat id")
	}
}
