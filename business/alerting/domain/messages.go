package domain

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	valuation "github.com/fd1az/optrack/business/valuation/domain"
)

// ClockLayout is the time format used in message footers.
const ClockLayout = "3:04:05 PM"

// contractPrefixLen is how much of a contract address a message shows.
const contractPrefixLen = 20

// Settings are the monitor settings announced at startup.
type Settings struct {
	Threshold      float64
	CheckInterval  time.Duration
	DigestInterval time.Duration
}

// StartupMessage announces the monitor and its settings.
func StartupMessage(s Settings, at time.Time) string {
	return strings.Join([]string{
		"🚀 <b>OPtrack Alert Monitor Started</b>",
		"",
		"Settings:",
		fmt.Sprintf("• Price threshold: %s%%", trimFloat(s.Threshold)),
		fmt.Sprintf("• Check interval: %ds", int64(s.CheckInterval/time.Second)),
		fmt.Sprintf("• Status updates: every %d min", int64(math.Round(s.DigestInterval.Minutes()))),
		"",
		"Monitoring for:",
		"✓ Price changes",
		"✓ New tokens",
		"✓ Periodic updates",
		"",
		"<i>" + at.Format(ClockLayout) + "</i>",
	}, "\n")
}

// PriceAlertMessage reports a move from prev to cur.
func PriceAlertMessage(symbol string, prev, cur, pct, threshold float64, at time.Time) string {
	emoji, direction, sign := "🔴", "📉", ""
	if pct >= 0 {
		emoji, direction, sign = "🟢", "📈", "+"
	}

	return strings.Join([]string{
		fmt.Sprintf("%s <b>%s Price Alert</b>", emoji, html.EscapeString(symbol)),
		"",
		fmt.Sprintf("%s %s%.2f%%", direction, sign, pct),
		"",
		"Old: " + valuation.FormatSats(&prev),
		"New: " + valuation.FormatSats(&cur),
		"",
		fmt.Sprintf("<i>Threshold: %s%%</i>", trimFloat(threshold)),
		"<i>OPtrack • " + at.Format(ClockLayout) + "</i>",
	}, "\n")
}

// NewTokenMessage announces a token seen for the first time.
func NewTokenMessage(q TokenQuote, at time.Time) string {
	d, _ := q.Data()

	supply := "N/A"
	if d.Supply != nil {
		supply = valuation.FormatNumber(*d.Supply, 3)
	}

	addr := d.Address
	if len(addr) > contractPrefixLen {
		addr = addr[:contractPrefixLen]
	}

	return strings.Join([]string{
		"🆕 <b>New Token Detected!</b>",
		"",
		fmt.Sprintf("<b>%s</b> (%s)", html.EscapeString(d.Name), html.EscapeString(q.Symbol)),
		"",
		"Price: " + valuation.FormatSats(d.Price),
		"Supply: " + supply,
		fmt.Sprintf("Decimals: %d", d.Decimals),
		"",
		"Contract: <code>" + html.EscapeString(addr) + "...</code>",
		"",
		"<i>OPtrack • " + at.Format(ClockLayout) + "</i>",
	}, "\n")
}

// DigestMessage summarizes every priced quote against history. ok is false
// when nothing is priced.
func DigestMessage(quotes []TokenQuote, history PriceHistory, at time.Time) (string, bool) {
	var (
		lines    []string
		prices   []float64
		supplies []float64
	)

	for _, q := range quotes {
		price, ok := q.Price()
		if !ok {
			continue
		}

		change := ""
		if pct, _, moved := history.Change(q.Symbol, price); moved {
			emoji, sign := "↘️", ""
			if pct >= 0 {
				emoji, sign = "↗️", "+"
			}
			change = fmt.Sprintf(" %s %s%.1f%%", emoji, sign, pct)
		}

		lines = append(lines, fmt.Sprintf("• <b>%s</b>: %s%s",
			html.EscapeString(q.Symbol), valuation.FormatSats(&price), change))
		prices = append(prices, price)
		supplies = append(supplies, q.Supply())
	}

	if len(lines) == 0 {
		return "", false
	}

	total := floats.Dot(prices, supplies)

	return strings.Join([]string{
		"📊 <b>OPtrack Status Update</b>",
		"",
		strings.Join(lines, "\n"),
		"",
		"Total Market Cap: " + valuation.FormatSats(&total),
		"",
		"<i>" + at.Format(ClockLayout) + "</i>",
	}, "\n"), true
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// PlainText strips the HTML markup of a message for terminals and logs.
func PlainText(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
