package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

func TestStartupMessage(t *testing.T) {
	got := StartupMessage(Settings{
		Threshold:      2.5,
		CheckInterval:  300 * time.Second,
		DigestInterval: time.Hour,
	}, clock)

	want := strings.Join([]string{
		"🚀 <b>OPtrack Alert Monitor Started</b>",
		"",
		"Settings:",
		"• Price threshold: 2.5%",
		"• Check interval: 300s",
		"• Status updates: every 60 min",
		"",
		"Monitoring for:",
		"✓ Price changes",
		"✓ New tokens",
		"✓ Periodic updates",
		"",
		"<i>3:04:05 PM</i>",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestPriceAlertMessage(t *testing.T) {
	up := PriceAlertMessage("MOTO", 10.5, 12, PercentChange(10.5, 12), 5, clock)
	assert.Equal(t, strings.Join([]string{
		"🟢 <b>MOTO Price Alert</b>",
		"",
		"📈 +14.29%",
		"",
		"Old: 10.50 sats",
		"New: 12.00 sats",
		"",
		"<i>Threshold: 5%</i>",
		"<i>OPtrack • 3:04:05 PM</i>",
	}, "\n"), up)

	down := PriceAlertMessage("P<L", 12, 6, -50, 5, clock)
	assert.True(t, strings.HasPrefix(down, "🔴 <b>P&lt;L Price Alert</b>"))
	assert.Contains(t, down, "📉 -50.00%")
}

func TestNewTokenMessage(t *testing.T) {
	q := NewOkQuote("ODYS", TokenData{
		Name:     "Odyssey",
		Price:    ptr(0.5),
		Supply:   ptr(21_000_000),
		Decimals: 8,
		Address:  "0x0a6732489a31e6de07917a28ff7df311fc5f98f6e1664943ac1c3fe7893bdab5",
	})

	got := NewTokenMessage(q, clock)
	assert.Contains(t, got, "<b>Odyssey</b> (ODYS)")
	assert.Contains(t, got, "Price: 0.5000 sats")
	assert.Contains(t, got, "Supply: 21,000,000")
	assert.Contains(t, got, "Decimals: 8")
	assert.Contains(t, got, "Contract: <code>0x0a6732489a31e6de07...</code>")

	unpriced := NewTokenMessage(NewOkQuote("X", TokenData{Name: "X"}), clock)
	assert.Contains(t, unpriced, "Price: N/A")
	assert.Contains(t, unpriced, "Supply: N/A")
}

func TestDigestMessage(t *testing.T) {
	quotes := []TokenQuote{
		NewOkQuote("MOTO", TokenData{Price: ptr(12), Supply: ptr(1000)}),
		NewErrQuote("PILL", "timeout"),
		NewOkQuote("ODYS", TokenData{Price: ptr(2)}),
		NewOkQuote("FLAT", TokenData{Price: ptr(3), Supply: ptr(10)}),
	}
	history := PriceHistory{"MOTO": 10, "FLAT": 3}

	got, ok := DigestMessage(quotes, history, clock)
	require.True(t, ok)

	assert.Equal(t, strings.Join([]string{
		"📊 <b>OPtrack Status Update</b>",
		"",
		"• <b>MOTO</b>: 12.00 sats ↗️ +20.0%",
		"• <b>ODYS</b>: 2.00 sats",
		"• <b>FLAT</b>: 3.00 sats",
		"",
		"Total Market Cap: 12.0K sats",
		"",
		"<i>3:04:05 PM</i>",
	}, "\n"), got)
}

func TestDigestMessage_NothingPriced(t *testing.T) {
	_, ok := DigestMessage([]TokenQuote{NewErrQuote("MOTO", "down")}, PriceHistory{}, clock)
	assert.False(t, ok)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "MOTO &lt; PILL", PlainText("<b>MOTO &amp;lt; PILL</b>"))
	assert.Equal(t, "Contract: 0xabc...", PlainText("Contract: <code>0xabc...</code>"))
}
