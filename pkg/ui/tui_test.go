package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketDomain "github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/business/valuation/app"
	"github.com/fd1az/optrack/business/valuation/domain"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// dashboardModel returns a model past the welcome screen.
func dashboardModel(t *testing.T) Model {
	t.Helper()
	m := New(app.NewDashboard())
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	m = update(t, m, runes("x"))
	require.Equal(t, PhaseDashboard, m.phase)
	return m
}

func TestTab_Cycles(t *testing.T) {
	assert.Equal(t, TabScenarios, TabPortfolio.Next())
	assert.Equal(t, TabConverter, TabMotocats.Next())
	assert.Equal(t, TabPortfolio, TabConverter.Next())
	assert.Equal(t, TabConverter, TabPortfolio.Prev())
	assert.Equal(t, "Yield", TabYield.String())
}

func TestModel_WelcomeKeyStartsModules(t *testing.T) {
	started := make(chan struct{}, 1)
	OnStartModules = func() { started <- struct{}{} }
	defer func() { OnStartModules = nil }()

	m := New(app.NewDashboard())
	assert.Contains(t, m.View(), "Press any key")

	m = update(t, m, runes("a"))
	assert.Equal(t, PhaseDashboard, m.phase)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("OnStartModules not called")
	}
}

func TestModel_TypingFillsFocusedField(t *testing.T) {
	m := dashboardModel(t)

	m = update(t, m, runes("2.000"))
	assert.Equal(t, "2.000", m.HoldingsInput().CBRCAmount)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, runes("500"))
	in := m.HoldingsInput()
	assert.Equal(t, "500", in.OP20Amount)
	assert.Equal(t, "1000", in.CBRCPriceSats)

	snap := m.dashboard.Snapshot(in, m.tier)
	assert.InDelta(t, 500+domain.CBRCToOP20(2000), snap.Portfolio.OP20Equivalent(), 1e-6)
	assert.Contains(t, m.View(), "HOLDINGS")
}

func TestModel_ToggleTierOnScenarios(t *testing.T) {
	m := dashboardModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, TabScenarios, m.tab)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, domain.SupplyLow, m.tier)
	assert.Contains(t, m.View(), "SCENARIOS (LOW")
	assert.Contains(t, m.View(), "Moonshot")
}

func TestModel_YieldPresetAndCompounding(t *testing.T) {
	m := dashboardModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, TabYield, m.tab)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "100000000", m.YieldInput().TotalStaked)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, "250000000", m.YieldInput().TotalStaked)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, domain.CompoundWeekly, m.YieldInput().Compounding)
	assert.Contains(t, m.View(), "COMPOUNDED WEEKLY")
}

func TestModel_AirdropUsesLiveFloor(t *testing.T) {
	m := dashboardModel(t)
	m.dashboard.SetFloorSats(1_500_000, time.Now())

	in := m.AirdropInput()
	assert.InDelta(t, 0.015, domain.ParseOrZero(in.FloorBTC), 1e-12)
}

func TestModel_StatusMessages(t *testing.T) {
	m := dashboardModel(t)
	now := time.Now()

	m = update(t, m, MarketMsg{Quote: marketDomain.Quote{Kind: marketDomain.KindBTCUSD, Value: 97000, At: now}})
	m = update(t, m, HeadMsg{Height: 4242})

	cg, _ := m.status.Get(ConnCoinGecko)
	assert.True(t, cg.Connected)
	me, _ := m.status.Get(ConnMagicEden)
	assert.False(t, me.Connected)
	op, _ := m.status.Get(ConnOPNet)
	assert.Equal(t, uint64(4242), op.LastBlock)
	assert.Contains(t, m.View(), "Block #4242")
}

func TestModel_KeepsLastThreeErrors(t *testing.T) {
	m := dashboardModel(t)
	for i := 0; i < 5; i++ {
		m = update(t, m, ErrorMsg{Error: errors.New(fmt.Sprintf("boom %d", i))})
	}
	require.Len(t, m.errors, 3)
	assert.Equal(t, "boom 2", m.errors[0].Message)
	assert.True(t, strings.Contains(m.View(), "boom 4"))
}

func TestModel_Quit(t *testing.T) {
	m := New(app.NewDashboard())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Contains(t, next.View(), "Goodbye")
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "1.234.567,5", displayValue("1234567,5"))
	assert.Equal(t, "", displayValue("  "))
}

func TestModel_ConverterMirrorsBothWays(t *testing.T) {
	m := dashboardModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, TabConverter, m.tab)

	m = update(t, m, runes("10"))
	assert.Equal(t, "476,19", m.converter.Value(fieldConvOP20))
	assert.Contains(t, m.View(), "1 CBRC20 = 47.619 OP20")

	m = New(app.NewDashboard())
	m = update(t, m, runes("x"))
	m.tab = TabConverter
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, runes("4761,9047619"))
	assert.Equal(t, "100,0000", m.converter.Value(fieldConvCBRC))
}
