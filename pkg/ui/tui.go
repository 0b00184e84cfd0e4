package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	marketDomain "github.com/fd1az/optrack/business/market/domain"
	"github.com/fd1az/optrack/business/valuation/app"
	"github.com/fd1az/optrack/business/valuation/domain"
	"github.com/fd1az/optrack/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// Connection names shown in the status bar.
const (
	ConnOPNet     = "OP_NET"
	ConnCoinGecko = "CoinGecko"
	ConnMagicEden = "Magic Eden"
)

// Holdings form fields.
const (
	fieldCBRCAmount = iota
	fieldOP20Amount
	fieldCBRCPrice
	fieldMotocats
	fieldPills
	fieldInvestedMOTO
	fieldInvestedMotocats
	fieldInvestedPills
)

// Yield form fields.
const (
	fieldVolume = iota
	fieldFee
	fieldTotalStaked
	fieldUserStaked
	fieldAssetPrice
	fieldHorizon
)

// Airdrop form fields.
const (
	fieldCatsOwned = iota
	fieldFloorBTC
	fieldPool
	fieldTotalCats
	fieldMOTOPrice
)

// Converter form fields. Editing one rewrites the other.
const (
	fieldConvCBRC = iota
	fieldConvOP20
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	dashboard *app.Dashboard
	keys      KeyMap
	help      help.Model
	status    *components.StatusComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// Inputs
	tab         Tab
	holdings    Form
	yield       Form
	airdrop     Form
	converter   Form
	tier        domain.SupplyTier
	compounding domain.Compounding
	preset      int // index into StakingPresets, -1 before the first cycle

	// State
	quitting   bool
	width      int
	height     int
	head       uint64
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
}

// New creates a new TUI model reading prices from dashboard.
func New(dashboard *app.Dashboard) Model {
	return Model{
		dashboard:    dashboard,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		status:       components.NewStatusComponent(ConnOPNet, ConnCoinGecko, ConnMagicEden),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		holdings: NewForm(
			fieldSpec{label: "CBRC-20 MOTO", placeholder: "0"},
			fieldSpec{label: "OP20 MOTO", placeholder: "0"},
			fieldSpec{label: "CBRC price (sats)", value: domain.InputString(domain.DefaultCBRCPriceSats)},
			fieldSpec{label: "Motocats owned", placeholder: "0"},
			fieldSpec{label: "Pills", placeholder: "0"},
			fieldSpec{label: "Invested MOTO ($)", placeholder: "0"},
			fieldSpec{label: "Invested cats ($)", placeholder: "0"},
			fieldSpec{label: "Invested Pills ($)", placeholder: "0"},
		),
		yield: NewForm(
			fieldSpec{label: "Daily volume ($)", value: domain.InputString(domain.DefaultDailyVolume)},
			fieldSpec{label: "Fee (%)", value: domain.InputString(domain.DefaultFeePercent)},
			fieldSpec{label: "Total staked", value: domain.InputString(domain.DefaultTotalStaked)},
			fieldSpec{label: "Your stake", placeholder: "0"},
			fieldSpec{label: "MOTO price ($)", value: domain.InputString(domain.DefaultAssetPrice)},
			fieldSpec{label: "Horizon (months)", value: domain.InputString(domain.DefaultHorizonMonths)},
		),
		airdrop: NewForm(
			fieldSpec{label: "Cats owned", placeholder: "0"},
			fieldSpec{label: "Floor (BTC)", placeholder: "live"},
			fieldSpec{label: "Airdrop pool (MOTO)", value: domain.InputString(domain.DefaultAirdropPool)},
			fieldSpec{label: "Total cats", value: domain.InputString(domain.DefaultTotalMotocats)},
			fieldSpec{label: "MOTO price ($)", value: domain.InputString(domain.DefaultAssetPrice)},
		),
		converter: NewForm(
			fieldSpec{label: "CBRC20", placeholder: "0"},
			fieldSpec{label: "OP20", placeholder: "0"},
		),
		tier:        domain.SupplyHigh,
		compounding: domain.CompoundDaily,
		preset:      -1,
		errors:      make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// leaveWelcome switches to the dashboard and signals main to start modules.
func (m *Model) leaveWelcome() {
	m.phase = PhaseDashboard
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard
		if m.phase == PhaseWelcome {
			m.leaveWelcome()
			return m, tickCmd()
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.leaveWelcome()
		}
		return m, tickCmd()

	case MarketMsg:
		name := ConnCoinGecko
		if msg.Quote.Kind == marketDomain.KindFloorSats {
			name = ConnMagicEden
		}
		m.status.Update(components.ConnectionStatus{Name: name, Connected: true, LastUpdate: msg.Quote.At})
		m.lastUpdate = msg.Quote.At

	case HeadMsg:
		m.head = msg.Height
		prev, _ := m.status.Get(ConnOPNet)
		m.status.Update(components.ConnectionStatus{
			Name:       ConnOPNet,
			Connected:  true,
			Latency:    prev.Latency,
			LastBlock:  msg.Height,
			LastUpdate: time.Now(),
		})

	case ConnectionStatusMsg:
		prev, _ := m.status.Get(msg.Name)
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastBlock:  prev.LastBlock,
			LastUpdate: time.Now(),
		})

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.tab = m.tab.Next()
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = m.tab.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		switch m.tab {
		case TabYield:
			m.compounding = m.compounding.Next()
		default:
			m.tier = m.tier.Next()
		}
		return m, nil
	case key.Matches(msg, m.keys.Preset):
		if m.tab == TabYield {
			presets := domain.StakingPresets()
			m.preset = (m.preset + 1) % len(presets)
			m.yield.SetValue(fieldTotalStaked, domain.InputString(presets[m.preset].Amount))
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if f := m.form(); f != nil {
			f.Move(1)
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		if f := m.form(); f != nil {
			f.Move(-1)
		}
		return m, nil
	}

	if f := m.form(); f != nil {
		cmd := f.Update(msg)
		if m.tab == TabConverter {
			m.syncConverter()
		}
		return m, cmd
	}
	return m, nil
}

// syncConverter rewrites the unfocused converter field from the focused one.
func (m *Model) syncConverter() {
	raw := m.converter.Value(m.converter.Focused())
	if m.converter.Focused() == fieldConvCBRC {
		m.converter.SetValue(fieldConvOP20, domain.MirrorCBRC(raw))
		return
	}
	m.converter.SetValue(fieldConvCBRC, domain.MirrorOP20(raw))
}

// form returns the inputs of the current tab, nil when it has none.
func (m *Model) form() *Form {
	switch m.tab {
	case TabPortfolio:
		return &m.holdings
	case TabYield:
		return &m.yield
	case TabMotocats:
		return &m.airdrop
	case TabConverter:
		return &m.converter
	default:
		return nil
	}
}

// HoldingsInput returns the portfolio form as domain input.
func (m Model) HoldingsInput() domain.HoldingsInput {
	return domain.HoldingsInput{
		CBRCAmount:       m.holdings.Value(fieldCBRCAmount),
		OP20Amount:       m.holdings.Value(fieldOP20Amount),
		CBRCPriceSats:    m.holdings.Value(fieldCBRCPrice),
		MotocatsCount:    m.holdings.Value(fieldMotocats),
		PillsAmount:      m.holdings.Value(fieldPills),
		InvestedMOTO:     m.holdings.Value(fieldInvestedMOTO),
		InvestedMotocats: m.holdings.Value(fieldInvestedMotocats),
		InvestedPills:    m.holdings.Value(fieldInvestedPills),
	}
}

// YieldInput returns the yield form as domain input.
func (m Model) YieldInput() domain.YieldInput {
	return domain.YieldInput{
		DailyVolume:   m.yield.Value(fieldVolume),
		FeePercent:    m.yield.Value(fieldFee),
		TotalStaked:   m.yield.Value(fieldTotalStaked),
		UserStaked:    m.yield.Value(fieldUserStaked),
		AssetPrice:    m.yield.Value(fieldAssetPrice),
		HorizonMonths: m.yield.Value(fieldHorizon),
		Compounding:   m.compounding,
	}
}

// AirdropInput returns the Motocats form as domain input. An empty floor
// uses the live Magic Eden floor.
func (m Model) AirdropInput() domain.AirdropInput {
	floor := m.airdrop.Value(fieldFloorBTC)
	if strings.TrimSpace(floor) == "" {
		floor = domain.InputString(domain.SatsToBTC(m.dashboard.Market().MotocatsFloorSats))
	}
	return domain.AirdropInput{
		CatsOwned: m.airdrop.Value(fieldCatsOwned),
		FloorBTC:  floor,
		Pool:      m.airdrop.Value(fieldPool),
		TotalCats: m.airdrop.Value(fieldTotalCats),
		MOTOPrice: m.airdrop.Value(fieldMOTOPrice),
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" ₿ OPtrack "))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	if len(m.errors) > 0 {
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := InactiveTabStyle
		if t == m.tab {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderContent() string {
	var left, right string

	switch m.tab {
	case TabPortfolio:
		left = m.holdings.View()
		right = components.PortfolioView(m.dashboard.Snapshot(m.HoldingsInput(), m.tier))
	case TabScenarios:
		right = components.ScenariosView(m.dashboard.Snapshot(m.HoldingsInput(), m.tier))
		left = MutedValue.Render("  ctrl+t: supply tier " + m.tier.String())
	case TabYield:
		in := m.YieldInput()
		left = m.yield.View() + "\n" + MutedValue.Render(
			"  ctrl+t: "+m.compounding.String()+" • ctrl+p: staking preset") + "\n\n" + components.PresetsView()
		right = components.YieldView(m.dashboard.Yield(in), m.compounding, in.Params().HorizonMonths)
	case TabMotocats:
		left = m.airdrop.View()
		right = components.AirdropView(m.dashboard.Airdrop(m.AirdropInput()))
	case TabConverter:
		left = m.converter.View()
		price := m.dashboard.Snapshot(m.HoldingsInput(), m.tier).Portfolio.OP20UnitPrice
		right = components.ConverterView(domain.ParseOrZero(m.converter.Value(fieldConvOP20)), price)
	}

	if m.width > 120 {
		l := BoxStyle.Width(m.width/3 - 2).Render(left)
		r := BoxStyle.Width(m.width*2/3 - 4).Render(right)
		return lipgloss.JoinHorizontal(lipgloss.Top, l, r)
	}
	width := m.width - 4
	if width < 40 {
		width = 100
	}
	return BoxStyle.Width(width).Render(left) + "\n" + BoxStyle.Width(width).Render(right)
}

func (m Model) renderStatusBar() string {
	market := m.dashboard.Market()

	parts := []string{
		"BTC " + domain.FormatUSD(market.BTCUSD),
		"Floor " + domain.FormatNumber(market.MotocatsFloorSats, 0) + " sats",
	}
	if m.head > 0 {
		parts = append(parts, fmt.Sprintf("Block #%d", m.head))
	}
	parts = append(parts, m.status.Parts()...)

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	} else {
		parts = append(parts, MutedValue.Render("default prices"))
	}

	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	elapsed := time.Since(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	logo := `
    ██████╗ ██████╗ ████████╗██████╗  █████╗  ██████╗██╗  ██╗
   ██╔═══██╗██╔══██╗╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
   ██║   ██║██████╔╝   ██║   ██████╔╝███████║██║     █████╔╝
   ██║   ██║██╔═══╝    ██║   ██╔══██╗██╔══██║██║     ██╔═██╗
   ╚██████╔╝██║        ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗
    ╚═════╝ ╚═╝        ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`

	var sb strings.Builder
	sb.WriteString("\n\n\n")
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("            M O T O   P O R T F O L I O   O N   O P _ N E T"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("                     Loading prices%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("               Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
