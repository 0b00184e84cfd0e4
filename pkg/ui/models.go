package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/optrack/business/valuation/domain"
)

// Tab is one dashboard page.
type Tab int

const (
	TabPortfolio Tab = iota
	TabScenarios
	TabYield
	TabMotocats
	TabConverter
	tabCount
)

var tabNames = [...]string{"Portfolio", "Scenarios", "Yield", "Motocats", "Converter"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return ""
	}
	return tabNames[t]
}

// Next cycles forward through the tabs.
func (t Tab) Next() Tab { return (t + 1) % tabCount }

// Prev cycles backward through the tabs.
func (t Tab) Prev() Tab { return (t + tabCount - 1) % tabCount }

// fieldSpec describes one input.
type fieldSpec struct {
	label       string
	placeholder string
	value       string
}

// Form is a vertical list of text inputs with one focused at a time.
type Form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

// NewForm builds a form with the first field focused.
func NewForm(specs ...fieldSpec) Form {
	f := Form{
		labels: make([]string, len(specs)),
		inputs: make([]textinput.Model, len(specs)),
	}
	for i, s := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = s.placeholder
		in.CharLimit = 24
		in.Width = 18
		in.SetValue(s.value)
		f.labels[i] = s.label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// Value returns the raw text of field i.
func (f Form) Value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

// SetValue replaces the text of field i.
func (f *Form) SetValue(i int, v string) {
	if i >= 0 && i < len(f.inputs) {
		f.inputs[i].SetValue(v)
	}
}

// Focused returns the focused field index.
func (f Form) Focused() int { return f.focus }

// Move shifts focus by delta, wrapping around.
func (f *Form) Move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Update forwards msg to the focused input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders every field. Unfocused values are shown grouped.
func (f Form) View() string {
	label := lipgloss.NewStyle().Foreground(ColorMuted)
	active := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var b strings.Builder
	for i, in := range f.inputs {
		name := label.Render(padLabel(f.labels[i]))
		value := displayValue(in.Value())
		if i == f.focus {
			name = active.Render(padLabel("› " + f.labels[i]))
			value = in.View()
		} else if value == "" {
			value = MutedValue.Render(in.Placeholder)
		}
		b.WriteString(name)
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}

func padLabel(s string) string {
	const width = 22
	if n := lipgloss.Width(s); n < width {
		return "  " + s + strings.Repeat(" ", width-n)
	}
	return "  " + s + " "
}

// displayValue groups a typed number the way inputs are shown.
func displayValue(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	v := domain.ParseOrZero(raw)
	return domain.FormatInput(strconv.FormatFloat(v, 'f', -1, 64))
}
