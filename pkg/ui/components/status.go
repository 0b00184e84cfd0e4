// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents a connection's status.
type ConnectionStatus struct {
	Name       string
	Connected  bool
	Latency    time.Duration
	LastBlock  uint64
	LastUpdate time.Time
}

// StatusComponent renders connection status.
type StatusComponent struct {
	connections []ConnectionStatus
}

// NewStatusComponent creates a status component listing names in order,
// all disconnected.
func NewStatusComponent(names ...string) *StatusComponent {
	s := &StatusComponent{connections: make([]ConnectionStatus, 0, len(names))}
	for _, n := range names {
		s.connections = append(s.connections, ConnectionStatus{Name: n})
	}
	return s
}

// Update updates a connection's status.
func (s *StatusComponent) Update(status ConnectionStatus) {
	for i, conn := range s.connections {
		if conn.Name == status.Name {
			s.connections[i] = status
			return
		}
	}
	s.connections = append(s.connections, status)
}

// Get returns the named connection.
func (s *StatusComponent) Get(name string) (ConnectionStatus, bool) {
	for _, conn := range s.connections {
		if conn.Name == name {
			return conn, true
		}
	}
	return ConnectionStatus{}, false
}

// Parts renders one segment per connection for a status bar.
func (s *StatusComponent) Parts() []string {
	connected := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	disconnected := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	parts := make([]string, 0, len(s.connections))
	for _, conn := range s.connections {
		if !conn.Connected {
			parts = append(parts, disconnected.Render("○ "+conn.Name))
			continue
		}
		label := "● " + conn.Name
		if conn.Latency > 0 {
			label += fmt.Sprintf(" (%dms)", conn.Latency.Milliseconds())
		}
		parts = append(parts, connected.Render(label))
	}
	return parts
}
