package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// pollMsg paces the engine while a suspendable command is pending.
type pollMsg time.Time

func pollCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.Viewport.Width = msg.Width - 2
		m.Viewport.Height = msg.Height - 4 // minus header/footer
		m.ready = true
		m.refresh()
		return m, nil

	case pollMsg:
		m.pump()
		if m.shell.Busy() {
			return m, pollCmd()
		}
		return m, nil

	case spinner.TickMsg:
		m.Spin, cmd = m.Spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.shell.Deactivate()
			return m, tea.Quit
		case tea.KeyEnter:
			m.conn.push('\r')
		case tea.KeyBackspace:
			m.conn.push(0x7f)
		case tea.KeyTab:
			m.conn.push('\t')
		case tea.KeyEsc:
			m.conn.push(0x1b)
		case tea.KeyUp:
			m.conn.push(0x1b, '[', 'A')
		case tea.KeyDown:
			m.conn.push(0x1b, '[', 'B')
		case tea.KeySpace:
			m.conn.push(' ')
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				if r > 0 && r < 0x80 {
					m.conn.push(byte(r))
				}
			}
		}
		m.pump()
		if m.shell.Busy() {
			return m, pollCmd()
		}
		return m, nil
	}

	return m, nil
}

// pump drains queued input through the engine and refreshes the
// scrollback view.
func (m *AppModel) pump() {
	for m.shell.Step() {
	}
	m.refresh()
}

func (m *AppModel) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.screen.String())
	m.Viewport.GotoBottom()
}
