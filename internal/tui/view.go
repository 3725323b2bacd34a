package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"conshell/internal/engine"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// View renders the embedded terminal plus a status header and footer.
func (m AppModel) View() string {
	if !m.ready {
		return "starting..."
	}

	header := headerStyle.Render(fmt.Sprintf(" conshell — %s ", sessionLabel(m.shell)))

	body := m.Viewport.View()

	footer := footerStyle.Render("ctrl+c quit · tab complete · ↑/↓ history · esc esc clear line")
	if m.shell.Busy() {
		footer = busyStyle.Render(m.Spin.View() + " command running...")
	}

	return header + "\n" + body + "\n" + footer
}

func sessionLabel(sh *engine.Shell) string {
	sess := sh.Session()
	switch sess.State() {
	case engine.SessionLoggedOut:
		return "login required"
	case engine.SessionLoggedIn:
		if sess.AuthEnabled() {
			return "level " + sess.Level().String()
		}
		return "open session"
	}
	return "inactive"
}
