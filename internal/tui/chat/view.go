package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lichiahui/lifelog/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var footer string
	if m.waiting {
		footer = m.spinner.View() + " thinking... (esc to interrupt)"
	} else {
		footer = m.textarea.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		footer,
	)
}

// refreshConversation re-renders the scrollback and keeps it pinned to the
// newest message.
func (m *Model) refreshConversation() {
	if !m.ready {
		return
	}

	width := m.viewport.Width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(userLabelStyle.Render("You"))
		default:
			b.WriteString(assistantLabelStyle.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(messageStyle.Width(width).Render(msg.Content))
		b.WriteString("\n\n")
	}

	if m.info != "" {
		b.WriteString(infoStyle.Render(m.info))
		b.WriteString("\n")
	}
	if m.errLine != "" {
		b.WriteString(errorStyle.Width(width).Render(m.errLine))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}
