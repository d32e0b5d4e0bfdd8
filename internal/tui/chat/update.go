package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lichiahui/lifelog/internal/logger"
	"github.com/lichiahui/lifelog/internal/models"
)

type responseMsg struct {
	reply string
}

type responseErrMsg struct {
	err error
}

type interruptedMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := m.textarea.Height() + 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.refreshConversation()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.waiting {
				m.interrupt()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEsc:
			if m.waiting {
				// Cancel the in-flight request but stay on the screen.
				m.interrupt()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if msg.Alt {
				break // alt+enter inserts a newline via the textarea
			}
			return m.send()
		}

	case responseMsg:
		m.waiting = false
		m.cancel = nil
		reply := newAssistantMessage(msg.reply)
		m.history = append(m.history, reply)
		if err := m.store.AppendChatMessage(reply); err != nil {
			logger.Warn("Failed to persist assistant reply", "error", err)
		}
		m.refreshConversation()
		return m, nil

	case interruptedMsg:
		m.waiting = false
		m.cancel = nil
		m.info = "Response interrupted."
		m.refreshConversation()
		return m, nil

	case responseErrMsg:
		m.waiting = false
		m.cancel = nil
		m.errLine = msg.err.Error()
		m.refreshConversation()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.waiting {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) send() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.textarea.Value())
	if content == "" || m.waiting {
		return m, nil
	}

	userMsg := newUserMessage(content)
	m.history = append(m.history, userMsg)
	if err := m.store.AppendChatMessage(userMsg); err != nil {
		logger.Warn("Failed to persist chat message", "error", err)
	}
	m.textarea.Reset()
	m.info = ""
	m.errLine = ""
	m.waiting = true
	m.refreshConversation()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	history := append([]models.ChatMessage(nil), m.history...)
	responder := m.responder
	systemPrompt := m.systemPrompt
	request := func() tea.Msg {
		reply, err := responder.Respond(ctx, systemPrompt, history, nil)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return interruptedMsg{}
			}
			return responseErrMsg{err: err}
		}
		return responseMsg{reply: reply}
	}

	return m, tea.Batch(m.spinner.Tick, request, textarea.Blink)
}

func (m *Model) interrupt() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
