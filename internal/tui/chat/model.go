// Package chat is the interactive conversation screen: a scrollback viewport
// over the persisted history, a textarea for composing, and a spinner while a
// request is in flight. Esc cancels the request without leaving the screen.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/lichiahui/lifelog/internal/models"
	"github.com/lichiahui/lifelog/internal/storage"
	"github.com/lichiahui/lifelog/internal/trigger"
)

type Model struct {
	store        storage.Provider
	responder    trigger.Responder
	systemPrompt string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	history []models.ChatMessage
	waiting bool
	cancel  context.CancelFunc
	info    string // transient line under the conversation
	errLine string

	width    int
	height   int
	ready    bool
	quitting bool
}

func NewModel(store storage.Provider, responder trigger.Responder, systemPrompt string) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything... (enter to send, esc to quit)"
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	history, err := store.GetChatHistory()
	if err != nil {
		history = nil
	}

	return Model{
		store:        store,
		responder:    responder,
		systemPrompt: systemPrompt,
		textarea:     ta,
		spinner:      sp,
		history:      history,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Run starts the conversation screen and blocks until the user leaves it.
func Run(store storage.Provider, responder trigger.Responder, systemPrompt string) error {
	p := tea.NewProgram(NewModel(store, responder, systemPrompt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newUserMessage(content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func newAssistantMessage(content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}
