package storage

import "github.com/lichiahui/lifelog/internal/models"

const collChat = "chatHistory"

func (s *Store) AppendChatMessage(msg models.ChatMessage) error {
	return putJSON(s, collChat, msg)
}

// GetChatHistory returns every stored message in conversation order.
func (s *Store) GetChatHistory() ([]models.ChatMessage, error) {
	return getAllJSON[models.ChatMessage](s, collChat)
}

func (s *Store) ClearChatHistory() error {
	return s.Clear(collChat)
}

func (s *Store) ReplaceAllChat(msgs []models.ChatMessage) error {
	return replaceAllJSON(s, collChat, msgs)
}
