package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lichiahui/lifelog/internal/constants"
	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

const collAppState = "appState"

// Well-known appState keys.
const (
	StateKeySettings   = "settings"
	StateKeyTriggers   = "proactiveTriggers"
	StateKeyAttendance = "attendanceStatus"
)

// GetState reads the singleton value stored under key into out.
func (s *Store) GetState(key string, out any) error {
	var entry models.StateEntry
	if err := getJSON(s, collAppState, key, &entry); err != nil {
		return err
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		return fmt.Errorf("failed to decode app state %q: %w", key, err)
	}
	return nil
}

// SetState overwrites the value stored under key in place.
func (s *Store) SetState(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode app state %q: %w", key, err)
	}
	return putJSON(s, collAppState, models.StateEntry{Key: key, Value: raw})
}

func (s *Store) DeleteState(key string) error {
	return s.Delete(collAppState, key)
}

func (s *Store) GetAllState() ([]models.StateEntry, error) {
	return getAllJSON[models.StateEntry](s, collAppState)
}

func (s *Store) ReplaceAllState(entries []models.StateEntry) error {
	return replaceAllJSON(s, collAppState, entries)
}

// GetSettings returns the stored settings, or defaults when none were saved
// yet.
func (s *Store) GetSettings() (models.Settings, error) {
	settings := models.Settings{
		WorkHours:            constants.DefaultWorkHours,
		BreakMinutes:         constants.DefaultBreakMinutes,
		Model:                constants.DefaultModel,
		NotificationsEnabled: constants.NotificationsDefault,
	}
	err := s.GetState(StateKeySettings, &settings)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.SetState(StateKeySettings, settings)
}
