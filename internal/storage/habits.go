package storage

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

const collHabits = "habits"

func (s *Store) AddHabit(habit models.Habit) error {
	if strings.TrimSpace(habit.Name) == "" {
		return fmt.Errorf("%w: habit name must not be empty", apperrors.ErrValidation)
	}
	return putJSON(s, collHabits, habit)
}

// UpdateHabit shares Put's insert-or-replace semantics with AddHabit; both
// validate the same way.
func (s *Store) UpdateHabit(habit models.Habit) error {
	return s.AddHabit(habit)
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	var habit models.Habit
	err := getJSON(s, collHabits, strconv.FormatInt(id, 10), &habit)
	return habit, err
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	return getAllJSON[models.Habit](s, collHabits)
}

func (s *Store) DeleteHabit(id int64) error {
	return s.Delete(collHabits, strconv.FormatInt(id, 10))
}

func (s *Store) ReplaceAllHabits(habits []models.Habit) error {
	return replaceAllJSON(s, collHabits, habits)
}
