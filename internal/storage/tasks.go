package storage

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/models"
)

const collTasks = "tasks"

func validateTask(task models.Task) error {
	if !task.Quadrant.Valid() {
		return fmt.Errorf("%w: quadrant must be one of A, B, C, D (got %q)", apperrors.ErrValidation, string(task.Quadrant))
	}
	if strings.TrimSpace(task.Content) == "" {
		return fmt.Errorf("%w: task content must not be empty", apperrors.ErrValidation)
	}
	return nil
}

func (s *Store) AddTask(task models.Task) error {
	if err := validateTask(task); err != nil {
		return err
	}
	return putJSON(s, collTasks, task)
}

func (s *Store) UpdateTask(task models.Task) error {
	return s.AddTask(task)
}

func (s *Store) GetTask(id string) (models.Task, error) {
	var task models.Task
	err := getJSON(s, collTasks, id, &task)
	return task, err
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return getAllJSON[models.Task](s, collTasks)
}

// GetTasksOn returns the tasks scheduled on one calendar day, ordered by
// their 24-hour sort key.
func (s *Store) GetTasksOn(date string) ([]models.Task, error) {
	all, err := s.GetAllTasks()
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	for _, t := range all {
		if t.Date == date {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].SortKey() < tasks[j].SortKey()
	})
	return tasks, nil
}

// GetTasksInRange returns tasks with dates in [from, to].
func (s *Store) GetTasksInRange(from, to string) ([]models.Task, error) {
	all, err := s.GetAllTasks()
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	for _, t := range all {
		if t.Date >= from && t.Date <= to {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *Store) DeleteTask(id string) error {
	return s.Delete(collTasks, id)
}

func (s *Store) ReplaceAllTasks(tasks []models.Task) error {
	for _, t := range tasks {
		if err := validateTask(t); err != nil {
			return err
		}
	}
	return replaceAllJSON(s, collTasks, tasks)
}
