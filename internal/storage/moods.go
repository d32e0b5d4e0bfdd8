package storage

import (
	"sort"

	"github.com/lichiahui/lifelog/internal/models"
)

const collMoods = "moods"

func (s *Store) AddMood(entry models.MoodEntry) error {
	return putJSON(s, collMoods, entry)
}

func (s *Store) GetMood(id string) (models.MoodEntry, error) {
	var entry models.MoodEntry
	err := getJSON(s, collMoods, id, &entry)
	return entry, err
}

func (s *Store) GetAllMoods() ([]models.MoodEntry, error) {
	return getAllJSON[models.MoodEntry](s, collMoods)
}

// GetMoodsInRange returns entries whose calendar day falls in [from, to],
// oldest first. Day strings compare lexicographically.
func (s *Store) GetMoodsInRange(from, to string) ([]models.MoodEntry, error) {
	all, err := s.GetAllMoods()
	if err != nil {
		return nil, err
	}

	var entries []models.MoodEntry
	for _, e := range all {
		if e.Date >= from && e.Date <= to {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (s *Store) DeleteMood(id string) error {
	return s.Delete(collMoods, id)
}

func (s *Store) ReplaceAllMoods(entries []models.MoodEntry) error {
	return replaceAllJSON(s, collMoods, entries)
}
