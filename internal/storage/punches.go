package storage

import "github.com/lichiahui/lifelog/internal/models"

const (
	collPunches  = "punchRecords"
	collWorkTime = "workTimeRecords"
)

func (s *Store) AppendPunch(record models.PunchRecord) error {
	return putJSON(s, collPunches, record)
}

func (s *Store) GetAllPunches() ([]models.PunchRecord, error) {
	return getAllJSON[models.PunchRecord](s, collPunches)
}

func (s *Store) ClearPunches() error {
	return s.Clear(collPunches)
}

func (s *Store) ReplaceAllPunches(records []models.PunchRecord) error {
	return replaceAllJSON(s, collPunches, records)
}

func (s *Store) AppendWorkTime(record models.WorkTimeRecord) error {
	return putJSON(s, collWorkTime, record)
}

func (s *Store) GetAllWorkTime() ([]models.WorkTimeRecord, error) {
	return getAllJSON[models.WorkTimeRecord](s, collWorkTime)
}

func (s *Store) ReplaceAllWorkTime(records []models.WorkTimeRecord) error {
	return replaceAllJSON(s, collWorkTime, records)
}
