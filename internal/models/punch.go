package models

import "time"

type PunchType string

const (
	PunchWorkIn     PunchType = "work-in"
	PunchWorkOut    PunchType = "work-out"
	PunchBreakStart PunchType = "break-start"
	PunchBreakEnd   PunchType = "break-end"
)

func (p PunchType) Valid() bool {
	switch p {
	case PunchWorkIn, PunchWorkOut, PunchBreakStart, PunchBreakEnd:
		return true
	}
	return false
}

// PunchRecord is one append-only audit entry. Records are never mutated, only
// appended and occasionally bulk-cleared.
type PunchRecord struct {
	Type      PunchType `json:"type"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	DateTime  string    `json:"dateTime"`  // display string
}

func NewPunchRecord(punchType PunchType, now time.Time) PunchRecord {
	return PunchRecord{
		Type:      punchType,
		Timestamp: now.UnixMilli(),
		DateTime:  now.Format("2006-01-02 15:04:05"),
	}
}

// WorkTimeRecord is produced once per completed work-in -> work-out cycle.
type WorkTimeRecord struct {
	Date       string `json:"date"`
	DurationMs int64  `json:"duration"`
}
