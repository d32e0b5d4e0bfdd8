package models

import (
	"strconv"
	"time"
)

type MoodType string

const (
	MoodMorning MoodType = "morning"
	MoodEvening MoodType = "evening"
	MoodNote    MoodType = "note"
)

// Attachment is an inline file carried by a mood entry or chat message.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	DataURI  string `json:"dataUri"`
}

// MoodEntry is one journal entry. Date is derived from Timestamp but stored
// redundantly so range queries never need to parse the instant.
type MoodEntry struct {
	ID        string      `json:"id"`
	Date      string      `json:"date"`
	Time      string      `json:"time"`
	Type      MoodType    `json:"type"`
	Moods     []string    `json:"moods"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	File      *Attachment `json:"file,omitempty"`
	Pinned    bool        `json:"pinned,omitempty"`
}

// NewMoodEntry stamps an entry with a timestamp-derived id and the matching
// calendar day so the two never disagree.
func NewMoodEntry(now time.Time, entryType MoodType, moods []string, content string) MoodEntry {
	return MoodEntry{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("3:04 PM"),
		Type:      entryType,
		Moods:     moods,
		Content:   content,
		Timestamp: now,
	}
}
