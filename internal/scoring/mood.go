// Package scoring derives presentation numbers from raw entity snapshots.
// Every function here is pure: callers pass the entities and the range, and
// malformed or missing data degrades to "no data" rather than an error.
package scoring

import "github.com/lichiahui/lifelog/internal/models"

// moodValues is the canonical tag table. The reference data had one call
// site using tired=2; this table settles on 1 (see DESIGN.md).
var moodValues = map[string]int{
	"happy":    5,
	"grateful": 4,
	"calm":     3,
	"tired":    1,
	"stressed": -2,
}

// MoodIndex returns the mean per-tag mood value over all tag occurrences in
// [from, to]. Unknown tags contribute 0 but still count as occurrences. The
// second return is false when the range holds no tags at all.
func MoodIndex(entries []models.MoodEntry, from, to string) (float64, bool) {
	total := 0
	count := 0
	for _, e := range entries {
		if e.Date < from || e.Date > to {
			continue
		}
		for _, tag := range e.Moods {
			total += moodValues[tag]
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}

// MoodEntryCount counts entries in [from, to].
func MoodEntryCount(entries []models.MoodEntry, from, to string) int {
	n := 0
	for _, e := range entries {
		if e.Date >= from && e.Date <= to {
			n++
		}
	}
	return n
}
