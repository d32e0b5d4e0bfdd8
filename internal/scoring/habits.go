package scoring

import (
	"time"

	"github.com/lichiahui/lifelog/internal/models"
)

// HabitRate is one habit's completion rate over a reporting range.
type HabitRate struct {
	HabitID int64
	Name    string
	Percent int
}

// CompletionRates computes each habit's check-in rate over the range starting
// at rangeStart and running through now, where totalDays is the number of
// calendar days the range covers so far. A habit created mid-range uses its
// creation date as the effective range start. The denominator never drops
// below 1.
func CompletionRates(habits []models.Habit, rangeStart time.Time, totalDays int, now time.Time) []HabitRate {
	rates := make([]HabitRate, 0, len(habits))
	for _, h := range habits {
		start := rangeStart
		if created := h.CreatedAt(); created.After(start) {
			start = created
		}

		existingDays := int(now.Sub(start).Hours()/24) + 1
		if existingDays < 1 {
			existingDays = 1
		}

		denom := totalDays
		if existingDays < denom {
			denom = existingDays
		}
		if denom < 1 {
			denom = 1
		}

		checkIns := h.CheckInsSince(rangeStart)
		percent := (checkIns*100 + denom/2) / denom

		rates = append(rates, HabitRate{
			HabitID: h.ID,
			Name:    h.Name,
			Percent: percent,
		})
	}
	return rates
}
