package scoring

// MonthlyTitle maps a cumulative monthly task score to a narrative label.
// Purely cosmetic; thresholds are fixed.
func MonthlyTitle(score int) string {
	switch {
	case score >= 800:
		return "excellent, now you get ice cream"
	case score >= 551:
		return "steamroller that stops time"
	case score >= 381:
		return "rich in hours now"
	case score >= 251:
		return "time management master"
	case score >= 151:
		return "willpower practitioner"
	case score >= 80:
		return "slowly lighting up"
	default:
		return "couch potato"
	}
}
