package constants

const (
	// DateFormat is the calendar-day string used for aggregation and daily resets.
	DateFormat = "2006-01-02"
	// TimeFormat is the 24-hour sort key format.
	TimeFormat = "15:04"
	// DisplayTimeFormat is the 12-hour format task times are entered and shown in.
	DisplayTimeFormat = "3:04 PM"
	// DateTimeFormat is the punch record display format.
	DateTimeFormat = "2006-01-02 15:04:05"
)
