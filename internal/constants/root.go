package constants

const (
	AppName = "lifelog"

	// DefaultKeyringUser is the keyring account under which the AI API key is stored.
	DefaultKeyringUser = "ai-api-key"

	DefaultModel = "gemini-2.5-flash"

	// DefaultContextTurns is how many recent conversation turns accompany
	// each chat request.
	DefaultContextTurns = 10

	DefaultWorkHours     = 8
	DefaultBreakMinutes  = 30
	DefaultTaskDuration  = 30
	EveningReminderHour  = 19
	RecentPunchesShown   = 16
	NotificationsDefault = true
)
