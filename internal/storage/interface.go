package storage

import "github.com/lichiahui/lifelog/internal/models"

// Provider is the storage contract the rest of the application programs
// against. *Store is the only production implementation.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Raw collection access (export/import)
	Put(collection string, record []byte) (string, error)
	Get(collection, key string) ([]byte, error)
	GetAll(collection string) ([][]byte, error)
	Delete(collection, key string) error
	Clear(collection string) error
	ReplaceAll(collection string, records [][]byte) error

	// Moods
	AddMood(models.MoodEntry) error
	GetMood(id string) (models.MoodEntry, error)
	GetAllMoods() ([]models.MoodEntry, error)
	GetMoodsInRange(from, to string) ([]models.MoodEntry, error)
	DeleteMood(id string) error
	ReplaceAllMoods([]models.MoodEntry) error

	// Habits
	AddHabit(models.Habit) error
	UpdateHabit(models.Habit) error
	GetHabit(id int64) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	DeleteHabit(id int64) error
	ReplaceAllHabits([]models.Habit) error

	// Tasks
	AddTask(models.Task) error
	UpdateTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetTasksOn(date string) ([]models.Task, error)
	GetTasksInRange(from, to string) ([]models.Task, error)
	DeleteTask(id string) error
	ReplaceAllTasks([]models.Task) error

	// Punch clock
	AppendPunch(models.PunchRecord) error
	GetAllPunches() ([]models.PunchRecord, error)
	ClearPunches() error
	AppendWorkTime(models.WorkTimeRecord) error
	GetAllWorkTime() ([]models.WorkTimeRecord, error)

	// App state
	GetState(key string, out any) error
	SetState(key string, value any) error
	DeleteState(key string) error
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Chat history
	AppendChatMessage(models.ChatMessage) error
	GetChatHistory() ([]models.ChatMessage, error)
	ClearChatHistory() error
}

var _ Provider = (*Store)(nil)
