package models

import "encoding/json"

// StateEntry is one row of the appState collection: a singleton value
// overwritten in place, never garbage collected except by explicit clear.
type StateEntry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Settings is the singleton application configuration stored under the
// "settings" appState key.
type Settings struct {
	WorkHours            int    `json:"work_hours"`
	BreakMinutes         int    `json:"break_minutes"`
	Model                string `json:"model"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// AttendanceState is the persisted punch-clock status, stored under the
// "attendanceStatus" appState key. Start times are unix milliseconds; nil
// means not in that state.
type AttendanceState struct {
	Status         string `json:"status"`
	WorkStartTime  *int64 `json:"workStartTime"`
	BreakStartTime *int64 `json:"breakStartTime"`
}
