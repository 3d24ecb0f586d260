package models

import (
	"time"

	"github.com/google/uuid"
)

// SedentaryLog is one persisted row of sedentary_log.
type SedentaryLog struct {
	ID              uuid.UUID `json:"id"`
	State           string    `json:"state"`
	TimerSeconds    int       `json:"timer_seconds"`
	AccelerationVal float64   `json:"acceleration_val"`
	CreatedAt       time.Time `json:"created_at"`
}

// ActivitySummary is one row of activity_summary (daily aggregate).
type ActivitySummary struct {
	Date             time.Time     `json:"date"`
	SedentaryMinutes float64       `json:"sedentary_minutes"`
	ActiveMinutes    float64       `json:"active_minutes"`
	DominantState    ActivityState `json:"dominant_state"`
	ActivityScore    int           `json:"activity_score"`
}
