package models

// ActivityState is the classified behaviour.
type ActivityState string

const (
	StateActive    ActivityState = "ACTIVE"
	StateFidget    ActivityState = "FIDGET"
	StateSedentary ActivityState = "SEDENTARY"
)

// Valid reports whether s is one of the known states.
func (s ActivityState) Valid() bool {
	switch s {
	case StateActive, StateFidget, StateSedentary:
		return true
	}
	return false
}

// ProcessedEvent is the classifier output sent to live observers, the reconnect cache and storage.
type ProcessedEvent struct {
	State     ActivityState `json:"state"`
	Timer     uint64        `json:"timer"`     // sedentary seconds since the last ACTIVE reset
	Value     float64       `json:"val"`       // smoothed acceleration
	Alert     bool          `json:"alert"`     // timer >= alert limit
	Timestamp string        `json:"timestamp"` // device timestamp of the frame
}
