package tracker

import "wisefido-sedentary/internal/models"

// Thresholds configures classification and alerting.
type Thresholds struct {
	Fidget       float64 // smoothed magnitude above which the user is fidgeting
	Active       float64 // smoothed magnitude above which the user is active
	AlertSeconds uint64  // sedentary seconds that raise the alert
}

// DefaultThresholds returns the calibrated device thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Fidget:       0.020,
		Active:       0.040,
		AlertSeconds: 1200,
	}
}

// Classify maps the motion flag and smoothed magnitude to a state.
func Classify(motion int, smoothed float64, th Thresholds) models.ActivityState {
	switch {
	case motion == 1 || smoothed > th.Active:
		return models.StateActive
	case smoothed > th.Fidget:
		return models.StateFidget
	default:
		return models.StateSedentary
	}
}
