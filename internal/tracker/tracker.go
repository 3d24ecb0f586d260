// Package tracker turns raw device frames into smoothed, alert-aware activity states.
//
// A Tracker is owned by a single ingestion goroutine and is not safe for concurrent use.
package tracker

import "wisefido-sedentary/internal/models"

// Tracker carries the classifier state across frames.
type Tracker struct {
	thresholds Thresholds
	smoother   *Smoother

	sedentaryTimer uint64
	lastCounted    string
	counted        bool // lastCounted is set
}

// New creates a tracker with the given smoothing window and thresholds.
func New(window int, th Thresholds) *Tracker {
	return &Tracker{
		thresholds: th,
		smoother:   NewSmoother(window),
	}
}

// Process consumes one frame and returns the resulting event.
// The sedentary timer moves at most once per distinct frame timestamp.
func (t *Tracker) Process(frame models.RawFrame) models.ProcessedEvent {
	smoothed := t.smoother.Push(frame.Magnitude)
	state := Classify(frame.Motion, smoothed, t.thresholds)

	if !t.counted || frame.Timestamp != t.lastCounted {
		t.lastCounted = frame.Timestamp
		t.counted = true

		switch state {
		case models.StateActive:
			t.sedentaryTimer = 0
		case models.StateSedentary:
			t.sedentaryTimer++
		}
	}

	return models.ProcessedEvent{
		State:     state,
		Timer:     t.sedentaryTimer,
		Value:     smoothed,
		Alert:     t.sedentaryTimer >= t.thresholds.AlertSeconds,
		Timestamp: frame.Timestamp,
	}
}

// Timer returns the current sedentary timer.
func (t *Tracker) Timer() uint64 {
	return t.sedentaryTimer
}

// WindowLen returns the number of samples in the smoothing window.
func (t *Tracker) WindowLen() int {
	return t.smoother.Len()
}
