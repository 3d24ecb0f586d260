package tracker

import (
	"fmt"
	"testing"

	"wisefido-sedentary/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600%24, sec/60%60, sec%60)
}

func still(sec int) models.RawFrame {
	return models.RawFrame{Timestamp: clock(sec), Motion: 0, Magnitude: 0.001}
}

func TestTracker_SameTimestampCountsOnce(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())

	var ev models.ProcessedEvent
	for i := 0; i < 25; i++ {
		ev = tr.Process(still(0))
	}

	assert.Equal(t, models.StateSedentary, ev.State)
	assert.Equal(t, uint64(1), ev.Timer)

	ev = tr.Process(still(1))
	assert.Equal(t, uint64(2), ev.Timer)
}

func TestTracker_ActiveResetsTimer(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())

	for i := 0; i < 30; i++ {
		tr.Process(still(i))
	}
	require.Equal(t, uint64(30), tr.Timer())

	ev := tr.Process(models.RawFrame{Timestamp: clock(30), Motion: 1, Magnitude: 0.001})
	assert.Equal(t, models.StateActive, ev.State)
	assert.Equal(t, uint64(0), ev.Timer)
	assert.False(t, ev.Alert)
}

func TestTracker_ActiveResetOnlyOnNewTimestamp(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())

	tr.Process(still(0))
	tr.Process(still(1))
	// PIR fires within an already counted second: no timer change
	ev := tr.Process(models.RawFrame{Timestamp: clock(1), Motion: 1, Magnitude: 0.001})

	assert.Equal(t, models.StateActive, ev.State)
	assert.Equal(t, uint64(2), ev.Timer)
}

func TestTracker_FidgetPausesTimer(t *testing.T) {
	tr := New(1, DefaultThresholds())

	tr.Process(still(0))
	tr.Process(still(1))
	ev := tr.Process(models.RawFrame{Timestamp: clock(2), Motion: 0, Magnitude: 0.03})

	assert.Equal(t, models.StateFidget, ev.State)
	assert.Equal(t, uint64(2), ev.Timer)
}

func TestTracker_AlertLevelTriggered(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())

	var ev models.ProcessedEvent
	for i := 0; i < 1199; i++ {
		ev = tr.Process(still(i))
	}
	assert.Equal(t, uint64(1199), ev.Timer)
	assert.False(t, ev.Alert)

	ev = tr.Process(still(1199))
	assert.Equal(t, uint64(1200), ev.Timer)
	assert.True(t, ev.Alert)

	// repeated frame in the same second keeps the alert raised
	ev = tr.Process(still(1199))
	assert.True(t, ev.Alert)

	ev = tr.Process(models.RawFrame{Timestamp: clock(1200), Motion: 1})
	assert.False(t, ev.Alert)
}

func TestTracker_SmoothedValueAndWindow(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())

	for i := 0; i < 10; i++ {
		tr.Process(models.RawFrame{Timestamp: clock(i), Magnitude: 0.0})
	}
	// ten zeros then one large sample: mean = 0.5 / 10
	ev := tr.Process(models.RawFrame{Timestamp: clock(10), Magnitude: 0.5})

	assert.InDelta(t, 0.05, ev.Value, 1e-12)
	assert.Equal(t, models.StateActive, ev.State)
	assert.Equal(t, DefaultSmoothingWindow, tr.WindowLen())
	assert.Equal(t, clock(10), ev.Timestamp)
}

func TestTracker_TimerNonDecreasingWithoutActive(t *testing.T) {
	tr := New(DefaultSmoothingWindow, DefaultThresholds())
	mags := []float64{0.001, 0.03, 0.001, 0.025, 0.0, 0.01}

	var prev uint64
	for i := 0; i < 300; i++ {
		ev := tr.Process(models.RawFrame{Timestamp: clock(i / 3), Magnitude: mags[i%len(mags)]})
		require.NotEqual(t, models.StateActive, ev.State)
		assert.GreaterOrEqual(t, ev.Timer, prev)
		prev = ev.Timer
	}
}
