package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedEvent_JSONFields(t *testing.T) {
	ev := ProcessedEvent{
		State:     StateSedentary,
		Timer:     600,
		Value:     0.02,
		Alert:     true,
		Timestamp: "10:00:00",
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"state":"SEDENTARY"`)
	assert.Contains(t, s, `"timer":600`)
	assert.Contains(t, s, `"val":0.02`)
	assert.Contains(t, s, `"alert":true`)
	assert.Contains(t, s, `"timestamp":"10:00:00"`)
}

func TestProcessedEvent_RoundTrip(t *testing.T) {
	ev := ProcessedEvent{
		State:     StateFidget,
		Timer:     900,
		Value:     0.0312,
		Alert:     false,
		Timestamp: "10:15:00",
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var restored ProcessedEvent
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, ev, restored)
}

func TestActivityState_Valid(t *testing.T) {
	assert.True(t, StateActive.Valid())
	assert.True(t, StateFidget.Valid())
	assert.True(t, StateSedentary.Valid())
	assert.False(t, ActivityState("STILL").Valid())
	assert.False(t, ActivityState("").Valid())
}
