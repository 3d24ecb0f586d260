package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAFrame is returned for lines that are not JSON objects (device debug output, blank lines).
	ErrNotAFrame = errors.New("line is not a sensor frame")
	// ErrMalformedFrame is returned for JSON lines that do not decode into a complete frame.
	ErrMalformedFrame = errors.New("malformed sensor frame")
)

// RawFrame is one reading from the device.
// Wire format: {"ts":"12:34:56","pir":0,"acc":0.045}
type RawFrame struct {
	Timestamp string  `json:"ts"`  // RTC time, second resolution (HH:MM:SS)
	Motion    int     `json:"pir"` // PIR motion flag, 0 or 1
	Magnitude float64 `json:"acc"` // acceleration delta magnitude
}

type rawFrameWire struct {
	TS  *string  `json:"ts"`
	PIR *int     `json:"pir"`
	ACC *float64 `json:"acc"`
}

// ParseFrame decodes one line of device output.
func ParseFrame(line string) (RawFrame, error) {
	clean := strings.TrimSpace(line)
	if !strings.HasPrefix(clean, "{") {
		return RawFrame{}, ErrNotAFrame
	}

	var wire rawFrameWire
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return RawFrame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch {
	case wire.TS == nil:
		return RawFrame{}, fmt.Errorf("%w: missing ts", ErrMalformedFrame)
	case wire.PIR == nil:
		return RawFrame{}, fmt.Errorf("%w: missing pir", ErrMalformedFrame)
	case wire.ACC == nil:
		return RawFrame{}, fmt.Errorf("%w: missing acc", ErrMalformedFrame)
	}

	return RawFrame{
		Timestamp: *wire.TS,
		Motion:    *wire.PIR,
		Magnitude: *wire.ACC,
	}, nil
}
