package source

import (
	"context"
	"fmt"
	"io"

	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

// SerialSource reads frames from a serial device (8N1).
type SerialSource struct {
	Port     string
	BaudRate int
}

// NewSerialSource creates a serial source; baudRate <= 0 uses 115200.
func NewSerialSource(port string, baudRate int) *SerialSource {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return &SerialSource{Port: port, BaudRate: baudRate}
}

func (s *SerialSource) Name() string {
	return "serial:" + s.Port
}

func (s *SerialSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := serial.Open(s.Port, &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", s.Port, err)
	}
	return port, nil
}
