package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// TCPSource reads frames from a TCP endpoint such as a serial-to-network bridge.
type TCPSource struct {
	Addr        string
	DialTimeout time.Duration
}

func NewTCPSource(addr string) *TCPSource {
	return &TCPSource{Addr: addr, DialTimeout: 10 * time.Second}
}

func (s *TCPSource) Name() string {
	return "tcp:" + s.Addr
}

func (s *TCPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	d := net.Dialer{Timeout: s.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", s.Addr, err)
	}
	return conn, nil
}
