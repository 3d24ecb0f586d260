package source

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wisefido-sedentary/internal/common/mqtt"
	"wisefido-sedentary/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, r io.Reader, n int) []string {
	t.Helper()
	scanner := bufio.NewScanner(r)
	var lines []string
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, n)
	return lines
}

func TestFileSource_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	content := "{\"ts\":\"10:00:00\",\"pir\":0,\"acc\":0.01}\nboot ok\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := NewFileSource(path)
	assert.True(t, IsFinite(src))
	assert.Equal(t, "file:"+path, src.Name())

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	lines := readLines(t, rc, 2)
	assert.Equal(t, "boot ok", lines[1])
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope")).Open(context.Background())
	assert.Error(t, err)
}

func TestTCPSource_Open(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("{\"ts\":\"10:00:00\",\"pir\":1,\"acc\":0.2}\n{\"ts\":\"10:00:01\",\"pir\":0,\"acc\":0.0}\n"))
	}()

	src := NewTCPSource(ln.Addr().String())
	assert.False(t, IsFinite(src))

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	lines := readLines(t, rc, 2)
	frame, err := models.ParseFrame(lines[0])
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Motion)
}

func TestTCPSource_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewTCPSource(addr).Open(context.Background())
	assert.Error(t, err)
}

type fakeSubscriber struct {
	mu           sync.Mutex
	handler      mqtt.MessageHandler
	topic        string
	unsubscribed []string
}

func (f *fakeSubscriber) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
	f.handler = handler
	return nil
}

func (f *fakeSubscriber) Unsubscribe(topics ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, topics...)
	return nil
}

func (f *fakeSubscriber) deliver(payload string) error {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	return h("sedentary/dev1/frames", []byte(payload))
}

func TestMQTTSource_StreamsPayloadsAsLines(t *testing.T) {
	sub := &fakeSubscriber{}
	src := NewMQTTSource(sub, "sedentary/+/frames", 1)

	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sedentary/+/frames", sub.topic)

	go func() {
		_ = sub.deliver(`{"ts":"10:00:00","pir":0,"acc":0.01}`)
		_ = sub.deliver("{\"ts\":\"10:00:01\",\"pir\":0,\"acc\":0.02}\n")
	}()

	lines := readLines(t, rc, 2)
	assert.Equal(t, `{"ts":"10:00:01","pir":0,"acc":0.02}`, lines[1])

	require.NoError(t, rc.Close())
	assert.Equal(t, []string{"sedentary/+/frames"}, sub.unsubscribed)
	assert.Error(t, sub.deliver(`{"ts":"10:00:02","pir":0,"acc":0.02}`))
}

func TestSimulatedSource_ProducesParseableFrames(t *testing.T) {
	src := &SimulatedSource{
		RateHz: 1000,
		Phases: []Phase{{Seconds: 1, Motion: 1, Magnitude: 0.09}},
		Start:  time.Date(2026, 1, 1, 23, 59, 59, 0, time.UTC),
		Seed:   42,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rc, err := src.Open(ctx)
	require.NoError(t, err)
	defer rc.Close()

	for _, line := range readLines(t, rc, 5) {
		frame, err := models.ParseFrame(line)
		require.NoError(t, err)
		assert.Equal(t, 1, frame.Motion)
		assert.Greater(t, frame.Magnitude, 0.04)
		assert.Equal(t, "23:59:59", frame.Timestamp)
	}
}

func TestSimulatedSource_PhaseCycle(t *testing.T) {
	src := &SimulatedSource{Phases: DefaultPhases()}

	assert.Equal(t, 0, src.phaseAt(0).Motion)
	assert.InDelta(t, 0.028, src.phaseAt(60).Magnitude, 1e-9)
	assert.Equal(t, 1, src.phaseAt(80).Motion)
	assert.Equal(t, 0, src.phaseAt(95).Motion)
}
