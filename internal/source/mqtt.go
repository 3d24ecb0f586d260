package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"wisefido-sedentary/internal/common/mqtt"
)

// Subscriber is the part of the MQTT client the source needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// MQTTSource turns frames published on a topic into a line stream.
// Each message payload is one frame.
type MQTTSource struct {
	client Subscriber
	topic  string
	qos    byte
}

func NewMQTTSource(client Subscriber, topic string, qos byte) *MQTTSource {
	return &MQTTSource{client: client, topic: topic, qos: qos}
}

func (s *MQTTSource) Name() string {
	return "mqtt:" + s.topic
}

func (s *MQTTSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	stream := &mqttStream{
		PipeReader: pr,
		pw:         pw,
		client:     s.client,
		topic:      s.topic,
	}

	err := s.client.Subscribe(s.topic, s.qos, func(_ string, payload []byte) error {
		line := append(bytes.TrimSpace(payload), '\n')
		if _, err := pw.Write(line); err != nil {
			return fmt.Errorf("frame stream closed: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = pw.Close()
		return nil, err
	}

	return stream, nil
}

type mqttStream struct {
	*io.PipeReader
	pw     *io.PipeWriter
	client Subscriber
	topic  string
	once   sync.Once
}

// Close unsubscribes and ends the stream; pending writers get io.ErrClosedPipe.
func (m *mqttStream) Close() error {
	var err error
	m.once.Do(func() {
		err = m.client.Unsubscribe(m.topic)
		_ = m.PipeReader.Close()
		_ = m.pw.Close()
	})
	return err
}
