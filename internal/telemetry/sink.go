package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openduro/dwgate/internal/infrastructure/mqtt"
	"github.com/openduro/dwgate/internal/uwb"
)

// ErrPublishFailed indicates the event could not be handed to the broker.
var ErrPublishFailed = errors.New("telemetry: publish failed")

// Publisher is the transport the sink publishes on. Satisfied by
// *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// envelope is the JSON wire format for one published event.
type envelope struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Event     uwb.Event `json:"event"`
}

// EventSink serializes decoded radio events and publishes them over MQTT.
type EventSink struct {
	publisher Publisher
	qos       byte

	// now is stubbed in tests.
	now func() time.Time
}

// NewEventSink creates a sink publishing at the given QoS.
func NewEventSink(publisher Publisher, qos byte) *EventSink {
	return &EventSink{
		publisher: publisher,
		qos:       qos,
		now:       time.Now,
	}
}

// Publish serializes the event and publishes it to its kind/source topic.
func (s *EventSink) Publish(event uwb.Event) error {
	payload, err := json.Marshal(envelope{
		Kind:      event.Kind(),
		Timestamp: s.now().UTC(),
		Event:     event,
	})
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPublishFailed, event.Kind(), err)
	}

	topic := EventTopic(event.Kind(), event.SourceAddr())
	if err := s.publisher.Publish(topic, payload, s.qos, false); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// EventTopic returns the topic for events of the given kind from the given
// source address.
func EventTopic(kind string, source uint16) string {
	return fmt.Sprintf("%s/%s/0x%04x", mqtt.TopicPrefixEvent, kind, source)
}
