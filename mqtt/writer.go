package mqtt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nlowe/hadiscovery/log"
)

// QualityOfService determines what level of guarantee the broker should provide when delivering messages. It implements
// fmt.Stringer and slog.LogValuer.
type QualityOfService uint8

func (q QualityOfService) String() string {
	switch q {
	case QOSAtMostOnce:
		return "at most once (0)"
	case QOSAtLeastOnce:
		return "at least once (1)"
	case QOSExactlyOnce:
		return "exactly once (2)"
	default:
		return fmt.Sprintf("invalid (%d)", uint8(q))
	}
}

func (q QualityOfService) LogValue() slog.Value {
	return slog.StringValue(q.String())
}

const (
	// QOSAtMostOnce offers "fire and forget" messaging with no acknowledgment from the receiver. This is the default.
	QOSAtMostOnce QualityOfService = iota
	// QOSAtLeastOnce ensures that messages are delivered at least once by requiring a PUBACK acknowledgment.
	QOSAtLeastOnce
	// QOSExactlyOnce guarantees that each message is delivered exactly once by using a four-step handshake (PUBLISH,
	// PUBREC, PUBREL, PUBCOMP).
	QOSExactlyOnce

	// QOSDefault is the default Quality Of Service, QOSAtMostOnce.
	QOSDefault = QOSAtMostOnce
)

// WriteOptions holds options for writing to MQTT. The zero value for WriteOptions uses a QoS of 0 with no retain. It
// implements slog.LogValuer.
type WriteOptions struct {
	// QoS specifies the Quality of Service to use when writing values to MQTT.
	QoS QualityOfService

	// Retain instructs the broker to persist the last message received for a given topic. Discovery payloads should be
	// retained so Home Assistant picks them up after a restart. Writing an empty retained payload clears the topic.
	Retain bool
}

// DiscoveryWriteOptions are the WriteOptions used for discovery payloads unless configured otherwise.
var DiscoveryWriteOptions = WriteOptions{QoS: QOSAtLeastOnce, Retain: true}

func (w WriteOptions) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("qos", w.QoS),
		slog.Bool("retain", w.Retain),
	)
}

// Writer is the minimum abstraction around writing values to MQTT.
type Writer interface {
	// WriteTopic writes the provided value to the specified topic with the specified WriteOptions.
	WriteTopic(ctx context.Context, topic string, options WriteOptions, value []byte) error
}

// The WriterFunc type is an adapter to allow the use of ordinary functions as a Writer.
type WriterFunc func(ctx context.Context, topic string, options WriteOptions, value []byte) error

func (f WriterFunc) WriteTopic(ctx context.Context, topic string, options WriteOptions, value []byte) error {
	return f(ctx, topic, options, value)
}

// PublisherFor adapts a Writer to the (topic, payload) callback the discovery engine dispatches to. Every payload is
// written with the provided options. Write failures are logged and otherwise dropped: the engine never observes the
// outcome of a publish.
func PublisherFor(ctx context.Context, w Writer, opts WriteOptions) func(topic string, payload string) {
	l := log.ForComponent("mqtt.publisher")

	return func(topic string, payload string) {
		if err := w.WriteTopic(ctx, topic, opts, []byte(payload)); err != nil {
			l.With(log.Topic(topic), log.Error(err)).Warn("Failed to write discovery payload")
		}
	}
}
