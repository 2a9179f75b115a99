package autopaho

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/nlowe/hadiscovery/hass"
	hlog "github.com/nlowe/hadiscovery/log"
	"github.com/nlowe/hadiscovery/mqtt"
)

// ErrNotConnected is returned by WriteTopic when the connection manager has not been established yet.
var ErrNotConnected = errors.New("mqtt: not connected")

type adapter struct {
	mu   sync.Mutex
	conn *autopaho.ConnectionManager

	willTopic string

	log *slog.Logger
}

var _ mqtt.Writer = &adapter{}

// DisconnectFunc cleanly disconnects from the broker. When a will topic was configured, hass.Unavailable is published
// to it first since a clean disconnect does not trigger the broker's last will.
type DisconnectFunc func(ctx context.Context) error

// WillMessage builds the last will for a device: hass.Unavailable, retained, on the provided topic.
func WillMessage(willTopic string) *paho.WillMessage {
	return &paho.WillMessage{
		Retain:  true,
		QoS:     byte(mqtt.QOSAtLeastOnce),
		Topic:   willTopic,
		Payload: []byte(hass.Unavailable),
	}
}

// DialMQTT connects to the broker described by config and returns an mqtt.Writer backed by the connection.
//
// If willTopic is not empty, the connection registers WillMessage(willTopic) as its last will and publishes
// hass.Available (retained) to the same topic every time the connection comes up. This is the topic to hand to the
// discovery engine as its will topic so entities follow the device's availability.
func DialMQTT(ctx context.Context, config autopaho.ClientConfig, willTopic string) (mqtt.Writer, DisconnectFunc, error) {
	a := &adapter{
		willTopic: willTopic,
		log:       hlog.ForComponent("autopaho"),
	}

	if willTopic != "" {
		config.WillMessage = WillMessage(willTopic)
	}

	originalOnConnUp := config.OnConnectionUp
	config.OnConnectionUp = func(manager *autopaho.ConnectionManager, connack *paho.Connack) {
		a.announce(ctx, manager)

		if originalOnConnUp != nil {
			originalOnConnUp(manager, connack)
		}
	}

	// Hold the lock while connecting so the first OnConnectionUp callback cannot observe a nil connection manager.
	a.mu.Lock()
	a.log.Info("Connecting to mqtt broker")
	conn, err := autopaho.NewConnection(ctx, config)
	if err != nil {
		a.mu.Unlock()
		return nil, nil, fmt.Errorf("mqtt: connect: %w", err)
	}

	a.conn = conn
	a.mu.Unlock()

	a.log.Debug("Waiting for connection to be ready")
	if err = conn.AwaitConnection(ctx); err != nil {
		return nil, nil, fmt.Errorf("mqtt: wait for connection: %w", err)
	}

	a.log.Debug("Connected to mqtt broker")
	return a, a.disconnect, nil
}

// announce publishes the birth message on the will topic.
func (a *adapter) announce(ctx context.Context, manager *autopaho.ConnectionManager) {
	if a.willTopic == "" {
		return
	}

	a.log.With(hlog.Topic(a.willTopic)).Debug("Publishing availability")
	_, err := manager.Publish(ctx, &paho.Publish{
		QoS:     byte(mqtt.QOSAtLeastOnce),
		Retain:  true,
		Topic:   a.willTopic,
		Payload: []byte(hass.Available),
	})
	if err != nil {
		a.log.With(hlog.Topic(a.willTopic), hlog.Error(err)).Error("Failed to publish availability")
	}
}

func (a *adapter) disconnect(ctx context.Context) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return nil
	}

	var err error
	if a.willTopic != "" {
		_, err = conn.Publish(ctx, &paho.Publish{
			QoS:     byte(mqtt.QOSAtLeastOnce),
			Retain:  true,
			Topic:   a.willTopic,
			Payload: []byte(hass.Unavailable),
		})
	}

	return errors.Join(err, conn.Disconnect(ctx))
}

func (a *adapter) WriteTopic(ctx context.Context, topic string, options mqtt.WriteOptions, value []byte) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	a.log.With(hlog.Topic(topic), slog.Any("options", options), hlog.PayloadSize(len(value))).Debug("Publishing payload")

	_, err := conn.Publish(ctx, &paho.Publish{
		QoS:     uint8(options.QoS),
		Retain:  options.Retain,
		Topic:   topic,
		Payload: value,
	})

	return err
}
