package hadiscovery

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nlowe/hadiscovery/discovery"
	"github.com/nlowe/hadiscovery/log"
)

// DefaultBufferSize is the initial capacity of the buffer a discovery payload is rendered into.
const DefaultBufferSize = 1024

// Publisher receives a discovery topic and its payload. An empty payload retracts the component. The engine ignores
// whatever happens inside the publisher: retries and error handling are up to the implementation. See
// mqtt.PublisherFor for an implementation backed by an mqtt.Writer.
type Publisher func(topic string, payload string)

// BeginOption configures optional behavior of Engine.Begin.
type BeginOption func(*Engine)

// WithBufferSize sets the initial capacity of the buffer discovery payloads are rendered into. It is a performance hint
// only; payloads larger than the hint still render correctly.
func WithBufferSize(n int) BeginOption {
	return func(e *Engine) {
		if n > 0 {
			e.bufferSize = n
		}
	}
}

// Engine renders Components into Home Assistant discovery payloads and hands them to a Publisher.
//
// Publish and Unpublish never fail loudly: if the engine is not fully configured (no discovery topic, no base topic, no
// publisher or a device without an ID) the call does nothing. Install a handler with log.To to see why a call was
// skipped.
type Engine struct {
	mu sync.RWMutex

	device     Device
	deviceJSON jsontext.Value
	origin     *Origin

	discoveryTopic   string
	baseTopic        string
	willTopic        string
	sensorExpiration time.Duration

	publisher  Publisher
	bufferSize int

	log *slog.Logger
}

// New constructs an Engine publishing under discovery.DefaultPrefix. Call Begin before publishing.
func New() *Engine {
	return &Engine{
		discoveryTopic: discovery.DefaultPrefix,
		bufferSize:     DefaultBufferSize,

		log: log.ForComponent("discovery"),
	}
}

// Begin sets the device, the base topic prepended to every relative component topic, and the publisher. Calling Begin
// after End resumes publishing.
func (e *Engine) Begin(device Device, baseTopic string, publisher Publisher, opts ...BeginOption) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setDevice(device)
	e.baseTopic = baseTopic
	e.publisher = publisher

	for _, opt := range opts {
		opt(e)
	}

	e.log.With(slog.Any("device", device), slog.String("base_topic", baseTopic)).Debug("Discovery started")
}

// End clears the publisher and the cached device block. Publish and Unpublish are no-ops until the next Begin. Calling
// End more than once is harmless.
func (e *Engine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.publisher = nil
	e.deviceJSON = nil
	e.bufferSize = DefaultBufferSize
}

// SetDevice replaces the device published with every component.
func (e *Engine) SetDevice(device Device) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setDevice(device)
}

func (e *Engine) setDevice(device Device) {
	e.device = device

	deviceJSON, err := json.Marshal(device)
	if err != nil {
		// Rendered lazily on publish instead, where the error is reported.
		e.deviceJSON = nil
		return
	}

	e.deviceJSON = deviceJSON
}

// SetBaseTopic sets the topic prepended to every relative component topic.
func (e *Engine) SetBaseTopic(baseTopic string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.baseTopic = baseTopic
}

// SetPublisher replaces the publisher. Passing nil stops publishing, like End.
func (e *Engine) SetPublisher(publisher Publisher) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.publisher = publisher
}

// SetDiscoveryTopic sets the topic prefix Home Assistant watches for discovery payloads. Defaults to
// discovery.DefaultPrefix.
func (e *Engine) SetDiscoveryTopic(discoveryTopic string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.discoveryTopic = discoveryTopic
}

// SetWillTopic sets the absolute topic the device's MQTT last will is published to. Every component uses it as its
// (first) availability topic. Empty disables device availability.
func (e *Engine) SetWillTopic(willTopic string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.willTopic = willTopic
}

// SetSensorExpiration sets how long after its last update Home Assistant considers the state of a sensor stale. It is
// only applied to sensor platforms and is truncated to whole seconds. Zero or a negative duration disables expiration.
func (e *Engine) SetSensorExpiration(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sensorExpiration = d
}

// SetOrigin advertises the provided origin in every payload. Pass nil to stop including it.
func (e *Engine) SetOrigin(origin *Origin) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.origin = origin
}

// snapshot is a copy of the engine configuration used for a single publish.
type snapshot struct {
	device     Device
	deviceJSON jsontext.Value
	origin     *Origin

	discoveryTopic   string
	baseTopic        string
	willTopic        string
	sensorExpiration time.Duration

	publisher  Publisher
	bufferSize int
}

func (e *Engine) snapshot() snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return snapshot{
		device:           e.device,
		deviceJSON:       e.deviceJSON,
		origin:           e.origin,
		discoveryTopic:   e.discoveryTopic,
		baseTopic:        e.baseTopic,
		willTopic:        e.willTopic,
		sensorExpiration: e.sensorExpiration,
		publisher:        e.publisher,
		bufferSize:       e.bufferSize,
	}
}

// skipReason reports why a publish cannot proceed, or the empty string if it can.
func (s snapshot) skipReason(c Component) string {
	switch {
	case s.discoveryTopic == "":
		return "discovery topic not configured"
	case s.baseTopic == "":
		return "base topic not configured"
	case s.publisher == nil:
		return "no publisher"
	case s.device.ID == "":
		return "device has no id"
	case c.Kind.Platform() == "":
		return "unknown component kind"
	default:
		return ""
	}
}

// Topic returns the discovery topic the component is published to with the current configuration.
func (e *Engine) Topic(c Component) string {
	s := e.snapshot()

	return discovery.ConfigTopic(s.discoveryTopic, c.Kind.Platform(), s.device.ID, c.ID)
}

// Publish announces the component to Home Assistant.
func (e *Engine) Publish(c Component) {
	s := e.snapshot()
	l := e.log.With(slog.Any("component", c))

	if reason := s.skipReason(c); reason != "" {
		l.With(log.Reason(reason)).Debug("Skipping publish")
		return
	}

	payload, err := s.render(c)
	if err != nil {
		l.With(log.Error(err)).Warn("Failed to render discovery payload")
		return
	}

	topic := discovery.ConfigTopic(s.discoveryTopic, c.Kind.Platform(), s.device.ID, c.ID)
	l.With(log.Topic(topic), log.PayloadSize(len(payload))).Debug("Publishing discovery payload")

	s.publisher(topic, string(payload))
}

// Unpublish retracts the component from Home Assistant by publishing an empty payload to its discovery topic.
func (e *Engine) Unpublish(c Component) {
	s := e.snapshot()
	l := e.log.With(slog.Any("component", c))

	if reason := s.skipReason(c); reason != "" {
		l.With(log.Reason(reason)).Debug("Skipping unpublish")
		return
	}

	topic := discovery.ConfigTopic(s.discoveryTopic, c.Kind.Platform(), s.device.ID, c.ID)
	l.With(log.Topic(topic)).Debug("Retracting discovery payload")

	s.publisher(topic, "")
}

// Render returns the discovery payload for the component with the current configuration without publishing it.
func (e *Engine) Render(c Component) ([]byte, error) {
	return e.snapshot().render(c)
}

func (s snapshot) render(c Component) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(s.bufferSize)

	enc := jsontext.NewEncoder(&buf)

	platform := c.Kind.Platform()
	id := discovery.UniqueID(s.device.ID, c.ID)

	var expireAfter time.Duration
	if platform == "sensor" && s.sensorExpiration > 0 {
		expireAfter = s.sensorExpiration
	}

	err := errors.Join(
		enc.WriteToken(jsontext.BeginObject),

		discovery.MarshalString(enc, discovery.FieldName, c.Name),
		discovery.MarshalString(enc, discovery.FieldUniqueID, id),
		discovery.MarshalString(enc, discovery.FieldObjectID, id),

		c.marshalAvailability(enc, s.baseTopic, s.willTopic),

		discovery.MaybeMarshalString(enc, discovery.FieldDeviceClass, c.deviceClass()),
		discovery.MaybeMarshalString(enc, discovery.FieldIcon, c.Icon),
		discovery.MaybeMarshalString(enc, discovery.FieldEntityCategory, c.Category.Value()),
		discovery.MaybeMarshalString(enc, discovery.FieldStateClass, c.stateClass().Value()),
		discovery.MaybeMarshalString(enc, discovery.FieldUnitOfMeasurement, c.Unit),
		discovery.MaybeMarshalTopic(enc, discovery.FieldCommandTopic, s.baseTopic, c.CommandTopic),
		discovery.MaybeMarshalTopic(enc, discovery.FieldStateTopic, s.baseTopic, c.StateTopic),
		discovery.MaybeMarshalString(enc, discovery.FieldValueTemplate, c.ValueTemplate),
		discovery.MaybeMarshalString(enc, discovery.FieldPayloadOn, c.PayloadOn),
		discovery.MaybeMarshalString(enc, discovery.FieldPayloadOff, c.PayloadOff),
		discovery.MaybeMarshalString(enc, discovery.FieldPattern, c.Pattern),

		c.marshalPlatform(enc, s.baseTopic),

		// Sub-second expirations truncate to zero and are left out.
		discovery.MaybeMarshalStdComparable(enc, discovery.FieldExpireAfter, expireAfter.Truncate(time.Second)),

		discovery.MaybeMarshalStd(enc, discovery.FieldOrigin, s.origin),

		s.marshalDevice(enc),

		enc.WriteToken(jsontext.EndObject),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s %q: %w", c.Kind, c.ID, err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// marshalDevice writes the cached device block, or marshals the device if nothing is cached.
func (s snapshot) marshalDevice(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.String(discovery.FieldDevice)); err != nil {
		return err
	}

	if len(s.deviceJSON) != 0 {
		return enc.WriteValue(s.deviceJSON)
	}

	return s.device.MarshalJSONTo(enc)
}
