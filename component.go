package hadiscovery

import (
	"encoding/json/jsontext"
	"errors"
	"log/slog"

	"github.com/nlowe/hadiscovery/discovery"
	"github.com/nlowe/hadiscovery/hass"
)

// Kind selects which Home Assistant entity a Component describes. Several kinds share a platform: an Outlet is a
// "switch" with a different device class, and Gauge, Counter, Total and Value are all "sensor" variants that differ in
// their state class. It implements fmt.Stringer and slog.LogValuer.
type Kind uint8

const (
	// KindUnknown is the zero value. Components of this kind are never published.
	KindUnknown Kind = iota
	KindButton
	KindSwitch
	KindOutlet
	KindSelect
	KindText
	KindNumber
	// KindState is a binary sensor.
	KindState
	KindSensor
	KindGauge
	KindCounter
	KindTotal
	KindValue
	KindUpdate
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindButton:  "button",
	KindSwitch:  "switch",
	KindOutlet:  "outlet",
	KindSelect:  "select",
	KindText:    "text",
	KindNumber:  "number",
	KindState:   "state",
	KindSensor:  "sensor",
	KindGauge:   "gauge",
	KindCounter: "counter",
	KindTotal:   "total",
	KindValue:   "value",
	KindUpdate:  "update",
}

// Platform returns the Home Assistant platform (the entity type tag) for the kind. It is the empty string for
// KindUnknown and out of range values.
func (k Kind) Platform() string {
	switch k {
	case KindButton:
		return "button"
	case KindSwitch, KindOutlet:
		return "switch"
	case KindSelect:
		return "select"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindState:
		return "binary_sensor"
	case KindSensor, KindGauge, KindCounter, KindTotal, KindValue:
		return "sensor"
	case KindUpdate:
		return "update"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindUnknown]
}

func (k Kind) LogValue() slog.Value {
	return slog.StringValue(k.String())
}

// ParseKind returns the Kind with the provided name (as returned by Kind.String). The second return value is false if
// the name is not known.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindUnknown {
			return Kind(k), true
		}
	}

	return KindUnknown, false
}

// NumberSettings holds the range of a number component. Home Assistant uses 0..100 in steps of 1 when not configured.
type NumberSettings struct {
	Mode hass.NumberMode
	Min  float64
	Max  float64
	Step float64
}

// DefaultNumberSettings are used for number components that do not configure a range.
var DefaultNumberSettings = NumberSettings{
	Mode: hass.NumberModeAuto,
	Min:  hass.DefaultNumberMin,
	Max:  hass.DefaultNumberMax,
	Step: hass.DefaultNumberStep,
}

// UpdateSettings holds the fields specific to update components.
type UpdateSettings struct {
	// A link to the release notes of the latest version.
	ReleaseURL string
	// The topic (relative to the base topic) holding the latest available version.
	LatestVersionTopic string
}

// Component describes a single Home Assistant entity. The shared fields apply to every Kind; Number, Options and Update
// are only read for KindNumber, KindSelect and KindUpdate respectively. Components are plain values: build one with a
// constructor (NewButton, NewGauge, ...), adjust it, and hand it to Engine.Publish.
//
// All topics except the availability entry for the will topic are relative to the engine's base topic, which is
// prepended verbatim. Empty strings are treated as unset and are left out of the discovery payload.
type Component struct {
	Kind Kind

	// The component ID. It is scoped under the device ID to build the unique ID and the discovery topic.
	ID string

	// The name of the entity.
	Name string

	// The device class of the entity. Switches, outlets and updates supply their own when this is empty.
	DeviceClass string

	// The Icon to use in the frontend for this entity, e.g. "mdi:thermometer".
	Icon string

	// The category of the entity.
	Category hass.Category

	// The state class of a plain sensor. Gauge, Counter, Total and Value fix their own.
	StateClass hass.StateClass

	// The unit of measurement of the state.
	Unit string

	StateTopic    string
	CommandTopic  string
	ValueTemplate string

	// A regex the text of a text component must match.
	Pattern string

	// A topic reporting the availability of this entity specifically. When set, the entity is only available while
	// both this topic and the engine's will topic (if any) report available.
	AvailabilityTopic string
	// Custom payloads for AvailabilityTopic. Home Assistant defaults to "online" and "offline".
	PayloadAvailable    string
	PayloadNotAvailable string

	// Custom payloads for on and off states.
	PayloadOn  string
	PayloadOff string

	// Number range. DefaultNumberSettings are used if nil.
	Number *NumberSettings

	// The options of a select component, in display order.
	Options []string

	// Update specific fields.
	Update *UpdateSettings
}

// NewButton creates a button that writes to commandTopic when pressed.
func NewButton(id, name, commandTopic string) Component {
	return Component{Kind: KindButton, ID: id, Name: name, CommandTopic: commandTopic}
}

// NewSwitch creates a switch with device class "switch".
func NewSwitch(id, name, commandTopic, stateTopic string, payloadOn, payloadOff hass.PowerState) Component {
	return Component{
		Kind:         KindSwitch,
		ID:           id,
		Name:         name,
		CommandTopic: commandTopic,
		StateTopic:   stateTopic,
		PayloadOn:    string(payloadOn),
		PayloadOff:   string(payloadOff),
	}
}

// NewOutlet creates a switch with device class "outlet".
func NewOutlet(id, name, commandTopic, stateTopic string, payloadOn, payloadOff hass.PowerState) Component {
	c := NewSwitch(id, name, commandTopic, stateTopic, payloadOn, payloadOff)
	c.Kind = KindOutlet

	return c
}

// NewSelect creates a select offering the provided options in order.
func NewSelect(id, name, commandTopic, stateTopic string, options ...string) Component {
	return Component{
		Kind:         KindSelect,
		ID:           id,
		Name:         name,
		CommandTopic: commandTopic,
		StateTopic:   stateTopic,
		Options:      options,
	}
}

// NewText creates a text input. pattern may be empty to accept any text.
func NewText(id, name, commandTopic, stateTopic, pattern string) Component {
	return Component{
		Kind:         KindText,
		ID:           id,
		Name:         name,
		CommandTopic: commandTopic,
		StateTopic:   stateTopic,
		Pattern:      pattern,
	}
}

// NewNumber creates a number input with the provided range.
func NewNumber(id, name, commandTopic, stateTopic string, settings NumberSettings) Component {
	return Component{
		Kind:         KindNumber,
		ID:           id,
		Name:         name,
		CommandTopic: commandTopic,
		StateTopic:   stateTopic,
		Number:       &settings,
	}
}

// NewState creates a binary sensor.
func NewState(id, name, stateTopic string, payloadOn, payloadOff hass.PowerState) Component {
	return Component{
		Kind:       KindState,
		ID:         id,
		Name:       name,
		StateTopic: stateTopic,
		PayloadOn:  string(payloadOn),
		PayloadOff: string(payloadOff),
	}
}

// NewSensor creates a sensor with an explicit state class. Prefer NewGauge, NewCounter, NewTotal and NewValue.
func NewSensor(id, name, stateTopic string, stateClass hass.StateClass) Component {
	return Component{Kind: KindSensor, ID: id, Name: name, StateTopic: stateTopic, StateClass: stateClass}
}

// NewGauge creates a sensor reporting a measurement in present time, e.g. a temperature.
func NewGauge(id, name, stateTopic, unit string) Component {
	return Component{Kind: KindGauge, ID: id, Name: name, StateTopic: stateTopic, Unit: unit}
}

// NewCounter creates a sensor reporting a monotonically increasing total, e.g. lifetime energy.
func NewCounter(id, name, stateTopic, unit string) Component {
	return Component{Kind: KindCounter, ID: id, Name: name, StateTopic: stateTopic, Unit: unit}
}

// NewTotal creates a sensor reporting a total that can both increase and decrease.
func NewTotal(id, name, stateTopic, unit string) Component {
	return Component{Kind: KindTotal, ID: id, Name: name, StateTopic: stateTopic, Unit: unit}
}

// NewValue creates a sensor without state class, e.g. an IP address or an uptime string.
func NewValue(id, name, stateTopic string) Component {
	return Component{Kind: KindValue, ID: id, Name: name, StateTopic: stateTopic}
}

// NewTextSensor creates a read-only text sensor whose state is extracted from the payload on stateTopic with
// valueTemplate.
func NewTextSensor(id, name, stateTopic, valueTemplate string) Component {
	c := NewValue(id, name, stateTopic)
	c.ValueTemplate = valueTemplate

	return c
}

// NewUpdate creates an update entity. stateTopic reports the installed version.
func NewUpdate(id, name, stateTopic string, settings UpdateSettings) Component {
	return Component{Kind: KindUpdate, ID: id, Name: name, StateTopic: stateTopic, Update: &settings}
}

// WithDeviceClass returns a copy of the component using the provided device class.
func (c Component) WithDeviceClass(deviceClass string) Component {
	c.DeviceClass = deviceClass
	return c
}

// WithIcon returns a copy of the component using the provided icon.
func (c Component) WithIcon(icon string) Component {
	c.Icon = icon
	return c
}

// WithCategory returns a copy of the component in the provided category.
func (c Component) WithCategory(category hass.Category) Component {
	c.Category = category
	return c
}

// WithValueTemplate returns a copy of the component using the provided value template.
func (c Component) WithValueTemplate(tpl string) Component {
	c.ValueTemplate = tpl
	return c
}

// WithAvailability returns a copy of the component with its own availability topic. available and notAvailable may be
// empty to use Home Assistant's defaults.
func (c Component) WithAvailability(topic, available, notAvailable string) Component {
	c.AvailabilityTopic = topic
	c.PayloadAvailable = available
	c.PayloadNotAvailable = notAvailable

	return c
}

func (c Component) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("kind", c.Kind),
		slog.String("id", c.ID),
		slog.String("name", c.Name),
	)
}

// deviceClass resolves the device class, applying the fixed class of switches and outlets and the default of updates.
func (c Component) deviceClass() string {
	switch c.Kind {
	case KindSwitch:
		return "switch"
	case KindOutlet:
		return "outlet"
	case KindUpdate:
		if c.DeviceClass == "" {
			return discovery.DeviceClassFirmware
		}
	}

	return c.DeviceClass
}

// stateClass resolves the state class for the sensor variants.
func (c Component) stateClass() hass.StateClass {
	switch c.Kind {
	case KindGauge:
		return hass.StateClassGauge
	case KindCounter:
		return hass.StateClassCounter
	case KindTotal:
		return hass.StateClassTotal
	case KindValue:
		return hass.StateClassNone
	default:
		return c.StateClass
	}
}

// marshalAvailability writes either the single will topic, or the availability list when the component has its own
// availability topic.
func (c Component) marshalAvailability(e *jsontext.Encoder, baseTopic, willTopic string) error {
	if c.AvailabilityTopic == "" {
		return discovery.MaybeMarshalString(e, discovery.FieldAvailabilityTopic, willTopic)
	}

	err := errors.Join(
		discovery.MarshalString(e, discovery.FieldAvailabilityMode, discovery.AvailabilityModeAll),
		e.WriteToken(jsontext.String(discovery.FieldAvailability)),
		e.WriteToken(jsontext.BeginArray),
	)
	if err != nil {
		return err
	}

	// The will topic entry comes first.
	if willTopic != "" {
		err = errors.Join(
			e.WriteToken(jsontext.BeginObject),
			discovery.MarshalString(e, discovery.FieldTopic, willTopic),
			discovery.MarshalString(e, discovery.FieldPayloadAvailable, string(hass.Available)),
			discovery.MarshalString(e, discovery.FieldPayloadNotAvailable, string(hass.Unavailable)),
			e.WriteToken(jsontext.EndObject),
		)
		if err != nil {
			return err
		}
	}

	return errors.Join(
		e.WriteToken(jsontext.BeginObject),
		discovery.MaybeMarshalTopic(e, discovery.FieldTopic, baseTopic, c.AvailabilityTopic),
		discovery.MaybeMarshalString(e, discovery.FieldPayloadAvailable, c.PayloadAvailable),
		discovery.MaybeMarshalString(e, discovery.FieldPayloadNotAvailable, c.PayloadNotAvailable),
		e.WriteToken(jsontext.EndObject),
		e.WriteToken(jsontext.EndArray),
	)
}

// marshalPlatform writes the fields specific to the component's kind.
func (c Component) marshalPlatform(e *jsontext.Encoder, baseTopic string) error {
	switch c.Kind {
	case KindNumber:
		n := DefaultNumberSettings
		if c.Number != nil {
			n = *c.Number
		}

		return errors.Join(
			discovery.MarshalString(e, discovery.FieldMode, n.Mode.Value()),
			discovery.MarshalFloat(e, discovery.FieldMin, n.Min),
			discovery.MarshalFloat(e, discovery.FieldMax, n.Max),
			discovery.MarshalFloat(e, discovery.FieldStep, n.Step),
		)
	case KindSelect:
		return discovery.MaybeMarshalStdSlice(e, discovery.FieldOptions, c.Options)
	case KindUpdate:
		if c.Update == nil {
			return nil
		}

		return errors.Join(
			discovery.MaybeMarshalString(e, discovery.FieldReleaseURL, c.Update.ReleaseURL),
			discovery.MaybeMarshalTopic(e, discovery.FieldLatestVersionTopic, baseTopic, c.Update.LatestVersionTopic),
		)
	default:
		return nil
	}
}
