// Package manifest loads a device and the entities it exposes from a YAML file, so discovery payloads can be announced
// without writing Go.
//
// A minimal manifest looks like this:
//
//	base_topic: garage
//	will_topic: garage/status
//	device:
//	  name: Garage Controller
//	entities:
//	  - kind: button
//	    name: Door
//	    command_topic: /door/toggle
//	  - kind: gauge
//	    name: Temperature
//	    state_topic: /temperature
//	    unit: °C
//
// Entity and device IDs are derived from their names when omitted.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/nlowe/hadiscovery"
	"github.com/nlowe/hadiscovery/discovery"
	"github.com/nlowe/hadiscovery/hass"
)

var (
	ErrNoDevice      = errors.New("manifest: device needs an id or a name")
	ErrNoBaseTopic   = errors.New("manifest: base_topic is required")
	ErrUnknownKind   = errors.New("manifest: unknown entity kind")
	ErrNoEntityID    = errors.New("manifest: entity needs an id or a name")
	ErrDuplicateID   = errors.New("manifest: duplicate entity id")
	ErrInvalidOption = errors.New("manifest: invalid value")
)

// Manifest is the parsed form of a manifest file.
type Manifest struct {
	DiscoveryTopic   string        `yaml:"discovery_topic"`
	BaseTopic        string        `yaml:"base_topic"`
	WillTopic        string        `yaml:"will_topic"`
	SensorExpiration time.Duration `yaml:"sensor_expiration"`

	Device   Device   `yaml:"device"`
	Entities []Entity `yaml:"entities"`
}

type Device struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Model        string `yaml:"model"`
	Manufacturer string `yaml:"manufacturer"`
	URL          string `yaml:"url"`
}

type Availability struct {
	Topic               string `yaml:"topic"`
	PayloadAvailable    string `yaml:"payload_available"`
	PayloadNotAvailable string `yaml:"payload_not_available"`
}

type Number struct {
	Mode string   `yaml:"mode"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Step *float64 `yaml:"step"`
}

type Update struct {
	ReleaseURL         string `yaml:"release_url"`
	LatestVersionTopic string `yaml:"latest_version_topic"`
}

// Entity describes a single component. Fields that do not apply to the entity's kind are ignored.
type Entity struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	DeviceClass string `yaml:"device_class"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	StateClass  string `yaml:"state_class"`
	Unit        string `yaml:"unit"`

	StateTopic    string `yaml:"state_topic"`
	CommandTopic  string `yaml:"command_topic"`
	ValueTemplate string `yaml:"value_template"`
	Pattern       string `yaml:"pattern"`

	PayloadOn  string `yaml:"payload_on"`
	PayloadOff string `yaml:"payload_off"`

	Availability *Availability `yaml:"availability"`
	Number       *Number       `yaml:"number"`
	Options      []string      `yaml:"options"`
	Update       *Update       `yaml:"update"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a manifest and fills in derived IDs and defaults. It fails if an entity has an unknown kind or an
// invalid category, state class or number mode.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	m := &Manifest{DiscoveryTopic: discovery.DefaultPrefix}
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}

	if m.BaseTopic == "" {
		return nil, ErrNoBaseTopic
	}

	if m.Device.ID == "" {
		m.Device.ID = Slug(m.Device.Name)
	}

	if m.Device.ID == "" {
		return nil, ErrNoDevice
	}

	seen := make(map[string]struct{}, len(m.Entities))
	for i := range m.Entities {
		e := &m.Entities[i]
		if e.ID == "" {
			e.ID = Slug(e.Name)
		}

		if e.ID == "" {
			return nil, fmt.Errorf("%w: entity %d", ErrNoEntityID, i)
		}

		if _, ok := seen[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}

		if _, err := e.Component(); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Slug turns a display name into an ID usable in topics and unique IDs, e.g. "Inside Temperature" becomes
// "inside_temperature".
func Slug(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// HADevice returns the device to publish components under.
func (m *Manifest) HADevice() hadiscovery.Device {
	return hadiscovery.Device{
		ID:           m.Device.ID,
		Name:         m.Device.Name,
		Version:      m.Device.Version,
		Model:        m.Device.Model,
		Manufacturer: m.Device.Manufacturer,
		URL:          m.Device.URL,
	}
}

// Configure applies the topics and sensor expiration of the manifest to the engine. The device, base topic and
// publisher are set with Engine.Begin.
func (m *Manifest) Configure(e *hadiscovery.Engine) {
	e.SetDiscoveryTopic(m.DiscoveryTopic)
	e.SetWillTopic(m.WillTopic)
	e.SetSensorExpiration(m.SensorExpiration)
}

// Components converts every entity of the manifest, in order.
func (m *Manifest) Components() ([]hadiscovery.Component, error) {
	result := make([]hadiscovery.Component, 0, len(m.Entities))
	for _, e := range m.Entities {
		c, err := e.Component()
		if err != nil {
			return nil, err
		}

		result = append(result, c)
	}

	return result, nil
}

// Component converts the entity into a hadiscovery.Component.
func (e Entity) Component() (hadiscovery.Component, error) {
	kind, ok := hadiscovery.ParseKind(e.Kind)
	if !ok {
		return hadiscovery.Component{}, fmt.Errorf("%w: %q (entity %s)", ErrUnknownKind, e.Kind, e.ID)
	}

	category, err := parseCategory(e.Category)
	if err != nil {
		return hadiscovery.Component{}, fmt.Errorf("entity %s: %w", e.ID, err)
	}

	stateClass, err := parseStateClass(e.StateClass)
	if err != nil {
		return hadiscovery.Component{}, fmt.Errorf("entity %s: %w", e.ID, err)
	}

	c := hadiscovery.Component{
		Kind:          kind,
		ID:            e.ID,
		Name:          e.Name,
		DeviceClass:   e.DeviceClass,
		Icon:          e.Icon,
		Category:      category,
		StateClass:    stateClass,
		Unit:          e.Unit,
		StateTopic:    e.StateTopic,
		CommandTopic:  e.CommandTopic,
		ValueTemplate: e.ValueTemplate,
		Pattern:       e.Pattern,
		PayloadOn:     e.PayloadOn,
		PayloadOff:    e.PayloadOff,
		Options:       e.Options,
	}

	if e.Availability != nil {
		c = c.WithAvailability(e.Availability.Topic, e.Availability.PayloadAvailable, e.Availability.PayloadNotAvailable)
	}

	switch kind {
	case hadiscovery.KindSwitch, hadiscovery.KindOutlet:
		if c.PayloadOn == "" {
			c.PayloadOn = string(hass.PowerStateOn)
		}

		if c.PayloadOff == "" {
			c.PayloadOff = string(hass.PowerStateOff)
		}
	case hadiscovery.KindNumber:
		settings, err := e.Number.settings()
		if err != nil {
			return hadiscovery.Component{}, fmt.Errorf("entity %s: %w", e.ID, err)
		}

		c.Number = &settings
	case hadiscovery.KindUpdate:
		if e.Update != nil {
			c.Update = &hadiscovery.UpdateSettings{
				ReleaseURL:         e.Update.ReleaseURL,
				LatestVersionTopic: e.Update.LatestVersionTopic,
			}
		}
	}

	return c, nil
}

func (n *Number) settings() (hadiscovery.NumberSettings, error) {
	result := hadiscovery.DefaultNumberSettings
	if n == nil {
		return result, nil
	}

	mode, err := parseNumberMode(n.Mode)
	if err != nil {
		return result, err
	}
	result.Mode = mode

	if n.Min != nil {
		result.Min = *n.Min
	}

	if n.Max != nil {
		result.Max = *n.Max
	}

	if n.Step != nil {
		result.Step = *n.Step
	}

	return result, nil
}

func parseCategory(v string) (hass.Category, error) {
	switch v {
	case "":
		return hass.CategoryNone, nil
	case hass.CategoryConfig.Value():
		return hass.CategoryConfig, nil
	case hass.CategoryDiagnostic.Value():
		return hass.CategoryDiagnostic, nil
	default:
		return hass.CategoryNone, fmt.Errorf("%w: category %q", ErrInvalidOption, v)
	}
}

func parseStateClass(v string) (hass.StateClass, error) {
	switch v {
	case "":
		return hass.StateClassNone, nil
	case hass.StateClassMeasurementValue:
		return hass.StateClassGauge, nil
	case hass.StateClassTotalIncreasingValue:
		return hass.StateClassCounter, nil
	case hass.StateClassTotalValue:
		return hass.StateClassTotal, nil
	default:
		return hass.StateClassNone, fmt.Errorf("%w: state_class %q", ErrInvalidOption, v)
	}
}

func parseNumberMode(v string) (hass.NumberMode, error) {
	switch v {
	case "", hass.NumberModeAuto.Value():
		return hass.NumberModeAuto, nil
	case hass.NumberModeBox.Value():
		return hass.NumberModeBox, nil
	case hass.NumberModeSlider.Value():
		return hass.NumberModeSlider, nil
	default:
		return hass.NumberModeAuto, fmt.Errorf("%w: mode %q", ErrInvalidOption, v)
	}
}
