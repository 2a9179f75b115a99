package hadiscovery

import (
	"encoding/json/jsontext"
	"errors"
	"log/slog"

	"github.com/nlowe/hadiscovery/discovery"
)

// Device identifies the hardware (or program) every published component belongs to. It is embedded verbatim as the
// `dev` object of each discovery payload. It implements json.MarshalerTo and slog.LogValuer.
//
// See https://www.home-assistant.io/integrations/mqtt/#discovery-payload
type Device struct {
	// A stable identifier for the device. It scopes every component's unique ID and is part of every discovery topic.
	// Nothing is published while it is empty.
	ID string

	// The name of the device.
	Name string

	// The firmware / software version of the device.
	Version string

	// The model of the device.
	Model string

	// The manufacturer of the device.
	Manufacturer string

	// A link to the webpage that can manage the configuration of this device. Can be either a http://, https:// or an
	// internal homeassistant:// URL.
	URL string
}

func (d Device) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", d.ID),
		slog.String("name", d.Name),
		slog.String("version", d.Version),
	)
}

// MarshalJSONTo writes the device block. Every field is written, even when empty.
func (d Device) MarshalJSONTo(e *jsontext.Encoder) error {
	return errors.Join(
		e.WriteToken(jsontext.BeginObject),

		discovery.MarshalString(e, discovery.FieldName, d.Name),
		discovery.MarshalString(e, discovery.FieldIdentifiers, d.ID),
		discovery.MarshalString(e, discovery.FieldManufacturer, d.Manufacturer),
		discovery.MarshalString(e, discovery.FieldModel, d.Model),
		discovery.MarshalString(e, discovery.FieldSoftwareVersion, d.Version),
		discovery.MarshalString(e, discovery.FieldConfigurationURL, d.URL),

		e.WriteToken(jsontext.EndObject),
	)
}
