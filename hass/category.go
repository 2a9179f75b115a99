package hass

import "log/slog"

// Category maps to the entity_category of a Home Assistant entity. The zero value, CategoryNone, leaves the entity as a
// regular (primary) entity. It implements fmt.Stringer and slog.LogValuer.
//
// See https://developers.home-assistant.io/docs/core/entity/#generic-properties
type Category uint8

const (
	CategoryNone Category = iota
	// CategoryConfig marks entities that change the configuration of a device, e.g. a toggle for a status LED.
	CategoryConfig
	// CategoryDiagnostic marks read-only entities exposing configuration or diagnostics, e.g. RSSI or a firmware
	// version.
	CategoryDiagnostic
)

// Value returns the string Home Assistant expects for the category, or the empty string for CategoryNone.
func (c Category) Value() string {
	switch c {
	case CategoryConfig:
		return "config"
	case CategoryDiagnostic:
		return "diagnostic"
	default:
		return ""
	}
}

func (c Category) String() string {
	if v := c.Value(); v != "" {
		return v
	}

	return "none"
}

func (c Category) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
