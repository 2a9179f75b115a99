package hass

// PowerState represents generic on/off state for devices. This may or may not refer to physical power depending on the
// underlying entity (For example, a motion sensor may report PowerStateOn when motion is detected). The constants are
// the conventional payloads for switch, outlet and binary sensor components.
type PowerState string

const (
	PowerStateOn  PowerState = "ON"
	PowerStateOff PowerState = "OFF"
)
