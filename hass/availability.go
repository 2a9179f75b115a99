package hass

// Availability exposes whether Home Assistant should consider a device or entity as "available" (aka it is online).
type Availability string

const (
	// Available is the Availability value for online/available devices. It is the payload the device publishes to its
	// last will topic once connected.
	Available Availability = "online"
	// Unavailable is the Availability value for offline/unavailable devices. It is the payload of the MQTT last will.
	Unavailable Availability = "offline"
)
