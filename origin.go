package hadiscovery

import "net/url"

// Origin provides information about the software publishing discovery payloads. Home Assistant logs the origin in its
// core event log when an item is discovered or updated, which helps with troubleshooting. It is only included in
// payloads when configured with Engine.SetOrigin.
type Origin struct {
	// The name of the application that is the origin of the discovered MQTT item.
	Name string `json:"name"`
	// Software version of the application that supplies the discovered MQTT item.
	SoftwareVersion string `json:"sw,omitempty"`
	// Support URL of the application that supplies the discovered MQTT item.
	SupportURL *url.URL `json:"url,omitempty"`
}

var (
	supportURL, _ = url.Parse("https://github.com/nlowe/hadiscovery")

	// DefaultOrigin describes this library. Pass it to Engine.SetOrigin to advertise it.
	DefaultOrigin = Origin{
		Name:            "hadiscovery",
		SoftwareVersion: "master",
		SupportURL:      supportURL,
	}
)
