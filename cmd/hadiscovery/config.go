package main

import (
	"log/slog"
	"net/url"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "HADISCOVERY_"

type config struct {
	Broker   url.URL `env:"BROKER" envDefault:"mqtt://localhost:1883"`
	ClientID string  `env:"CLIENT_ID"`
	Username string  `env:"USERNAME"`
	Password string  `env:"PASSWORD"`

	Manifest string     `env:"MANIFEST" envDefault:"hadiscovery.yaml"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// Retract every entity in the manifest instead of announcing it.
	Remove bool `env:"REMOVE"`

	// Act as the device on the manifest's will topic: register the last will, publish "online" on connect and
	// "offline" on disconnect. Leave unset when the device publishes its own availability.
	Availability bool `env:"AVAILABILITY"`
}

func parseConfig(environ map[string]string) (config, error) {
	return env.ParseAsWithOptions[config](env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	})
}

// clientID returns the configured client ID, or one derived from the device ID.
func (c config) clientID(deviceID string) string {
	if c.ClientID != "" {
		return c.ClientID
	}

	return "hadiscovery-" + deviceID
}

// connectionWillTopic returns the will topic the MQTT connection announces availability on, or the empty string when
// availability is owned by the device itself.
func (c config) connectionWillTopic(willTopic string) string {
	if !c.Availability {
		return ""
	}

	return willTopic
}
