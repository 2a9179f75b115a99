package discovery

import (
	"strings"

	"github.com/nlowe/hadiscovery/mqtt"
)

const (
	// DefaultPrefix is the MQTT Topic Prefix that Home Assistant looks for discovery payloads under
	DefaultPrefix = "homeassistant"

	configSuffix = "config"
	idSep        = "_"
)

// ConfigTopic builds the topic a component's discovery payload is published to:
//
//	{prefix}/{platform}/{deviceID}/{objectID}/config
//
// Parts are joined verbatim, so the object ID in the topic always matches the one in UniqueID.
func ConfigTopic(prefix, platform, deviceID, objectID string) string {
	return strings.Join([]string{prefix, platform, deviceID, objectID, configSuffix}, mqtt.TopicSeparator)
}

// UniqueID scopes a component ID under its device: "{deviceID}_{componentID}".
func UniqueID(deviceID, componentID string) string {
	return deviceID + idSep + componentID
}
