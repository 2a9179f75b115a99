package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigTopic(t *testing.T) {
	t.Run("Default Prefix", func(t *testing.T) {
		require.Equal(t, "homeassistant/button/dev42/relay1/config", ConfigTopic(DefaultPrefix, "button", "dev42", "relay1"))
	})

	t.Run("Parts Are Not Normalized", func(t *testing.T) {
		require.Equal(t, "homeassistant/button/dev42//config", ConfigTopic(DefaultPrefix, "button", "dev42", ""))
		require.Equal(t, "homeassistant/button/dev42//relay1/config", ConfigTopic(DefaultPrefix, "button", "dev42", "/relay1"))
	})

	t.Run("Nested Prefix", func(t *testing.T) {
		require.Equal(t, "homeassistant/discovery/sensor/dev42/temp/config", ConfigTopic("homeassistant/discovery", "sensor", "dev42", "temp"))
	})
}

func TestUniqueID(t *testing.T) {
	require.Equal(t, "dev42_relay1", UniqueID("dev42", "relay1"))
}
