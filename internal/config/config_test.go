package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DEVICE_ID", "+15550001")
	t.Setenv("SUBSCRIBER_ID", strings.Repeat("a1", 32))
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5555, cfg.LocationPort)
	assert.Equal(t, 5556, cfg.IncidentPort)
	assert.Equal(t, 20*time.Second, cfg.SocketTimeout)
	assert.Equal(t, 30*time.Second, cfg.RepeatInterval)
	assert.Equal(t, "UTC", cfg.DeviceTimezone)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Nil(t, cfg.StaticPeers)
}

func TestLoadConfig_Lists(t *testing.T) {
	setRequired(t)
	t.Setenv("STATIC_PEERS", " 10.0.0.2, ,10.0.0.3 ")
	t.Setenv("API_KEYS", "k1,k2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.StaticPeers)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port below registered range", "LOCATION_PORT", "80"},
		{"port above range", "INCIDENT_PORT", "70000"},
		{"same ports", "INCIDENT_PORT", "5555"},
		{"short subscriber", "SUBSCRIBER_ID", "abcd"},
		{"unknown timezone", "DEVICE_TIMEZONE", "Mars/Olympus"},
		{"delimiter in device id", "DEVICE_ID", "dev|1"},
		{"peer is not an ip", "STATIC_PEERS", "peer.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadConfig_MissingDeviceID(t *testing.T) {
	t.Setenv("SUBSCRIBER_ID", strings.Repeat("a1", 32))
	t.Setenv("DEVICE_ID", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
