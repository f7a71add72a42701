package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ClientConfig holds the client's startup settings.
type ClientConfig struct {
	// RulesEndpoint is the remote rules-procedure endpoint URL.
	RulesEndpoint string `json:"rules_endpoint"`
	// ForceRemote disables the embedded-engine probe and forces the
	// remote backend.
	ForceRemote bool `json:"force_remote"`
	// StateSyncURL is the authoritative state-stream websocket URL.
	StateSyncURL string `json:"state_sync_url"`
	// HTTPTimeoutSeconds bounds each remote rules round trip.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds"`
	LogLevel           string `json:"log_level"`
}

var (
	cfg      *ClientConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadClientConfig loads the client configuration from the given path.
func LoadClientConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read client config: %w", err)
			return
		}

		var c ClientConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal client config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetClientConfig returns the global client configuration.
func GetClientConfig() *ClientConfig {
	return cfg
}

// GetHTTPTimeoutSeconds returns the configured round-trip timeout, or a
// safe default.
func GetHTTPTimeoutSeconds() int {
	if cfg == nil || cfg.HTTPTimeoutSeconds <= 0 {
		return 10
	}
	return cfg.HTTPTimeoutSeconds
}
