package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/fitlink/fitlink-go/pkg/interfaces"
	"github.com/fitlink/fitlink-go/protocols/websocket"
)

// Config is the client configuration, shaped to match the YAML file.
type Config struct {
	System struct {
		BasePath string `mapstructure:"base_path"`

		Network struct {
			Transport string           `mapstructure:"transport"`
			Websocket *WebsocketConfig `mapstructure:"websocket"`
		} `mapstructure:"network"`
	} `mapstructure:"system"`

	Reconnect struct {
		Interval    string `mapstructure:"interval"`
		MaxAttempts int    `mapstructure:"max_attempts"`
	} `mapstructure:"reconnect"`

	Logging struct {
		Level   string   `mapstructure:"level"`
		Outputs []string `mapstructure:"outputs"`
	} `mapstructure:"logging"`
}

type WebsocketConfig struct {
	URL         string `mapstructure:"url"`
	AccessToken string `mapstructure:"access_token"`
}

// ReconnectInterval parses the configured retry interval, falling back to
// the default when unset.
func (c Config) ReconnectInterval() (time.Duration, error) {
	if c.Reconnect.Interval == "" {
		return defaultReconnectInterval, nil
	}
	d, err := time.ParseDuration(c.Reconnect.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid reconnect interval %q: %w", c.Reconnect.Interval, err)
	}
	return d, nil
}

// NewProtocol creates the transport named by the configuration. The user
// UUID is sent as the client identity header on dial.
func NewProtocol(config Config, userUUID string) (interfaces.TransportProtocol, error) {
	switch config.System.Network.Transport {
	case "websocket":
		if config.System.Network.Websocket == nil {
			return nil, errors.New("websocket config missing")
		}

		wsConfig := websocket.Config{}
		wsConfig.Server.URL = config.System.Network.Websocket.URL
		wsConfig.Server.ProtocolVersion = 1
		wsConfig.Auth.AccessToken = config.System.Network.Websocket.AccessToken
		wsConfig.Client.UserUUID = userUUID
		return websocket.NewWSProtocol(wsConfig)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, config.System.Network.Transport)
	}
}
