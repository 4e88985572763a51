package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for dwgate.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Modem   ModemConfig   `yaml:"modem"`
	Gateway GatewayConfig `yaml:"gateway"`
	Logging LoggingConfig `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// ModemConfig contains UWB modem connection settings.
type ModemConfig struct {
	// Port is the serial device path, e.g. "/dev/ttyACM0".
	Port string `yaml:"port"`

	// BaudRate is the UART baud rate. Must match the modem firmware.
	BaudRate int `yaml:"baud_rate"`

	// PanID is this node's personal area network identifier.
	PanID uint16 `yaml:"pan_id"`

	// ShortAddr is this node's 16-bit network address.
	ShortAddr uint16 `yaml:"short_addr"`

	// AckTimeoutMs is the maximum wait for the modem to acknowledge a
	// listen command, in milliseconds.
	AckTimeoutMs int `yaml:"ack_timeout_ms"`
}

// GatewayConfig contains receive loop tuning.
type GatewayConfig struct {
	// ReceiveTimeoutMs bounds one wait-for-frame operation, in milliseconds.
	ReceiveTimeoutMs int `yaml:"receive_timeout_ms"`

	// StartBackoffMs is the pause after a failed receive start, in
	// milliseconds.
	StartBackoffMs int `yaml:"start_backoff_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DWGATE_SECTION_KEY
// For example: DWGATE_MODEM_PORT, DWGATE_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "dwgate",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Modem: ModemConfig{
			Port:         "/dev/ttyACM0",
			BaudRate:     230400,
			PanID:        0x0386,
			ShortAddr:    0x0808,
			AckTimeoutMs: 500,
		},
		Gateway: GatewayConfig{
			ReceiveTimeoutMs: 1000,
			StartBackoffMs:   250,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DWGATE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("DWGATE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("DWGATE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("DWGATE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Modem
	if v := os.Getenv("DWGATE_MODEM_PORT"); v != "" {
		cfg.Modem.Port = v
	}
	if v := os.Getenv("DWGATE_MODEM_PAN_ID"); v != "" {
		if id, err := parseUint16(v); err == nil {
			cfg.Modem.PanID = id
		}
	}
	if v := os.Getenv("DWGATE_MODEM_SHORT_ADDR"); v != "" {
		if addr, err := parseUint16(v); err == nil {
			cfg.Modem.ShortAddr = addr
		}
	}

	// Logging
	if v := os.Getenv("DWGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// parseUint16 parses a decimal or 0x-prefixed hexadecimal address value.
func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}

	// Modem validation
	if c.Modem.Port == "" {
		errs = append(errs, "modem.port is required")
	}
	if c.Modem.BaudRate <= 0 {
		errs = append(errs, "modem.baud_rate must be positive")
	}
	if c.Modem.ShortAddr == 0xFFFF {
		errs = append(errs, "modem.short_addr must not be the broadcast address 0xFFFF")
	}
	if c.Modem.PanID == 0xFFFF {
		errs = append(errs, "modem.pan_id must not be the broadcast PAN 0xFFFF")
	}
	if c.Modem.AckTimeoutMs <= 0 {
		errs = append(errs, "modem.ack_timeout_ms must be positive")
	}

	// Gateway validation
	if c.Gateway.ReceiveTimeoutMs <= 0 {
		errs = append(errs, "gateway.receive_timeout_ms must be positive")
	}
	if c.Gateway.StartBackoffMs <= 0 {
		errs = append(errs, "gateway.start_backoff_ms must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetAckTimeout returns the modem ack timeout as a Duration.
func (c *Config) GetAckTimeout() time.Duration {
	return time.Duration(c.Modem.AckTimeoutMs) * time.Millisecond
}

// GetReceiveTimeout returns the receive timeout as a Duration.
func (c *Config) GetReceiveTimeout() time.Duration {
	return time.Duration(c.Gateway.ReceiveTimeoutMs) * time.Millisecond
}

// GetStartBackoff returns the receive start backoff as a Duration.
func (c *Config) GetStartBackoff() time.Duration {
	return time.Duration(c.Gateway.StartBackoffMs) * time.Millisecond
}
