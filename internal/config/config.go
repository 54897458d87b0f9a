package config

import "fmt"

// Config holds all application configuration.
type Config struct {
	Daemon  DaemonConfig
	Link    LinkConfig
	Logging LoggingConfig
}

// DaemonConfig controls the diagnostic HTTP/WebSocket surface (see
// internal/diagnostics). It is not part of the protocol core itself.
type DaemonConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// LinkConfig describes the default transport used to reach the vehicle.
// A caller may override any of this at Connect time.
type LinkConfig struct {
	Transport string // "serial", "tcp", "udp"

	SerialPort string
	SerialBaud int

	TCPHost string
	TCPPort int

	UDPLocalPort  int
	UDPRemoteHost string
	UDPRemotePort int

	AutoReconnect   bool
	TelemetryRate   string // "slow", "normal", "fast"
	HeartbeatTimeMs int    // watchdog timeout, spec default 5000
}

type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Prefix string
}

// Default returns a Config with sensible defaults, mirroring the shape of
// a typical ArduPilot SITL or USB-telemetry-radio setup.
func Default() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Host: "0.0.0.0",
			Port: 8088,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		Link: LinkConfig{
			Transport:       "serial",
			SerialPort:      "/dev/ttyUSB0",
			SerialBaud:      57600,
			TCPHost:         "127.0.0.1",
			TCPPort:         5760,
			UDPLocalPort:    14550,
			AutoReconnect:   true,
			TelemetryRate:   "normal",
			HeartbeatTimeMs: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "[gcsd] ",
		},
	}
}

// Validate checks if the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Daemon.Port < 1 || c.Daemon.Port > 65535 {
		return fmt.Errorf("invalid daemon port: %d", c.Daemon.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validRates := map[string]bool{"slow": true, "normal": true, "fast": true}
	if !validRates[c.Link.TelemetryRate] {
		return fmt.Errorf("invalid telemetry rate profile: %s", c.Link.TelemetryRate)
	}

	switch c.Link.Transport {
	case "serial", "tcp", "udp":
	default:
		return fmt.Errorf("invalid transport: %s", c.Link.Transport)
	}

	return nil
}

// DaemonAddr returns the diagnostic server address as host:port.
func (c *Config) DaemonAddr() string {
	return fmt.Sprintf("%s:%d", c.Daemon.Host, c.Daemon.Port)
}
