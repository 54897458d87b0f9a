package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of Config a deployment is expected to pin
// in a checked-in file, as opposed to per-environment overrides.
type fileConfig struct {
	Daemon struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"daemon"`
	Link struct {
		Transport       string `yaml:"transport"`
		SerialPort      string `yaml:"serial_port"`
		SerialBaud      int    `yaml:"serial_baud"`
		TCPHost         string `yaml:"tcp_host"`
		TCPPort         int    `yaml:"tcp_port"`
		UDPLocalPort    int    `yaml:"udp_local_port"`
		UDPRemoteHost   string `yaml:"udp_remote_host"`
		UDPRemotePort   int    `yaml:"udp_remote_port"`
		AutoReconnect   *bool  `yaml:"auto_reconnect"`
		TelemetryRate   string `yaml:"telemetry_rate"`
		HeartbeatTimeMs int    `yaml:"heartbeat_timeout_ms"`
	} `yaml:"link"`
	Logging struct {
		Level  string `yaml:"level"`
		Prefix string `yaml:"prefix"`
	} `yaml:"logging"`
}

// mergeYAMLFile overlays the contents of path onto cfg. A missing file is
// not an error; a present-but-invalid file is.
func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Daemon.Host != "" {
		cfg.Daemon.Host = fc.Daemon.Host
	}
	if fc.Daemon.Port != 0 {
		cfg.Daemon.Port = fc.Daemon.Port
	}
	if len(fc.Daemon.CORSOrigins) > 0 {
		cfg.Daemon.CORSOrigins = fc.Daemon.CORSOrigins
	}

	if fc.Link.Transport != "" {
		cfg.Link.Transport = fc.Link.Transport
	}
	if fc.Link.SerialPort != "" {
		cfg.Link.SerialPort = fc.Link.SerialPort
	}
	if fc.Link.SerialBaud != 0 {
		cfg.Link.SerialBaud = fc.Link.SerialBaud
	}
	if fc.Link.TCPHost != "" {
		cfg.Link.TCPHost = fc.Link.TCPHost
	}
	if fc.Link.TCPPort != 0 {
		cfg.Link.TCPPort = fc.Link.TCPPort
	}
	if fc.Link.UDPLocalPort != 0 {
		cfg.Link.UDPLocalPort = fc.Link.UDPLocalPort
	}
	if fc.Link.UDPRemoteHost != "" {
		cfg.Link.UDPRemoteHost = fc.Link.UDPRemoteHost
	}
	if fc.Link.UDPRemotePort != 0 {
		cfg.Link.UDPRemotePort = fc.Link.UDPRemotePort
	}
	if fc.Link.AutoReconnect != nil {
		cfg.Link.AutoReconnect = *fc.Link.AutoReconnect
	}
	if fc.Link.TelemetryRate != "" {
		cfg.Link.TelemetryRate = fc.Link.TelemetryRate
	}
	if fc.Link.HeartbeatTimeMs != 0 {
		cfg.Link.HeartbeatTimeMs = fc.Link.HeartbeatTimeMs
	}

	if fc.Logging.Level != "" {
		cfg.Logging.Level = fc.Logging.Level
	}
	if fc.Logging.Prefix != "" {
		cfg.Logging.Prefix = fc.Logging.Prefix
	}

	return nil
}
