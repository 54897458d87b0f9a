package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load builds a Config by layering, in increasing priority:
//  1. Default()
//  2. a YAML file (GCSD_CONFIG_FILE, default "./gcsd.yaml", if present)
//  3. a .env file (GCSD_ENV_FILE, default "./.env", if present) merged
//     into the process environment
//  4. environment variables
//
// Missing files at any layer are silently skipped. A YAML file that exists
// but cannot be read or parsed is fatal, the same way the teacher's Load()
// treats a failed Validate() as fatal; a .env file that exists but cannot
// be loaded is only logged as a warning.
func Load() *Config {
	cfg := Default()

	yamlPath := os.Getenv("GCSD_CONFIG_FILE")
	if yamlPath == "" {
		yamlPath = "./gcsd.yaml"
	}
	if err := mergeYAMLFile(cfg, yamlPath); err != nil {
		log.Fatalf("config: failed to load %s: %v", yamlPath, err)
	}

	envPath := os.Getenv("GCSD_ENV_FILE")
	if envPath == "" {
		envPath = "./.env"
	}
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Printf("config: warning: could not load %s: %v", envPath, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("GCSD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Daemon.Port = p
		}
	}

	if host := os.Getenv("GCSD_HOST"); host != "" {
		cfg.Daemon.Host = host
	}

	if logLevel := os.Getenv("GCSD_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if transport := os.Getenv("GCSD_LINK_TRANSPORT"); transport != "" {
		cfg.Link.Transport = transport
	}

	if port := os.Getenv("GCSD_SERIAL_PORT"); port != "" {
		cfg.Link.SerialPort = port
	}

	if baud := os.Getenv("GCSD_SERIAL_BAUD"); baud != "" {
		if b, err := strconv.Atoi(baud); err == nil {
			cfg.Link.SerialBaud = b
		}
	}

	if host := os.Getenv("GCSD_TCP_HOST"); host != "" {
		cfg.Link.TCPHost = host
	}

	if port := os.Getenv("GCSD_TCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Link.TCPPort = p
		}
	}

	if port := os.Getenv("GCSD_UDP_LOCAL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Link.UDPLocalPort = p
		}
	}

	if rate := os.Getenv("GCSD_TELEMETRY_RATE"); rate != "" {
		cfg.Link.TelemetryRate = rate
	}
}
