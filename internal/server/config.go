package server

import (
	"fmt"
	"os"
	"strings"
)

// Config controls driftlens-server runtime settings.
type Config struct {
	Addr        string
	DataDir     string
	ScanToken   string
	AuthMode    string
	CORSOrigins []string
}

// LoadConfigFromEnv builds server config from environment variables.
func LoadConfigFromEnv() Config {
	cfg := Config{
		Addr:      ":8085",
		DataDir:   ".driftlens-server-data",
		ScanToken: strings.TrimSpace(os.Getenv("DRIFTLENS_SERVER_SCAN_TOKEN")),
	}

	if value := strings.TrimSpace(os.Getenv("DRIFTLENS_SERVER_ADDR")); value != "" {
		cfg.Addr = value
	}
	if value := strings.TrimSpace(os.Getenv("DRIFTLENS_SERVER_DATA_DIR")); value != "" {
		cfg.DataDir = value
	}
	if value := strings.TrimSpace(os.Getenv("DRIFTLENS_SERVER_AUTH_MODE")); value != "" {
		cfg.AuthMode = strings.ToLower(value)
	}
	if cfg.AuthMode == "" {
		if cfg.ScanToken == "" {
			cfg.AuthMode = "none"
		} else {
			cfg.AuthMode = "token"
		}
	}
	if value := strings.TrimSpace(os.Getenv("DRIFTLENS_SERVER_CORS_ORIGINS")); value != "" {
		cfg.CORSOrigins = strings.Split(value, ",")
	} else {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg
}

func validateConfig(cfg Config) error {
	switch cfg.AuthMode {
	case "", "none":
	case "token":
		if strings.TrimSpace(cfg.ScanToken) == "" {
			return fmt.Errorf("DRIFTLENS_SERVER_AUTH_MODE=token requires DRIFTLENS_SERVER_SCAN_TOKEN")
		}
	default:
		return fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
	return nil
}
