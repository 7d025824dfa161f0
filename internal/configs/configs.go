/*
Package configs is responsible for loading and parsing the application's configuration settings.

All values come from environment variables, with development defaults for
everything so a bare `go run ./cmd` starts a working server.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig contains all configuration parameters required for the server to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	ChatPort    int
	AdminPort   int

	// Chat Settings
	DefaultRoom string
	MOTD        string

	// Admin API Security Settings
	AllowedOrigins []string
}

const defaultMOTD = "Thanks for connecting to BisonChat Server.\n\nchat>"

// LoadConfig reads and validates the configuration from environment
// variables, applying defaults where a variable is unset.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	chatPort, err := portFromEnv("CHAT_PORT", 8888)
	if err != nil {
		return nil, err
	}
	cfg.ChatPort = chatPort

	adminPort, err := portFromEnv("ADMIN_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.AdminPort = adminPort

	if cfg.ChatPort == cfg.AdminPort {
		return nil, fmt.Errorf("CHAT_PORT and ADMIN_PORT must differ (both %d)", cfg.ChatPort)
	}

	// --- Chat Settings ---
	cfg.DefaultRoom = os.Getenv("DEFAULT_ROOM")
	if cfg.DefaultRoom == "" {
		cfg.DefaultRoom = "Lobby"
	}

	cfg.MOTD = os.Getenv("MOTD")
	if cfg.MOTD == "" {
		cfg.MOTD = defaultMOTD
	}

	// --- Admin API Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	return cfg, nil
}

// portFromEnv parses a port number from the named environment variable,
// falling back to def when unset and rejecting privileged or invalid ports.
func portFromEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if port < 1024 || port > 65535 {
		return 0, fmt.Errorf("%s value %d is outside the allowed range (1024-65535)", name, port)
	}
	return port, nil
}
