/*
Package configs is responsible for loading and parsing the application's configuration settings.

All values are read from operating system environment variables, with development
defaults where safe and hard failures where a production value is required.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string
	JWTSecret      string

	// Room Directory / Word Pool Settings
	RedisAddr     string
	RedisPassword string

	// Game Settings
	MaxPlayers     int
	Rounds         int
	TurnTicks      int
	TickInterval   time.Duration
	GracePeriod    time.Duration
	WordPoolExtras []string
}

// LoadConfig reads and parses the application configuration from environment variables.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	// --- Room Directory / Word Pool Settings ---
	// Optional: when unset, the server falls back to in-process implementations.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	// --- Game Settings ---
	cfg.MaxPlayers, err = intFromEnv("MAX_PLAYERS", 8)
	if err != nil {
		return nil, err
	}
	if cfg.MaxPlayers < 2 {
		return nil, fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", cfg.MaxPlayers)
	}

	cfg.Rounds, err = intFromEnv("GAME_ROUNDS", 3)
	if err != nil {
		return nil, err
	}
	if cfg.Rounds < 1 {
		return nil, fmt.Errorf("GAME_ROUNDS must be at least 1, got %d", cfg.Rounds)
	}

	cfg.TurnTicks, err = intFromEnv("TURN_TICKS", 60)
	if err != nil {
		return nil, err
	}
	if cfg.TurnTicks < 5 {
		return nil, fmt.Errorf("TURN_TICKS must be at least 5, got %d", cfg.TurnTicks)
	}

	tickMillis, err := intFromEnv("TICK_INTERVAL_MS", 1000)
	if err != nil {
		return nil, err
	}
	if tickMillis < 10 {
		return nil, fmt.Errorf("TICK_INTERVAL_MS must be at least 10, got %d", tickMillis)
	}
	cfg.TickInterval = time.Duration(tickMillis) * time.Millisecond

	graceSeconds, err := intFromEnv("RECONNECT_GRACE_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if graceSeconds < 0 {
		return nil, fmt.Errorf("RECONNECT_GRACE_SECONDS must not be negative, got %d", graceSeconds)
	}
	cfg.GracePeriod = time.Duration(graceSeconds) * time.Second

	// Extra comma-separated words appended to the built-in pool.
	extrasStr := os.Getenv("WORD_POOL_EXTRAS")
	if extrasStr != "" {
		for _, word := range strings.Split(extrasStr, ",") {
			trimmed := strings.TrimSpace(word)
			if trimmed != "" {
				cfg.WordPoolExtras = append(cfg.WordPoolExtras, trimmed)
			}
		}
	}

	return cfg, nil
}

// intFromEnv reads an integer environment variable, returning def when unset.
func intFromEnv(name string, def int) (int, error) {
	str := os.Getenv(name)
	if str == "" {
		return def, nil
	}

	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	return value, nil
}
