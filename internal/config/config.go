// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all server and match settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}

	return cfg
}

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchConfig holds turn resolution settings that sit outside the level data.
type MatchConfig struct {
	TrapTurns int // How many turns mud holds an enemy
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		TrapTurns: 1,
	}
}

// MatchFromEnv returns match configuration with environment variable overrides.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if t := getEnvInt("TRAP_TURNS", 0); t > 0 {
		cfg.TrapTurns = t
	}

	return cfg
}

// =============================================================================
// LEVEL & TELEMETRY PATHS
// =============================================================================

// PathsConfig holds file paths supplied by the environment.
type PathsConfig struct {
	LevelFile    string // JSON level to load at startup; empty means the built-in level
	EventLogFile string // JSONL turn log sink; empty disables the file sink
}

// PathsFromEnv returns file paths from environment variables.
func PathsFromEnv() PathsConfig {
	return PathsConfig{
		LevelFile:    os.Getenv("LEVEL_FILE"),
		EventLogFile: getEnvString("EVENT_LOG_FILE", "events.jsonl"),
	}
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds board frame rendering settings.
type RenderConfig struct {
	CellSize int // Rendered size of one board cell in pixels
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		CellSize: 48,
	}
}

// RenderFromEnv returns render configuration with environment variable overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if s := getEnvInt("CELL_SIZE", 0); s > 0 {
		cfg.CellSize = s
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server ServerConfig
	Match  MatchConfig
	Paths  PathsConfig
	Render RenderConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Server: ServerFromEnv(),
		Match:  MatchFromEnv(),
		Paths:  PathsFromEnv(),
		Render: RenderFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
