package config

import (
	"os"
	"strings"
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return "8000"
	}
	return port
}

// LevelsFile is an optional YAML catalogue replacing the built-in levels.
func LevelsFile() (string, bool) {
	path, ok := os.LookupEnv("LEVELS_FILE")
	return path, ok && path != ""
}

// EngineLogFile is where engine traces go in addition to stderr.
func EngineLogFile() (string, bool) {
	path, ok := os.LookupEnv("ENGINE_LOG_FILE")
	return path, ok && path != ""
}

func EngineLogLevel() string {
	level, ok := os.LookupEnv("ENGINE_LOG_LEVEL")
	if !ok {
		return "info"
	}
	return strings.ToLower(level)
}

// Development is on when DEVELOPMENT is set to anything but "0".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	return ok && development != "0"
}
