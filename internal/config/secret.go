package config

import (
	"fmt"
	"os"
	"strings"
)

// lookupSecret reads key from the environment or from the file named by
// key_FILE.
func lookupSecret(key string) (string, error) {
	if value, ok := os.LookupEnv(key); ok {
		return value, nil
	}
	path, ok := os.LookupEnv(key + "_FILE")
	if !ok {
		return "", fmt.Errorf("no %s or %s_FILE env variable set", key, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read %s_FILE: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}
