// Package config loads the application configuration.
package config

import (
	"os"
	"strings"
)

// ExpandPath expands $VAR references and a leading ~ in a configured path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return path
}
