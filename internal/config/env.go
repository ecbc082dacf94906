package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order and never override variables that are already
// set, so .env.local takes precedence over .env.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads environment variables from the .env.local and .env files
// in dir when present. An empty dir means the working directory.
func LoadEnvFiles(dir string) {
	for _, base := range envFiles {
		name := filepath.Join(dir, base)
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", name))
	}
}
