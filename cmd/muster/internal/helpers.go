package internal

import (
	"os"
	"path/filepath"

	"github.com/clanops/muster/pkg/config"
)

var version = "dev"

// GetConfigPath returns the default config location (~/.muster/config.json).
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".muster", "config.json")
}

// LoadConfig loads the config from the default path with env overrides.
func LoadConfig() (*config.Config, error) {
	return config.LoadConfig(GetConfigPath())
}

// GetVersion returns the build version.
func GetVersion() string {
	return version
}
