package utils

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matjam/layerpaper"
	"github.com/matjam/layerpaper/internal/ipc"
	"github.com/mitchellh/go-homedir"
	"github.com/tidwall/pretty"
)

// CanonicalPath expands a leading ~ and makes path absolute.
func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		log.Warnf("Expanding %q: %v", path, err)
		expanded = path
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded
	}
	return abs
}

func PrintJSONColored(data interface{}) {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("Error marshalling JSON: %v", err)
		return
	}

	jPretty := pretty.Color(j, nil)
	log.Info(string(jPretty))
}

// ExitOnError reports a failed control request and exits.
func ExitOnError(action string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ipc.ErrDaemonNotRunning) {
		log.Fatal("Daemon is not running")
	}
	log.Fatalf("Failed to %s: %v", action, err)
}

func InstallDefaultConfig() {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalf("Error finding home directory: %v", err)
		}
		configDir = filepath.Join(home, ".config")
	}

	configPath := filepath.Join(configDir, "layerpaper", "layerpaper.toml")

	if _, err := os.Stat(configPath); err == nil {
		log.Warnf("Config file already exists at %v", configPath)
		return
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	if err := os.WriteFile(configPath, []byte(layerpaper.DefaultConfig), 0644); err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}

	log.Infof("Installed default config file at %v", configPath)
}
