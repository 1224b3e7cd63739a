package saveslot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/tailscale/hujson"
)

// Settings hold the engine configuration. All fields are read once at
// initialization; changing them afterwards has no effect on a running
// engine.
type Settings struct {
	// RootFolder is the directory created under the storage root that
	// holds all save artifacts (and the Archive subdirectory).
	RootFolder string `env:"SAVESLOT_ROOT_FOLDER" json:"root_folder"`

	// DefaultFileName is the artifact name of the default bucket,
	// without extension.
	DefaultFileName string `env:"SAVESLOT_DEFAULT_FILE" json:"default_file_name"`

	// HashEnabled prefixes saved payloads with an integrity digest line
	// and verifies it on load.
	HashEnabled bool `env:"SAVESLOT_HASH" json:"hash_enabled"`

	// EncryptionEnabled encrypts payloads on disk. With an empty
	// Password a fixed fallback key is used; see the package docs for
	// why that is weak.
	EncryptionEnabled bool `env:"SAVESLOT_ENCRYPT" json:"encryption_enabled"`

	// Password feeds the key derivation when encryption is enabled.
	Password string `env:"SAVESLOT_PASSWORD" json:"password,omitempty"`

	// Verbose enables debug-level logging.
	Verbose bool `env:"SAVESLOT_VERBOSE" json:"verbose"`

	// LogToFile additionally writes logs to a rolling file under the
	// storage root.
	LogToFile bool `env:"SAVESLOT_LOG_FILE" json:"log_to_file"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		RootFolder:      "SaveData",
		DefaultFileName: "default",
	}
}

// LoadSettings builds Settings with the following precedence (highest
// wins):
//
//  1. Defaults
//  2. Settings file at path (HuJSON: JSON with comments and trailing
//     commas), if path is non-empty
//  3. SAVESLOT_* environment variables
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	if path != "" {
		fileCfg, err := readSettingsFile(path)
		if err != nil {
			return Settings{}, err
		}

		cfg = fileCfg
	}

	if err := env.Parse(&cfg); err != nil {
		return Settings{}, fmt.Errorf("parse env settings: %w", err)
	}

	return cfg, nil
}

// readSettingsFile parses a HuJSON settings file over the defaults.
func readSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-chosen
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid settings file %q: %w", path, err)
	}

	cfg := DefaultSettings()

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Settings{}, fmt.Errorf("invalid settings file %q: %w", path, err)
	}

	return cfg, nil
}

// normalize fills in zero-valued fields with defaults.
func (s Settings) normalize() Settings {
	defaults := DefaultSettings()

	if s.RootFolder == "" {
		s.RootFolder = defaults.RootFolder
	}

	if s.DefaultFileName == "" {
		s.DefaultFileName = defaults.DefaultFileName
	}

	return s
}
