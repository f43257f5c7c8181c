package configs

import (
	"os"
	"path/filepath"
)

// HomeEnvVar overrides both the data and config directories when set.
const HomeEnvVar = "RSAKIT_HOME"

type UserSettings struct {
	DataPath    string // key store and history
	ConfigsPath string // config.toml
}

var UserRsakitSettings *UserSettings

func init() {
	UserRsakitSettings = DefaultUserSettings()
}

// DefaultUserSettings resolves directories from RSAKIT_HOME, then the XDG
// locations, then the working directory as a last resort.
func DefaultUserSettings() *UserSettings {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return &UserSettings{
			DataPath:    filepath.Join(home, "data"),
			ConfigsPath: home,
		}
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(homeDir, ".local", "share")
		} else {
			dataDir = "."
		}
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = dataDir
	}

	return &UserSettings{
		DataPath:    filepath.Join(dataDir, "rsakit"),
		ConfigsPath: filepath.Join(configDir, "rsakit"),
	}
}

// ConfigFilePath returns the path of config.toml.
func (s *UserSettings) ConfigFilePath() string {
	return filepath.Join(s.ConfigsPath, "config.toml")
}

// HistoryFilePath returns the path of the operation history log.
func (s *UserSettings) HistoryFilePath() string {
	return filepath.Join(s.DataPath, "history.jsonl")
}
