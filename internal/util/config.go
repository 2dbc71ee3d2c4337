package util

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configFileName = "rite.toml"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	DebugAST  bool   `toml:"debug_ast"`
}

// LoadConfiguration reads rite.toml from dir, if present. A missing file
// is not an error; the zero configuration is returned. Flags are applied
// on top by the caller, so the file only supplies defaults.
func LoadConfiguration(dir string) (Configuration, error) {
	var config Configuration

	path := filepath.Join(dir, configFileName)
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return config, err
	}

	slog.Debug("configuration loaded", "path", path)
	return config, nil
}

// ConfigDir picks the directory to search for rite.toml: RITE_HOME when
// set, the working directory otherwise.
func ConfigDir() string {
	if home := os.Getenv("RITE_HOME"); home != "" {
		return home
	}
	return "."
}
