package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the XDG-compliant user config path:
// ~/.config/nevez/config.yml
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nevez", "config.yml"), nil
}

// ProjectConfigPath returns the project config path relative to the
// current directory: .nevez/config.yml
func ProjectConfigPath() string {
	return filepath.Join(".nevez", "config.yml")
}

// LegacyProjectConfigPath returns the deprecated JSON project config path.
func LegacyProjectConfigPath() string {
	return filepath.Join(".nevez", "config.json")
}
