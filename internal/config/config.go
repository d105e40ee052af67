// Package config provides hierarchical configuration management for
// nevez using koanf. Configuration is loaded with priority: environment
// variables > project config (.nevez/config.yml) > user config
// (~/.config/nevez/config.yml) > defaults. Legacy JSON project configs
// are still readable with a deprecation warning.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the nevez CLI tool configuration.
type Configuration struct {
	// Changelog is the changelog file name, resolved relative to the
	// repository unless an absolute path or a --file flag overrides it.
	Changelog string `koanf:"changelog"`

	// ExcludeMarker drops commits whose subject begins with this
	// marker from the generated changelog.
	ExcludeMarker string `koanf:"exclude_marker"`

	// RulesFile optionally points at a YAML file overriding the
	// built-in classification pattern tables.
	RulesFile string `koanf:"rules_file"`

	// Announce configures the release announcement command.
	Announce AnnounceConfig `koanf:"announce"`
}

// AnnounceConfig holds announcement mail preferences.
type AnnounceConfig struct {
	// From is the sender address; falls back to environment detection.
	From string `koanf:"from"`
	// Template is the path to a custom mail template.
	Template string `koanf:"template"`
	// Prefix is the subject tag (default "ANNOUNCE").
	Prefix string `koanf:"prefix"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .nevez/config.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("NEVEZ_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads project-level config, preferring YAML and
// falling back to legacy JSON with a deprecation warning.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	if fileExists(yamlPath) {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load project config %s: %w", yamlPath, err)
		}
		return nil
	}

	if fileExists(legacyPath) {
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s in YAML format.\n\n", ProjectConfigPath())
		}
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: NEVEZ_EXCLUDE_MARKER -> exclude_marker,
// NEVEZ_ANNOUNCE_FROM -> announce.from
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "NEVEZ_"))
	return strings.Replace(key, "announce_", "announce.", 1)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
