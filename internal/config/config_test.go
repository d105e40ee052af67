package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory so the developer's real user
// config cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
}

func writeProjectConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, "NEWS.md", cfg.Changelog)
	assert.Equal(t, "Squash", cfg.ExcludeMarker)
	assert.Empty(t, cfg.RulesFile)
	assert.Equal(t, "ANNOUNCE", cfg.Announce.Prefix)
	assert.Empty(t, cfg.Announce.From)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeProjectConfig(t, "changelog: CHANGES.md\nannounce:\n  prefix: RELEASE\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "CHANGES.md", cfg.Changelog)
	assert.Equal(t, "RELEASE", cfg.Announce.Prefix)
	assert.Equal(t, "Squash", cfg.ExcludeMarker, "untouched key keeps its default")
}

func TestLoad_EnvironmentOverridesProject(t *testing.T) {
	isolate(t)
	path := writeProjectConfig(t, "exclude_marker: WIP\n")

	t.Setenv("NEVEZ_EXCLUDE_MARKER", "Fixup")
	t.Setenv("NEVEZ_ANNOUNCE_FROM", "ana@example.org")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Fixup", cfg.ExcludeMarker)
	assert.Equal(t, "ana@example.org", cfg.Announce.From)
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	isolate(t)
	path := writeProjectConfig(t, "changelog: [unterminated\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadWithOptions_WarningWriter(t *testing.T) {
	isolate(t)

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{
		ProjectConfigPath: filepath.Join(t.TempDir(), "absent.yml"),
		WarningWriter:     &warnings,
	})
	require.NoError(t, err)

	assert.Equal(t, "NEWS.md", cfg.Changelog)
	assert.Empty(t, warnings.String(), "no legacy config, no warning")
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]struct {
		env  string
		want string
	}{
		"flat key":       {"NEVEZ_CHANGELOG", "changelog"},
		"underscore key": {"NEVEZ_EXCLUDE_MARKER", "exclude_marker"},
		"nested key":     {"NEVEZ_ANNOUNCE_FROM", "announce.from"},
		"nested prefix":  {"NEVEZ_ANNOUNCE_PREFIX", "announce.prefix"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, envTransform(tt.env))
		})
	}
}

func TestGetDefaultConfigTemplate(t *testing.T) {
	tmpl := GetDefaultConfigTemplate()
	assert.Contains(t, tmpl, "changelog: NEWS.md")
	assert.Contains(t, tmpl, "exclude_marker: Squash")
	assert.Contains(t, tmpl, "prefix: ANNOUNCE")
}
