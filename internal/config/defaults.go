package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Nevez Configuration

# Changelog settings
changelog: NEWS.md          # Changelog file name, relative to the repository
exclude_marker: Squash      # Drop commits whose subject starts with this marker
rules_file: ""              # YAML file overriding the classification patterns

# Announcement settings
announce:
  from: ""                  # Sender address (empty = detect from environment)
  template: ""              # Custom mail template path (empty = built-in)
  prefix: ANNOUNCE          # Subject tag
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog":      "NEWS.md",
		"exclude_marker": "Squash",
		"rules_file":     "",
		"announce": map[string]interface{}{
			"from":     "",
			"template": "",
			"prefix":   "ANNOUNCE",
		},
	}
}
