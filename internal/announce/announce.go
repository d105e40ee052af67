// Package announce builds release announcement mails from changelog
// content. The mail body is a text/template rendered over a flat
// key/value data map assembled by DataBuilder.
package announce

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// DefaultTemplate is the built-in announcement mail template, used when
// no template file is configured.
const DefaultTemplate = `From: {{.emitter}}
To: {{.recipients}}
Subject: [{{.prefix}}] {{.project}} {{.version}} is available
bcc: {{.emitter}}

Hi!

Version {{.version}} of {{.project}} is available in its repository [1].

[1] {{.url}}

{{.text}}

Regards,

{{.signature}}
`

// ReleaseInfo describes the release being announced.
type ReleaseInfo struct {
	Project   string
	URL       string
	Version   string
	Changelog string
}

// DataBuilder collects the key/value data used to fill the mail template.
type DataBuilder struct {
	data map[string]string
}

// NewDataBuilder creates a builder pre-seeded with the default subject
// prefix and an empty signature, so templates render cleanly when no
// signature is ever set.
func NewDataBuilder() *DataBuilder {
	return &DataBuilder{data: map[string]string{
		"prefix":    "ANNOUNCE",
		"signature": "",
	}}
}

// Emitter sets the sender address.
func (b *DataBuilder) Emitter(emitter string) *DataBuilder {
	b.data["emitter"] = emitter
	return b
}

// Recipients sets the comma-joined recipient list.
func (b *DataBuilder) Recipients(recipients []string) *DataBuilder {
	b.data["recipients"] = strings.Join(recipients, ", ")
	return b
}

// Info fills in project, url, version, and the "What's new?" body from
// the release information.
func (b *DataBuilder) Info(info ReleaseInfo) *DataBuilder {
	b.data["project"] = info.Project
	b.data["url"] = info.URL
	b.data["version"] = info.Version
	b.data["text"] = fmt.Sprintf("What's new?\n\n```\n%s```", info.Changelog)
	return b
}

// Signature sets the mail signature.
func (b *DataBuilder) Signature(text string) *DataBuilder {
	b.data["signature"] = text
	return b
}

// Extra merges additional key/value pairs into the data, overriding
// existing keys.
func (b *DataBuilder) Extra(extra map[string]string) *DataBuilder {
	for k, v := range extra {
		b.data[k] = v
	}
	return b
}

// Build returns the collected data map.
func (b *DataBuilder) Build() map[string]string {
	return b.data
}

// Render executes the mail template over the data map.
func Render(templateText string, data map[string]string) (string, error) {
	tmpl, err := template.New("mail").Parse(templateText)
	if err != nil {
		return "", fmt.Errorf("parsing mail template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing mail template: %w", err)
	}
	return buf.String(), nil
}

// ProjectName derives a project name from a repository URL: the last
// path component with any ".git" suffix removed.
func ProjectName(url string) (string, bool) {
	parts := strings.Split(url, "/")
	project := parts[len(parts)-1]
	if project == "" {
		return "", false
	}
	return strings.TrimSuffix(project, ".git"), true
}

// ParseParameter splits a "key:value" parameter string.
func ParseParameter(s string) (string, string, bool) {
	key, value, ok := strings.Cut(s, ":")
	if !ok || key == "" {
		return "", "", false
	}
	return key, value, true
}

// UserEmail determines the sender address from the environment:
// DEBEMAIL (with optional DEBFULLNAME), then EMAIL, then USER@HOSTNAME.
func UserEmail() (string, bool) {
	if email := os.Getenv("DEBEMAIL"); email != "" {
		if name := os.Getenv("DEBFULLNAME"); name != "" {
			return fmt.Sprintf("%s <%s>", name, email), true
		}
		return email, true
	}
	if email := os.Getenv("EMAIL"); email != "" {
		return email, true
	}
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	host := os.Getenv("HOSTNAME")
	if user == "" || host == "" {
		return "", false
	}
	return user + "@" + host, true
}

// UserSignature reads ~/.signature if present.
func UserSignature() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	text, err := os.ReadFile(filepath.Join(home, ".signature"))
	if err != nil {
		return "", false
	}
	return string(text), true
}

// ReadRecipients reads one recipient address per line from path.
func ReadRecipients(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipients file %s: %w", path, err)
	}

	var recipients []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			recipients = append(recipients, line)
		}
	}
	return recipients, nil
}
