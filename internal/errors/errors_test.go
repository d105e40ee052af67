package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategoryString(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {Argument, "Argument Error"},
		"configuration": {Configuration, "Configuration Error"},
		"source":        {Source, "Source Error"},
		"runtime":       {Runtime, "Runtime Error"},
		"unknown":       {ErrorCategory(99), "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"argument":      {NewArgumentError("bad arg", "fix it"), Argument},
		"configuration": {NewConfigError("bad config"), Configuration},
		"source":        {NewSourceError("no repo"), Source},
		"runtime":       {NewRuntimeError("boom"), Runtime},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestWrapWithMessage(t *testing.T) {
	wrapped := WrapWithMessage(stderrors.New("underlying"), Source, "collecting commits", "check the repository")
	require.NotNil(t, wrapped)

	assert.Equal(t, Source, wrapped.Category)
	assert.Equal(t, "collecting commits: underlying", wrapped.Error())
	assert.Equal(t, []string{"check the repository"}, wrapped.Remediation)

	assert.Nil(t, WrapWithMessage(nil, Source, "nothing"))
}

func TestAsCLIError(t *testing.T) {
	cliErr := NewRuntimeError("boom")
	assert.Same(t, cliErr, AsCLIError(cliErr))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	err := NewArgumentError("missing tag", "Pass the new tag as the first argument")
	err.Usage = "nevez generate <new-tag> [repository]"

	got := FormatErrorPlain(err)

	assert.Contains(t, got, "Error [Argument Error]: missing tag")
	assert.Contains(t, got, "Usage: nevez generate <new-tag> [repository]")
	assert.Contains(t, got, "To fix this:")
	assert.Contains(t, got, "  • Pass the new tag as the first argument")
}

func TestFormatErrorPlain_Nil(t *testing.T) {
	assert.Empty(t, FormatErrorPlain(nil))
}
