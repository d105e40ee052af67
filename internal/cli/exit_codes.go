package cli

// Exit codes for the nevez CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeError indicates a failure during command execution
	ExitRuntimeError = 1

	// ExitConfigError indicates invalid or unreadable configuration
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitSourceUnavailable indicates the repository log or tags could not be read
	ExitSourceUnavailable = 4
)
