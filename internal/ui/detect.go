package ui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for pgfleet.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// EnvNonInteractive forces non-interactive mode when set to 1.
const EnvNonInteractive = "PGFLEET_NON_INTERACTIVE"

// DetectMode determines whether pgfleet may prompt.
//
// Returns ModeNonInteractive if:
//   - PGFLEET_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - stdin or stderr is not a terminal
func DetectMode() Mode {
	return detectMode(os.Getenv, term.IsTerminal, int(os.Stdin.Fd()), int(os.Stderr.Fd()))
}

func detectMode(getenv func(string) string, isTerminal func(int) bool, stdin, stderr int) Mode {
	if getenv(EnvNonInteractive) == "1" {
		return ModeNonInteractive
	}
	if getenv("CI") != "" {
		return ModeNonInteractive
	}
	// Prompts read stdin and write stderr.
	if !isTerminal(stdin) || !isTerminal(stderr) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
