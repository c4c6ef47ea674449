// Package ui holds the terminal-facing parts of pgfleet: approval prompts
// for destructive operations, result tables and interaction mode detection.
package ui
