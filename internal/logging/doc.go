// Package logging provides concrete implementations of the pgfleet.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes prefixed, line-oriented messages to stderr
//   - StructuredLogger: Writes one JSON object per message (zerolog)
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
