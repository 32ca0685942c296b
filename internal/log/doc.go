// Package log provides logging with automatic masking of credentials,
// built on top of the standard slog package.
//
// Audit runs carry LLM provider API keys in their configuration, and
// verbose mode logs request details. The RedactHandler masks key-like
// attribute values before they reach the underlying handler, so a
// shared or archived log never exposes a credential.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
