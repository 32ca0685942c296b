// Package config holds the audit configuration: crawl bounds, pacing,
// LLM provider selection, and report output settings.
//
// Configuration is assembled from three layers, later overriding
// earlier: built-in defaults, the .saa.yaml file (current directory,
// then home directory), and CLI flags. API keys are never stored in
// .saa.yaml; they come from a separate keys file or the environment.
package config
