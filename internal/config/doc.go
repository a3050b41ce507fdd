// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, an optional YAML file, a .env file and
// SCRY_-prefixed environment variables). It provides type-safe access to
// settings needed by the scheduler, the stores and the HTTP server.
package config
