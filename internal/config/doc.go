// Package config holds runtime configuration for quotemark.
//
// Configuration flows from CLI flags into a single Config struct passed by
// dependency injection; there is no ambient global state. An optional YAML
// file (.quotemark) supplies per-page overrides such as a default color.
// The database lives under the XDG data directory unless overridden.
package config
