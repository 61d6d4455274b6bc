// Package config loads and validates application configuration.
//
// Configuration is layered: YAML config file, then .env file, then
// environment variables (CAPTIONS_ prefixed, dot-separated keys joined
// with underscores). Structs carry validate tags checked after defaults
// are applied.
package config
