// Package config loads the description of a simulated site from YAML or TOML.
package config
