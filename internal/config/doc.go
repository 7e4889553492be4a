// Package config defines the settings shared by soil-node and its control
// clients, and loads, validates and saves them as YAML.
//
// Defaults are filled in during validation, so a minimal file with just
// server_addr is enough for a simulated bench run.
package config
