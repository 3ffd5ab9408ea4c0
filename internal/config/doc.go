// Package config loads, normalizes, and validates postsweep configuration.
//
// Settings come from a TOML file (default ~/.config/postsweep/config.toml,
// falling back to ./postsweep.toml) with repository defaults applied for
// anything unset. Credentials are handled separately: they are read from the
// process environment, optionally seeded from a .env file, and are never
// written to or read from the config file.
package config
