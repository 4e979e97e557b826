// Package config loads, normalizes, and validates rawconvert configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RAWCONVERT_MAGICK. The Config type centralizes every knob the CLI needs,
// so conversion defaults and external binary locations are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
