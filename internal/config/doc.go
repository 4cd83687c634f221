// Package config loads, normalizes, and validates dirprint configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DIRPRINT_ALGORITHM. The Config type gathers the fingerprint options, the
// report destination, snapshot history storage, and logging in one place.
//
// Always obtain settings through this package so callers receive expanded
// paths, canonical algorithm names, and clear validation errors.
package config
