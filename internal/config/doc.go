// Package config loads, normalizes, and validates admkit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ADMKIT_FLOW_DB and ADMKIT_LOG_LEVEL. The Config type centralizes the knobs
// the CLI needs: where logs and the S-ADM flow database live, how XML is
// written, and how many files a batch conversion handles at once.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
