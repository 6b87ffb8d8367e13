// Package config loads, normalizes, and validates modeltidy configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// INVOKEAI_ROOT. The Config type centralizes every knob the CLI needs: the
// InvokeAI data root, the review and import staging directories, logging,
// and scanner parallelism.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
