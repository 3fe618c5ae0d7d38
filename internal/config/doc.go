// Package config loads, normalizes, and validates subfit configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as OPENAI_API_KEY. The
// Config type centralizes every knob the CLI needs: state and scratch
// directories, resegmentation width and timing policy, transcription endpoint,
// ffmpeg settings, history retention and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
