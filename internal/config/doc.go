// Package config loads, normalizes, and validates captiongen configuration.
//
// It supplies repository defaults that reproduce the plain single-argument
// behaviour (base model, fp16 off, all three caption formats), expands user
// paths including tilde shortcuts, reads TOML files, and honours the
// HF_TOKEN environment fallback used by the WhisperX engine.
//
// A missing configuration file is not an error; callers receive defaults.
package config
