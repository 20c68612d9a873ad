// Package services defines shared utilities consumed by the caption pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and the source
//     file for logging.
//   - Structured error markers plus the Wrap helper so the CLI can tell a
//     missing file from a model load failure from an export failure.
//   - Summary and Hints, which turn a marked error into the lines printed
//     before the process exits.
package services
