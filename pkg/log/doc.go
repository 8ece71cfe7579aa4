// Package log provides protocol capture logging for the codec layer.
//
// Every decode and encode performed through an obs.Session can be recorded
// as an Event: which entity, which direction, how many bytes, how long it
// took, and the classified error if it failed. Capture is separate from
// operational logging (slog): it produces a machine-readable trace that can
// be replayed and filtered after the fact.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a binary capture file
//	logger, _ := log.NewFileLogger("/var/log/strawket/session.slog")
//
//	// Both
//	logger := log.NewMultiLogger(console, file)
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with integer keys.
// A path ending in ".zst" is zstd-compressed; the Reader detects this from
// the file name. The strawket CLI can view and filter capture files.
package log
