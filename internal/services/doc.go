// Package services defines shared utilities consumed by the scanner, renamer,
// metadata editors and batch runner.
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper so every component reports
//     failures with the same shape and callers classify them with errors.Is.
//   - Context helpers that stamp batch IDs, operation names, and correlation
//     identifiers for logging.
//   - A thin Executor abstraction that keeps external tool invocations
//     (mkvpropedit, mkvinfo, ffprobe) bounded and testable.
//
// Use these helpers when wiring new components so failure handling stays
// uniform: expected failures become markers, never panics.
package services
