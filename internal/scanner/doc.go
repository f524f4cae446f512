// Package scanner discovers media files below a directory.
//
// A scan is a fresh snapshot: nothing is cached between calls. Files are
// matched by lower-cased extension against the configured set and returned
// sorted by base name, case-insensitively. Unreadable subtrees are logged and
// skipped so one bad directory never hides the rest of a library.
package scanner
