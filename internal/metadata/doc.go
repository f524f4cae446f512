// Package metadata routes metadata reads and writes to the editor registered
// for a file's extension.
//
// The Manager owns the extension map and the episode title convention: when
// a record carries a title, season and episode, the title written to the
// container is the formatted episode name ("Show S01 EP001"). Editor failures
// and panics never escape; they are turned into MetadataUpdateResult values so
// a batch can continue with the next file.
package metadata
