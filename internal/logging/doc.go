// Package logging builds the slog loggers used across mediaorg.
//
// Two handlers are provided: a console handler that renders a readable
// header line followed by the most useful attributes, and a JSON handler for
// machine consumption. NewFromConfig writes console output to stderr and a
// JSON copy to a size-rotated file under the configured log directory.
//
// Components obtain child loggers through NewComponentLogger so every record
// carries a component field; batch and operation identifiers stored on the
// context are attached with WithContext.
package logging
