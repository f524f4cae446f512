// Package textutil provides small text helpers shared by the naming engine.
//
// SanitizePathComponent keeps user supplied titles from escaping the
// directory of the file being renamed, and Fold produces the Unicode
// case-folded key used for case-insensitive ordering and lookups.
package textutil
