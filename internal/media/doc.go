// Package media defines the value types shared by the scanner, renamer,
// metadata editors and batch runner: the Metadata record, the MediaFile
// entry produced by a scan, the per-file operation results, and the fixed
// Genre vocabulary.
//
// Metadata uses zero values to mean "unset". Editors treat an unset field as
// "leave the existing tag alone", so a partial record never clears data.
package media
