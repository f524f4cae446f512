// Package batch runs rename, tag and organize operations over a scanned file
// list, one file at a time.
//
// Episode numbers follow two rules. Renames advance the episode only after a
// successful rename, so a failed file does not consume its number. Tag
// batches assign start+index to each selected file. Cancellation is checked
// between files; an operation that has started runs to completion.
//
// When a journal is supplied every batch is recorded under a UUID so it can
// be listed and its renames reverted with Undo.
package batch
