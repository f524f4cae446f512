// Package fileutil holds the filesystem primitives the renamer and the MP4
// editor depend on: a rename that never overwrites an existing target and an
// atomic temp-file-then-rename replacement.
package fileutil
