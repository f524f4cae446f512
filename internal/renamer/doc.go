// Package renamer computes canonical file names for media files and moves
// them in place.
//
// Episodic files become "Title S01 EP001.ext"; movies become "Title.ext" or
// "Title (2002).ext" when the year is requested. Renames never leave the
// source directory and never overwrite an existing file: on Linux the move is
// a renameat2(RENAME_NOREPLACE), elsewhere a check immediately before
// os.Rename. Every outcome is reported through media.RenameResult with a
// display string and a classified cause.
package renamer
