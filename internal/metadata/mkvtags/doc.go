// Package mkvtags edits Matroska titles through MKVToolNix.
//
// Writes shell out to mkvpropedit and only the segment title is supported;
// the other metadata fields are accepted and ignored. Reads parse the first
// "Title:" line printed by mkvinfo and fall back to ffprobe when mkvinfo is
// not installed. Every invocation is bounded by the timeouts in
// config.Tools and runs through a services.Executor so tests can stub it.
package mkvtags
