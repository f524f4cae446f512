// Package mp4tags reads and writes iTunes-style tags in MPEG-4 containers.
//
// Tags live in moov/udta/meta/ilst. The editor handles title (©nam), season
// (tvsn), episode (tves), genre (©gen) and year (©day). Writes are partial:
// fields left at their zero value keep whatever the file already carries.
//
// Files are rewritten with github.com/abema/go-mp4 into a temporary file next
// to the original and swapped in atomically. When the moov box grows or
// shrinks, stco/co64 chunk offsets that point past it are shifted so sample
// data stays addressable.
package mp4tags
